package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Cache lookup results.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// Entity operation outcomes.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests labeled by method, route and status",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	entityOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "entity_operations_total",
			Help: "Total number of entity operations labeled by entity, operation and outcome",
		},
		[]string{"entity", "operation", "outcome"},
	)
	entityCacheRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "entity_cache_requests_total",
			Help: "Total number of second-level cache lookups labeled by entity and result",
		},
		[]string{"entity", "result"},
	)
)

// RecordHTTPRequest counts a served request and records its latency.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}

	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordEntityOperation counts a service-level operation on entity.
func RecordEntityOperation(entity, operation, outcome string) {
	entityOperationsTotal.WithLabelValues(entity, operation, outcome).Inc()
}

// RecordCacheRequest counts a cache lookup for entity.
func RecordCacheRequest(entity, result string) {
	entityCacheRequestsTotal.WithLabelValues(entity, result).Inc()
}
