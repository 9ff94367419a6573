package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yukikurage/tree-api/internal/metrics"
)

// Metrics records request counts and latency by route template
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		metrics.RecordHTTPRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
