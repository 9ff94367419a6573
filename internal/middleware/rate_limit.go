package middleware

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	apierrors "github.com/yukikurage/tree-api/internal/errors"
)

// RateLimit rejects requests with 429 once the shared token bucket is empty.
// A nil limiter lets every request through.
func RateLimit(limiter *rate.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter != nil && !limiter.Allow() {
			c.Header("Retry-After", "1")
			apierrors.TooManyRequests(c, "")
			return
		}
		c.Next()
	}
}

// NewLimiter builds the limiter for perSecond requests with the given burst.
// Zero perSecond disables limiting.
func NewLimiter(perSecond float64, burst int) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}
