package errors

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/yukikurage/tree-api/internal/constants"
)

// Reporter turns unexpected failures into 500 responses. The cause is logged
// at error level, which is also what forwards it to Sentry when the logger
// has Sentry enabled; the client only sees a generic message.
type Reporter struct {
	log *slog.Logger
}

func NewReporter(log *slog.Logger) *Reporter {
	if log == nil {
		log = slog.Default()
	}
	return &Reporter{log: log}
}

// Internal logs err and responds with 500.
func (r *Reporter) Internal(c *gin.Context, err error) {
	route := c.FullPath()
	if route == "" {
		route = "unmatched"
	}

	r.log.LogAttrs(c.Request.Context(), slog.LevelError, "request failed",
		slog.String("method", c.Request.Method),
		slog.Any("error", err),
		// slog-sentry turns the tags group into event tags
		slog.Group("tags",
			slog.String("route", route),
			slog.String("request_id", c.GetString(constants.ContextKeyRequestID)),
		),
	)

	InternalError(c, "")
}
