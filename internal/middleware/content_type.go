package middleware

import (
	"mime"
	"strings"

	"github.com/gin-gonic/gin"

	apierrors "github.com/yukikurage/tree-api/internal/errors"
)

// RequireContentType answers 415 unless the request body has one of the
// allowed media types. Parameters such as charset are ignored.
func RequireContentType(allowed ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		mediaType, _, err := mime.ParseMediaType(c.GetHeader("Content-Type"))
		if err == nil {
			for _, a := range allowed {
				if strings.EqualFold(mediaType, a) {
					c.Next()
					return
				}
			}
		}

		apierrors.UnsupportedMediaType(c, "Content type must be one of "+strings.Join(allowed, ", "))
	}
}
