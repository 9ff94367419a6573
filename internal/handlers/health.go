package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yukikurage/tree-api/internal/health"
)

type HealthHandler struct {
	checker *health.Checker
}

func NewHealthHandler(checker *health.Checker) *HealthHandler {
	return &HealthHandler{checker: checker}
}

// Health reports the status of every registered component. Any failure
// answers 503.
func (h *HealthHandler) Health(c *gin.Context) {
	components, healthy := h.checker.Check(c.Request.Context())

	status, code := "UP", http.StatusOK
	if !healthy {
		status, code = "DOWN", http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":     status,
		"components": components,
	})
}
