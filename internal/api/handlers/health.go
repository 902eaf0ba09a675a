// backend/internal/api/handlers/health.go
package handlers

import (
	"net/http"

	"github.com/Ayash-Bera/kuna/backend/internal/health"
	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	checker *health.HealthChecker
}

func NewHealthHandler(checker *health.HealthChecker) *HealthHandler {
	return &HealthHandler{checker: checker}
}

// Health reports dependency status; 503 when the database is unreachable
func (h *HealthHandler) Health(c *gin.Context) {
	report := h.checker.CheckAll(c.Request.Context())

	status := http.StatusOK
	if report.Status == health.StatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, report)
}

func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Kuna Therapist Matching API",
		"version": health.Version,
	})
}
