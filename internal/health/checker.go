package health

import (
	"context"
	"errors"
	"time"

	"github.com/Ayash-Bera/kuna/backend/internal/database"
	"github.com/Ayash-Bera/kuna/backend/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	ServiceName = "kuna-backend"
	Version     = "1.0.0"
)

const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
	StatusDisabled  = "disabled"
)

// Pinger is implemented by database.Manager
type Pinger interface {
	PingDatabase(ctx context.Context) error
	PingRedis(ctx context.Context) error
}

// HealthChecker manages health checks for all services
type HealthChecker struct {
	pinger  Pinger
	logger  *logrus.Logger
	timeout time.Duration
	now     func() time.Time
}

func NewHealthChecker(pinger Pinger, logger *logrus.Logger) *HealthChecker {
	return &HealthChecker{
		pinger:  pinger,
		logger:  logger,
		timeout: 2 * time.Second,
		now:     time.Now,
	}
}

// CheckDatabase checks the primary database
func (h *HealthChecker) CheckDatabase(ctx context.Context) string {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	if err := h.pinger.PingDatabase(ctx); err != nil {
		h.logger.WithError(err).Error("Database health check failed")
		return StatusUnhealthy
	}
	return StatusHealthy
}

// CheckRedis checks Redis, which is optional
func (h *HealthChecker) CheckRedis(ctx context.Context) string {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	err := h.pinger.PingRedis(ctx)
	switch {
	case err == nil:
		return StatusHealthy
	case errors.Is(err, database.ErrRedisDisabled):
		return StatusDisabled
	default:
		h.logger.WithError(err).Error("Redis health check failed")
		return StatusUnhealthy
	}
}

// CheckAll performs health checks on all services.
// A failing database makes the API unhealthy; a failing Redis only degrades it.
func (h *HealthChecker) CheckAll(ctx context.Context) models.HealthResponse {
	services := map[string]string{
		"database": h.CheckDatabase(ctx),
		"redis":    h.CheckRedis(ctx),
	}

	overall := StatusHealthy
	if services["database"] == StatusUnhealthy {
		overall = StatusUnhealthy
	} else if services["redis"] == StatusUnhealthy {
		overall = StatusDegraded
	}

	return models.HealthResponse{
		Status:    overall,
		Service:   ServiceName,
		Version:   Version,
		Timestamp: h.now().UTC().Format(time.RFC3339),
		Services:  services,
	}
}
