package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/deppfellow/go-cats/internal/config"
	"github.com/deppfellow/go-cats/internal/middleware"
	"github.com/deppfellow/go-cats/internal/server"
)

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
)

// HealthHandler exposes GET /status for load balancers and uptime monitors.
type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

// CheckResult is the outcome of a single dependency check.
type CheckResult struct {
	Status       string `json:"status"`
	ResponseTime string `json:"response_time"`
	Detail       string `json:"detail,omitempty"`
	Error        string `json:"error,omitempty"`
}

// HealthResponse is the body of GET /status.
type HealthResponse struct {
	Status      string                 `json:"status"`
	Timestamp   time.Time              `json:"timestamp"`
	Environment string                 `json:"environment"`
	Store       string                 `json:"store"`
	Checks      map[string]CheckResult `json:"checks"`
}

// CheckHealth reports the service status and its dependency checks.
//
// The checks listed in observability.health_checks.checks are run:
//   - store: pings PostgreSQL when cats.store=postgres, always healthy in memory
//   - redis: pings Redis when a redis block is configured
//
// It answers 200 when every check passes and 503 otherwise.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()
	cfg := h.server.Config

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	response := HealthResponse{
		Status:      statusHealthy,
		Timestamp:   time.Now().UTC(),
		Environment: cfg.Primary.Env,
		Store:       cfg.Cats.Store,
		Checks:      make(map[string]CheckResult),
	}

	healthChecks := cfg.Observability.HealthChecks
	if healthChecks.Enabled {
		if cfg.Observability.HasCheck("store") {
			response.Checks["store"] = h.runCheck(c.Request().Context(), &logger, "store", h.pingStore)
		}

		if cfg.Observability.HasCheck("redis") && h.server.Redis != nil {
			response.Checks["redis"] = h.runCheck(c.Request().Context(), &logger, "redis", func(ctx context.Context) (string, error) {
				return cfg.Redis.Address, h.server.Redis.Ping(ctx).Err()
			})
		}
	}

	for _, check := range response.Checks {
		if check.Status != statusHealthy {
			response.Status = statusUnhealthy
		}
	}

	if response.Status != statusHealthy {
		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")

		h.recordHealthEvent(map[string]interface{}{
			"check_type":        "overall",
			"operation":         "health_check",
			"error_type":        "overall_unhealthy",
			"total_duration_ms": time.Since(start).Milliseconds(),
		})

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	logger.Debug().
		Dur("total_duration", time.Since(start)).
		Msg("health check passed")

	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to write JSON response: %w", err)
	}

	return nil
}

// pingStore pings the configured cat store.
func (h *HealthHandler) pingStore(ctx context.Context) (string, error) {
	if h.server.Config.Cats.Store != config.StorePostgres {
		return config.StoreMemory, nil
	}
	if h.server.DB == nil {
		return config.StorePostgres, fmt.Errorf("database not initialized")
	}
	return config.StorePostgres, h.server.DB.Ping(ctx)
}

// runCheck runs ping under the configured timeout and logs the outcome.
func (h *HealthHandler) runCheck(
	parent context.Context,
	logger *zerolog.Logger,
	name string,
	ping func(ctx context.Context) (string, error),
) CheckResult {
	ctx, cancel := context.WithTimeout(parent, h.server.Config.Observability.HealthChecks.Timeout)
	defer cancel()

	checkStart := time.Now()
	detail, err := ping(ctx)
	elapsed := time.Since(checkStart)

	if err != nil {
		logger.Error().
			Err(err).
			Str("check", name).
			Dur("response_time", elapsed).
			Msg("health check failed")

		h.recordHealthEvent(map[string]interface{}{
			"check_type":       name,
			"operation":        "health_check",
			"error_type":       name + "_unhealthy",
			"response_time_ms": elapsed.Milliseconds(),
			"error_message":    err.Error(),
		})

		return CheckResult{
			Status:       statusUnhealthy,
			ResponseTime: elapsed.String(),
			Detail:       detail,
			Error:        err.Error(),
		}
	}

	return CheckResult{
		Status:       statusHealthy,
		ResponseTime: elapsed.String(),
		Detail:       detail,
	}
}

func (h *HealthHandler) recordHealthEvent(attrs map[string]interface{}) {
	if h.server.LoggerService != nil && h.server.LoggerService.GetApplication() != nil {
		h.server.LoggerService.GetApplication().RecordCustomEvent("HealthCheckError", attrs)
	}
}
