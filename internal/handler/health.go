package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/hangar/internal/middleware"
	"github.com/deppfellow/hangar/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// HealthHandler serves /status for load balancers and uptime monitors.
// It reports the database and Redis checks named in observability config.
type HealthHandler struct {
	Handler
}

// NewHealthHandler constructs a HealthHandler.
func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

// CheckHealth returns 200 when every enabled check passes and 503 when the
// database is unreachable. A Redis failure is reported but does not fail the
// service: planes are still served without background events.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	obs := h.server.Config.Observability
	checks := make(map[string]interface{})
	response := map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"checks":      checks,
	}

	timeout := 5 * time.Second
	if obs != nil && obs.HealthChecks.Timeout > 0 {
		timeout = obs.HealthChecks.Timeout
	}

	isHealthy := true

	// ---------------- Database connectivity check ----------------------------
	if obs == nil || obs.CheckEnabled("database") {
		err := h.ping(c.Request().Context(), timeout, func(ctx context.Context) error {
			if h.server.DB == nil || h.server.DB.Pool == nil {
				return fmt.Errorf("database not initialized")
			}
			return h.server.DB.Pool.Ping(ctx)
		}, "database", checks, logger)
		if err != nil {
			isHealthy = false
		}
	}

	// ---------------- Redis connectivity check -------------------------------
	if h.server.Redis != nil && (obs == nil || obs.CheckEnabled("redis")) {
		_ = h.ping(c.Request().Context(), timeout, func(ctx context.Context) error {
			return h.server.Redis.Ping(ctx).Err()
		}, "redis", checks, logger)
	}

	// ---------------- Overall status + response ------------------------------
	if !isHealthy {
		response["status"] = "unhealthy"

		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")

		h.recordHealthError(map[string]interface{}{
			"check_type":        "overall",
			"operation":         "health_check",
			"error_type":        "overall_unhealthy",
			"total_duration_ms": time.Since(start).Milliseconds(),
		})

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	logger.Info().
		Dur("total_duration", time.Since(start)).
		Msg("health check passed")

	if err := c.JSON(http.StatusOK, response); err != nil {
		logger.Error().Err(err).Msg("failed to write JSON response")
		return fmt.Errorf("failed to write JSON response: %w", err)
	}

	return nil
}

// ping runs a single dependency probe and records its outcome under name.
func (h *HealthHandler) ping(
	parent context.Context,
	timeout time.Duration,
	probe func(ctx context.Context) error,
	name string,
	checks map[string]interface{},
	logger zerolog.Logger,
) error {
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	probeStart := time.Now()
	err := probe(ctx)
	elapsed := time.Since(probeStart)

	if err != nil {
		checks[name] = map[string]interface{}{
			"status":        "unhealthy",
			"response_time": elapsed.String(),
			"error":         err.Error(),
		}

		logger.Error().
			Err(err).
			Dur("response_time", elapsed).
			Msgf("%s health check failed", name)

		h.recordHealthError(map[string]interface{}{
			"check_type":       name,
			"operation":        "health_check",
			"error_type":       name + "_unhealthy",
			"response_time_ms": elapsed.Milliseconds(),
			"error_message":    err.Error(),
		})
		return err
	}

	checks[name] = map[string]interface{}{
		"status":        "healthy",
		"response_time": elapsed.String(),
	}

	logger.Info().
		Dur("response_time", elapsed).
		Msgf("%s health check passed", name)

	return nil
}

func (h *HealthHandler) recordHealthError(attrs map[string]interface{}) {
	if h.server.LoggerService != nil && h.server.LoggerService.GetApplication() != nil {
		h.server.LoggerService.GetApplication().RecordCustomEvent("HealthCheckError", attrs)
	}
}
