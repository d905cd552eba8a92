package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/deppfellow/jobly/internal/middleware"
	"github.com/deppfellow/jobly/internal/server"
)

// HealthHandler serves /status for load balancers and uptime monitors.
type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

type HealthCheck struct {
	Status       string `json:"status"`
	ResponseTime string `json:"response_time"`
	Error        string `json:"error,omitempty"`
}

type HealthResponse struct {
	Status      string                 `json:"status"`
	Timestamp   time.Time              `json:"timestamp"`
	Environment string                 `json:"environment"`
	Checks      map[string]HealthCheck `json:"checks"`
}

// CheckHealth probes the configured dependencies. It answers 503 when the
// database is unreachable; an unreachable Redis only degrades background
// notifications and is reported without failing the check.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()
	cfg := h.server.Config.Observability

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	response := HealthResponse{
		Status:      "healthy",
		Timestamp:   time.Now().UTC(),
		Environment: h.server.Config.Primary.Env,
		Checks:      map[string]HealthCheck{},
	}

	if cfg.HealthCheckEnabled("database") && h.server.DB != nil {
		check := h.probe(c.Request().Context(), &logger, "database", h.server.DB.Pool.Ping)
		response.Checks["database"] = check
		if check.Status != "healthy" {
			response.Status = "unhealthy"
		}
	}

	if cfg.HealthCheckEnabled("redis") && h.server.Redis != nil {
		response.Checks["redis"] = h.probe(c.Request().Context(), &logger, "redis", func(ctx context.Context) error {
			return h.server.Redis.Ping(ctx).Err()
		})
	}

	if response.Status != "healthy" {
		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")

		h.recordEvent(map[string]any{
			"check_type":        "overall",
			"error_type":        "overall_unhealthy",
			"total_duration_ms": time.Since(start).Milliseconds(),
		})

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	logger.Info().
		Dur("total_duration", time.Since(start)).
		Msg("health check passed")

	return c.JSON(http.StatusOK, response)
}

func (h *HealthHandler) probe(parent context.Context, logger *zerolog.Logger, name string, ping func(context.Context) error) HealthCheck {
	ctx, cancel := context.WithTimeout(parent, h.server.Config.Observability.HealthChecks.Timeout)
	defer cancel()

	start := time.Now()
	err := ping(ctx)
	elapsed := time.Since(start)

	if err != nil {
		logger.Error().
			Err(err).
			Str("check", name).
			Dur("response_time", elapsed).
			Msg("health check failed")

		h.recordEvent(map[string]any{
			"check_type":       name,
			"error_type":       name + "_unhealthy",
			"response_time_ms": elapsed.Milliseconds(),
			"error_message":    err.Error(),
		})

		return HealthCheck{Status: "unhealthy", ResponseTime: elapsed.String(), Error: err.Error()}
	}

	logger.Debug().
		Str("check", name).
		Dur("response_time", elapsed).
		Msg("health check passed")

	return HealthCheck{Status: "healthy", ResponseTime: elapsed.String()}
}

func (h *HealthHandler) recordEvent(attrs map[string]any) {
	app := h.server.LoggerService.GetApplication()
	if app == nil {
		return
	}

	attrs["operation"] = "health_check"
	app.RecordCustomEvent("HealthCheckError", attrs)
}
