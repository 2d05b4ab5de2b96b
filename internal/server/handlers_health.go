package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const READINESS_TIMEOUT = 5 * time.Second

type livenessResponse struct {
	Status        string    `json:"status"`
	StartedAt     time.Time `json:"started_at"`
	UptimeSeconds int64     `json:"uptime_seconds"`
}

// readinessResponse lists every resource check that ran. Failures maps a check name
// to its error, which names the missing file.
type readinessResponse struct {
	Status   string            `json:"status"`
	Checked  []string          `json:"checked"`
	Failures map[string]string `json:"failures,omitempty"`
}

func (s *Server) registerHealthRoutes() {
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
}

func (s *Server) handleLiveness(c echo.Context) error {
	return c.JSON(http.StatusOK, livenessResponse{
		Status:        "ok",
		StartedAt:     s.startTime.UTC(),
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
	})
}

// handleReadiness runs all checks instead of stopping at the first failure, so an
// operator sees every language resource that has gone missing at once.
func (s *Server) handleReadiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), READINESS_TIMEOUT)
	defer cancel()

	response := readinessResponse{Status: "ready", Checked: make([]string, 0, len(s.healthChecks))}
	for _, hc := range s.healthChecks {
		response.Checked = append(response.Checked, hc.Name)
		if err := hc.Check(ctx); err != nil {
			if response.Failures == nil {
				response.Failures = make(map[string]string)
			}
			response.Failures[hc.Name] = err.Error()
		}
	}

	if len(response.Failures) > 0 {
		response.Status = "unavailable"
		slog.Warn("[Server] Readiness check failed",
			slog.Any("failures", response.Failures))
		return c.JSON(http.StatusServiceUnavailable, response)
	}
	return c.JSON(http.StatusOK, response)
}
