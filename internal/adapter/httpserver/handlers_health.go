package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"github.com/pscheid92/prizeintervals/internal/platform/version"
)

const (
	startupCheckTimeout   = 2 * time.Second
	readinessCheckTimeout = 5 * time.Second
)

// HealthCheck is a named health check function.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// HealthChecks groups checks by endpoint. Startup checks gate the startup endpoint
// only (for example, the movie list having been imported); readiness checks
// gate both endpoints.
type HealthChecks struct {
	Startup   []HealthCheck
	Readiness []HealthCheck
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func (s *Server) registerHealthRoutes() {
	s.echo.GET("/health/startup", s.handleStartup)
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/version", s.handleVersion)
	if s.metricsHandler != nil {
		s.echo.GET("/metrics", echo.WrapHandler(s.metricsHandler))
	}
}

func (s *Server) handleStartup(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), startupCheckTimeout)
	defer cancel()

	checks := append(append([]HealthCheck{}, s.healthChecks.Readiness...), s.healthChecks.Startup...)
	return writeHealth(c, "started", runHealthChecks(ctx, checks))
}

func (s *Server) handleLiveness(c echo.Context) error {
	response := map[string]any{
		"status": "ok",
		"uptime": time.Since(s.startTime).Seconds(),
	}
	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to write liveness response: %w", err)
	}
	return nil
}

func (s *Server) handleReadiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readinessCheckTimeout)
	defer cancel()

	return writeHealth(c, "ready", runHealthChecks(ctx, s.healthChecks.Readiness))
}

// runHealthChecks runs every check concurrently and returns "ok" or the
// error message per check name.
func runHealthChecks(ctx context.Context, checks []HealthCheck) map[string]string {
	results := make(map[string]string, len(checks))
	var mu sync.Mutex

	var g errgroup.Group
	for _, hc := range checks {
		g.Go(func() error {
			status := "ok"
			if err := hc.Check(ctx); err != nil {
				status = err.Error()
			}

			mu.Lock()
			defer mu.Unlock()
			results[hc.Name] = status
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func writeHealth(c echo.Context, healthyStatus string, results map[string]string) error {
	code := http.StatusOK
	response := healthResponse{Status: healthyStatus, Checks: results}
	for _, status := range results {
		if status != "ok" {
			code = http.StatusServiceUnavailable
			response.Status = "unhealthy"
			break
		}
	}

	if err := c.JSON(code, response); err != nil {
		return fmt.Errorf("failed to write health response: %w", err)
	}
	return nil
}

func (s *Server) handleVersion(c echo.Context) error {
	if err := c.JSON(http.StatusOK, version.Get()); err != nil {
		return fmt.Errorf("failed to write version response: %w", err)
	}
	return nil
}
