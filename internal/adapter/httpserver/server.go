package httpserver

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/pscheid92/prizeintervals/internal/adapter/metrics"
	"github.com/pscheid92/prizeintervals/internal/domain"
	"github.com/pscheid92/prizeintervals/internal/platform/config"
)

type appService interface {
	GetPrizeIntervals(ctx context.Context) (domain.PrizeIntervals, error)
	ListWinners(ctx context.Context) ([]domain.Movie, error)
	ImportMovies(ctx context.Context, r io.Reader, mode domain.ImportMode) (*domain.ImportReport, error)
}

type Server struct {
	echo   *echo.Echo
	config *config.Config

	app appService

	httpMetrics    *metrics.RequestMetrics
	metricsHandler http.Handler

	healthChecks HealthChecks
	startTime    time.Time
}

// NewServer wires the routes. reg may be nil, in which case neither /metrics
// nor the request metrics middleware is installed.
func NewServer(cfg *config.Config, app appService, reg *prometheus.Registry, healthChecks HealthChecks) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	srv := &Server{
		echo:         e,
		config:       cfg,
		app:          app,
		healthChecks: healthChecks,
		startTime:    time.Now(),
	}
	if reg != nil {
		srv.httpMetrics = metrics.NewRequestMetrics(reg)
		srv.metricsHandler = metrics.Handler(reg)
	}

	srv.registerRoutes()
	return srv
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	if err := s.echo.Start(":" + s.config.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}
