package httpserver

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pscheid92/prizeintervals/internal/domain"
	"github.com/pscheid92/prizeintervals/internal/platform/config"
)

// --- Mock implementations ---

type mockAppService struct {
	getPrizeIntervalsFn func(ctx context.Context) (domain.PrizeIntervals, error)
	listWinnersFn       func(ctx context.Context) ([]domain.Movie, error)
	importMoviesFn      func(ctx context.Context, r io.Reader, mode domain.ImportMode) (*domain.ImportReport, error)
}

func (m *mockAppService) GetPrizeIntervals(ctx context.Context) (domain.PrizeIntervals, error) {
	if m.getPrizeIntervalsFn != nil {
		return m.getPrizeIntervalsFn(ctx)
	}
	return domain.PrizeIntervals{Min: []domain.ProducerInterval{}, Max: []domain.ProducerInterval{}}, nil
}

func (m *mockAppService) ListWinners(ctx context.Context) ([]domain.Movie, error) {
	if m.listWinnersFn != nil {
		return m.listWinnersFn(ctx)
	}
	return []domain.Movie{}, nil
}

func (m *mockAppService) ImportMovies(ctx context.Context, r io.Reader, mode domain.ImportMode) (*domain.ImportReport, error) {
	if m.importMoviesFn != nil {
		return m.importMoviesFn(ctx, r, mode)
	}
	return nil, errors.New("not implemented")
}

// --- Test helpers ---

func testConfig() *config.Config {
	return &config.Config{
		Port:           "8080",
		QueryTimeout:   time.Second,
		MaxImportBytes: 1 << 20,
	}
}

func newTestServer(t *testing.T, app appService, opts ...func(*Server)) *Server {
	t.Helper()

	srv := &Server{
		echo:      echo.New(),
		config:    testConfig(),
		app:       app,
		startTime: time.Now(),
	}

	for _, opt := range opts {
		opt(srv)
	}

	// Register routes so endpoints are available for testing
	srv.registerRoutes()

	return srv
}

func withReadinessChecks(checks ...HealthCheck) func(*Server) {
	return func(s *Server) {
		s.healthChecks.Readiness = checks
	}
}

func withStartupChecks(checks ...HealthCheck) func(*Server) {
	return func(s *Server) {
		s.healthChecks.Startup = checks
	}
}

func withConfig(mutate func(*config.Config)) func(*Server) {
	return func(s *Server) {
		mutate(s.config)
	}
}
