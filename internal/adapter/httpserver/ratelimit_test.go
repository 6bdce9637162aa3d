package httpserver

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pscheid92/prizeintervals/internal/domain"
	"github.com/pscheid92/prizeintervals/internal/platform/config"
	apperrors "github.com/pscheid92/prizeintervals/internal/platform/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRemoteAddr = "1.2.3.4:1234"

func TestImportRateLimiter_DisabledAtZero(t *testing.T) {
	assert.Nil(t, newImportRateLimiter(0, 5))
}

func TestImportRateLimiter_AllowsBurst(t *testing.T) {
	e := echo.New()
	handler := newImportRateLimiter(10, 3)(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	for range 3 {
		req := httptest.NewRequest(http.MethodPost, "/movies/import", nil)
		req.RemoteAddr = testRemoteAddr
		rec := httptest.NewRecorder()

		require.NoError(t, handler(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestImportRateLimiter_DeniesPerClient(t *testing.T) {
	e := echo.New()
	handler := newImportRateLimiter(0.01, 1)(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	call := func(remoteAddr string) error {
		req := httptest.NewRequest(http.MethodPost, "/movies/import", nil)
		req.RemoteAddr = remoteAddr
		return handler(e.NewContext(req, httptest.NewRecorder()))
	}

	require.NoError(t, call(testRemoteAddr))
	require.NoError(t, call("5.6.7.8:5678"))

	err := call(testRemoteAddr)
	require.Error(t, err)
	structured := apperrors.AsStructuredError(err)
	assert.Equal(t, apperrors.TypeRateLimited, structured.Type)
	assert.Equal(t, "1.2.3.4", structured.Context["client"])
}

func TestHandleImport_RateLimited(t *testing.T) {
	srv := newTestServer(t, &mockAppService{
		importMoviesFn: func(_ context.Context, _ io.Reader, mode domain.ImportMode) (*domain.ImportReport, error) {
			return &domain.ImportReport{Mode: mode, Skipped: []domain.RowError{}}, nil
		},
	}, withConfig(func(cfg *config.Config) {
		cfg.ImportRateLimit = 0.01
		cfg.ImportRateBurst = 1
	}))

	first := serve(srv, http.MethodPost, "/movies/import", strings.NewReader("year;title;studios;producers;winner\n"))
	assert.Equal(t, http.StatusOK, first.Code)

	second := serve(srv, http.MethodPost, "/movies/import", strings.NewReader("year;title;studios;producers;winner\n"))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)

	var resp apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &resp))
	assert.Equal(t, apperrors.TypeRateLimited, resp.Type)
	assert.Equal(t, "import rate limit exceeded", resp.Error)

	// Queries are not limited.
	query := serve(srv, http.MethodGet, "/movies/prize-intervals", nil)
	assert.Equal(t, http.StatusOK, query.Code)
}
