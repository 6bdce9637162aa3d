package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pscheid92/prizeintervals/internal/domain"
	apperrors "github.com/pscheid92/prizeintervals/internal/platform/errors"
)

func (s *Server) registerMovieRoutes() {
	movies := s.echo.Group("/movies")
	movies.GET("", s.handleListWinners)
	movies.GET("/prize-intervals", s.handlePrizeIntervals)

	var importMiddleware []echo.MiddlewareFunc
	if limiter := newImportRateLimiter(s.config.ImportRateLimit, s.config.ImportRateBurst); limiter != nil {
		importMiddleware = append(importMiddleware, limiter)
	}
	movies.POST("/import", s.handleImport, importMiddleware...)
}

func (s *Server) handlePrizeIntervals(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), s.config.QueryTimeout)
	defer cancel()

	result, err := s.app.GetPrizeIntervals(ctx)
	if err != nil {
		return apperrors.StoreError("failed to compute prize intervals", err)
	}

	if err := c.JSON(http.StatusOK, result); err != nil {
		return fmt.Errorf("failed to write prize intervals: %w", err)
	}
	return nil
}

func (s *Server) handleListWinners(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), s.config.QueryTimeout)
	defer cancel()

	movies, err := s.app.ListWinners(ctx)
	if err != nil {
		return apperrors.StoreError("failed to list winners", err)
	}

	if err := c.JSON(http.StatusOK, movies); err != nil {
		return fmt.Errorf("failed to write winners: %w", err)
	}
	return nil
}

// handleImport loads a movie list from the request body. ?mode=replace swaps
// the stored list, anything else appends.
func (s *Server) handleImport(c echo.Context) error {
	rawMode := c.QueryParam("mode")
	mode, err := domain.ParseImportMode(rawMode)
	if err != nil {
		return apperrors.ValidationError("mode must be append or replace").WithField("mode", rawMode)
	}

	body := http.MaxBytesReader(c.Response(), c.Request().Body, s.config.MaxImportBytes)
	report, err := s.app.ImportMovies(c.Request().Context(), body, mode)

	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return apperrors.TooLargeError(fmt.Sprintf("movie list exceeds %d bytes", tooLarge.Limit))
	case errors.Is(err, domain.ErrInvalidHeader):
		return apperrors.ValidationError(err.Error())
	case err != nil:
		return apperrors.StoreError("failed to import movie list", err)
	}

	if err := c.JSON(http.StatusOK, report); err != nil {
		return fmt.Errorf("failed to write import report: %w", err)
	}
	return nil
}
