package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/prizeintervals/internal/domain"
	"github.com/pscheid92/prizeintervals/internal/interval"
	"github.com/pscheid92/prizeintervals/internal/movielist"
	"golang.org/x/sync/singleflight"
)

const defaultComputeTimeout = 5 * time.Second

// Service is the application layer. It owns the import and query use cases
// and keeps the interval cache consistent with the movie store.
type Service struct {
	movies  domain.MovieRepository
	cache   domain.IntervalCache
	metrics Recorder
	clock   clockwork.Clock
	parse   movielist.Options

	computeGroup   singleflight.Group
	computeTimeout time.Duration

	// generation counts local imports and keys computeGroup, so callers
	// arriving after an import never join a computation started before it.
	generation atomic.Uint64
	importMu   sync.Mutex
}

type Option func(*Service)

// WithComputeTimeout bounds a shared computation independently of the
// callers waiting for it.
func WithComputeTimeout(d time.Duration) Option {
	return func(s *Service) {
		s.computeTimeout = d
	}
}

// NewService creates the application layer service.
// cache may be nil to disable caching; recorder may be nil to disable metrics.
func NewService(movies domain.MovieRepository, cache domain.IntervalCache, recorder Recorder, clock clockwork.Clock, parse movielist.Options, opts ...Option) *Service {
	if recorder == nil {
		recorder = noopRecorder{}
	}
	s := &Service{
		movies:         movies,
		cache:          cache,
		metrics:        recorder,
		clock:          clock,
		parse:          parse,
		computeTimeout: defaultComputeTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// cacheLookup is what a caller learned from the cache before reading the
// store. storable is false when the cache could not report its generation.
type cacheLookup struct {
	result   domain.PrizeIntervals
	gen      uint64
	hit      bool
	storable bool
}

// GetPrizeIntervals returns the producers with the shortest and longest gap
// between consecutive wins. Cached results are served until the next import;
// concurrent misses share one computation, which keeps running when the
// caller that started it goes away.
func (s *Service) GetPrizeIntervals(ctx context.Context) (domain.PrizeIntervals, error) {
	lookup := s.lookup(ctx)
	if lookup.hit {
		return lookup.result, nil
	}

	key := strconv.FormatUint(s.generation.Load(), 10)
	ch := s.computeGroup.DoChan(key, func() (any, error) {
		flightCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.computeTimeout)
		defer cancel()
		return s.compute(flightCtx, lookup)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return domain.PrizeIntervals{}, res.Err
		}
		return res.Val.(domain.PrizeIntervals), nil
	case <-ctx.Done():
		return domain.PrizeIntervals{}, fmt.Errorf("stopped waiting for prize intervals: %w", ctx.Err())
	}
}

func (s *Service) lookup(ctx context.Context) cacheLookup {
	if s.cache == nil {
		return cacheLookup{}
	}

	result, gen, err := s.cache.Get(ctx)
	switch {
	case err == nil:
		s.metrics.CacheLookup(true)
		return cacheLookup{result: *result, gen: gen, hit: true}
	case errors.Is(err, domain.ErrCacheMiss):
		s.metrics.CacheLookup(false)
		return cacheLookup{gen: gen, storable: true}
	default:
		slog.WarnContext(ctx, "Interval cache lookup failed, computing from store", "error", err)
		s.metrics.CacheError("get")
		return cacheLookup{}
	}
}

func (s *Service) compute(ctx context.Context, lookup cacheLookup) (domain.PrizeIntervals, error) {
	start := s.clock.Now()

	winners, err := s.movies.ListWinners(ctx)
	if err != nil {
		return domain.PrizeIntervals{}, fmt.Errorf("failed to read winners: %w", err)
	}

	result := interval.Compute(winners)
	s.metrics.ObserveCompute(s.clock.Since(start), result)
	slog.DebugContext(ctx, "Computed prize intervals",
		"winners", len(winners),
		"min_producers", len(result.Min),
		"max_producers", len(result.Max),
	)

	if lookup.storable {
		s.store(ctx, lookup.gen, result)
	}
	return result, nil
}

func (s *Service) store(ctx context.Context, gen uint64, result domain.PrizeIntervals) {
	err := s.cache.Set(ctx, gen, result)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrStaleGeneration):
		slog.DebugContext(ctx, "Movie list changed during computation, not caching result")
	default:
		slog.WarnContext(ctx, "Failed to cache prize intervals", "error", err)
		s.metrics.CacheError("set")
	}
}

// ListWinners returns the stored winning movies ordered by year.
func (s *Service) ListWinners(ctx context.Context) ([]domain.Movie, error) {
	movies, err := s.movies.ListWinners(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read winners: %w", err)
	}
	return movies, nil
}

// CountMovies returns the number of stored movies, winners or not.
func (s *Service) CountMovies(ctx context.Context) (int, error) {
	return s.movies.Count(ctx)
}

// CheckMovieListLoaded fails until at least one movie is stored. It backs the
// startup health check.
func (s *Service) CheckMovieListLoaded(ctx context.Context) error {
	count, err := s.movies.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count movies: %w", err)
	}
	if count == 0 {
		return domain.ErrMovieListEmpty
	}
	return nil
}

// ImportMovies reads a movie list and appends it to the store or replaces the
// stored list with it. Rows that cannot be normalized are skipped and listed
// in the report. Imports are serialized.
func (s *Service) ImportMovies(ctx context.Context, r io.Reader, mode domain.ImportMode) (*domain.ImportReport, error) {
	if mode != domain.ImportAppend && mode != domain.ImportReplace {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidImportMode, mode)
	}

	start := s.clock.Now()
	parsed, err := movielist.Read(r, s.parse)
	if err != nil {
		return nil, err
	}

	report := &domain.ImportReport{
		ID:      uuid.New(),
		Mode:    mode,
		Read:    parsed.Read,
		Skipped: append([]domain.RowError{}, parsed.Skipped...),
	}
	for _, skipped := range report.Skipped {
		slog.WarnContext(ctx, "Skipping movie list row",
			"import_id", report.ID.String(),
			"line", skipped.Line,
			"reason", skipped.Reason,
		)
	}

	s.importMu.Lock()
	defer s.importMu.Unlock()

	if mode == domain.ImportReplace {
		report.Imported, err = s.movies.Replace(ctx, parsed.Movies)
	} else {
		report.Imported, err = s.movies.Insert(ctx, parsed.Movies)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to store movies: %w", err)
	}

	s.invalidate(ctx)

	report.Duration = s.clock.Since(start)
	s.metrics.ObserveImport(*report)
	slog.InfoContext(ctx, "Movie list imported",
		"import_id", report.ID.String(),
		"mode", string(mode),
		"read", report.Read,
		"imported", report.Imported,
		"skipped", len(report.Skipped),
		"duration", report.Duration,
	)
	return report, nil
}

// ImportFile imports the movie list stored at path.
func (s *Service) ImportFile(ctx context.Context, path string, mode domain.ImportMode) (*domain.ImportReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open movie list: %w", err)
	}
	defer func() { _ = f.Close() }()

	return s.ImportMovies(ctx, f, mode)
}

func (s *Service) invalidate(ctx context.Context) {
	s.generation.Add(1)
	if s.cache == nil {
		return
	}

	s.metrics.CacheInvalidated()
	if err := s.cache.Invalidate(ctx); err != nil {
		slog.WarnContext(ctx, "Failed to invalidate interval cache", "error", err)
		s.metrics.CacheError("invalidate")
	}
}
