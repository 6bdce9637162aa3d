package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/pscheid92/prizeintervals/internal/domain"
)

// MovieRepo keeps movies in insertion order. Safe for concurrent use.
type MovieRepo struct {
	mu     sync.RWMutex
	movies []domain.Movie
}

var _ domain.MovieRepository = (*MovieRepo)(nil)

func NewMovieRepo() *MovieRepo {
	return &MovieRepo{}
}

func (r *MovieRepo) Insert(_ context.Context, movies []domain.Movie) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, movie := range movies {
		r.movies = append(r.movies, cloneMovie(movie))
	}
	return len(movies), nil
}

func (r *MovieRepo) Replace(_ context.Context, movies []domain.Movie) (int, error) {
	stored := make([]domain.Movie, 0, len(movies))
	for _, movie := range movies {
		stored = append(stored, cloneMovie(movie))
	}

	r.mu.Lock()
	r.movies = stored
	r.mu.Unlock()

	return len(movies), nil
}

func (r *MovieRepo) ListWinners(_ context.Context) ([]domain.Movie, error) {
	r.mu.RLock()
	winners := make([]domain.Movie, 0, len(r.movies))
	for _, movie := range r.movies {
		if movie.Winner {
			winners = append(winners, cloneMovie(movie))
		}
	}
	r.mu.RUnlock()

	slices.SortStableFunc(winners, func(a, b domain.Movie) int {
		return cmp.Compare(a.Year, b.Year)
	})
	return winners, nil
}

func (r *MovieRepo) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.movies), nil
}

func cloneMovie(movie domain.Movie) domain.Movie {
	movie.Producers = slices.Clone(movie.Producers)
	if movie.Producers == nil {
		movie.Producers = []string{}
	}
	return movie
}
