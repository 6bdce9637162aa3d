package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pscheid92/prizeintervals/internal/domain"
)

var movieColumns = []string{"title", "year", "studios", "producers", "winner"}

const listWinnersQuery = `
SELECT title, year, studios, producers, winner
FROM movies
WHERE winner
ORDER BY year, id`

// MovieRepo stores movies in the movies table. The identity column records
// insertion order, which breaks ties between winners of the same year.
type MovieRepo struct {
	pool *pgxpool.Pool
}

var _ domain.MovieRepository = (*MovieRepo)(nil)

func NewMovieRepo(pool *pgxpool.Pool) *MovieRepo {
	return &MovieRepo{pool: pool}
}

func (r *MovieRepo) Insert(ctx context.Context, movies []domain.Movie) (int, error) {
	n, err := copyMovies(ctx, r.pool, movies)
	if err != nil {
		return 0, fmt.Errorf("failed to insert movies: %w", err)
	}
	return n, nil
}

func (r *MovieRepo) Replace(ctx context.Context, movies []domain.Movie) (int, error) {
	var n int
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "DELETE FROM movies"); err != nil {
			return fmt.Errorf("failed to clear movies: %w", err)
		}

		var err error
		n, err = copyMovies(ctx, tx, movies)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to replace movies: %w", err)
	}
	return n, nil
}

func (r *MovieRepo) ListWinners(ctx context.Context) ([]domain.Movie, error) {
	rows, err := r.pool.Query(ctx, listWinnersQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to list winners: %w", err)
	}

	movies, err := pgx.CollectRows(rows, scanMovie)
	if err != nil {
		return nil, fmt.Errorf("failed to scan winners: %w", err)
	}
	return movies, nil
}

func (r *MovieRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, "SELECT count(*) FROM movies").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count movies: %w", err)
	}
	return n, nil
}

type copier interface {
	CopyFrom(ctx context.Context, table pgx.Identifier, columns []string, src pgx.CopyFromSource) (int64, error)
}

func copyMovies(ctx context.Context, db copier, movies []domain.Movie) (int, error) {
	if len(movies) == 0 {
		return 0, nil
	}

	n, err := db.CopyFrom(ctx, pgx.Identifier{"movies"}, movieColumns,
		pgx.CopyFromSlice(len(movies), func(i int) ([]any, error) {
			m := movies[i]
			producers := m.Producers
			if producers == nil {
				producers = []string{}
			}
			return []any{m.Title, m.Year, m.Studios, producers, m.Winner}, nil
		}))
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func scanMovie(row pgx.CollectableRow) (domain.Movie, error) {
	var m domain.Movie
	if err := row.Scan(&m.Title, &m.Year, &m.Studios, &m.Producers, &m.Winner); err != nil {
		return domain.Movie{}, err
	}
	if m.Producers == nil {
		m.Producers = []string{}
	}
	return m, nil
}
