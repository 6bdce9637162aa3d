package domain

import "context"

// Movie is one normalized row of the movie list. Producers holds the
// individual producer credits in the order they appear in the source.
type Movie struct {
	Title     string   `json:"title"`
	Year      int      `json:"year"`
	Studios   string   `json:"studios"`
	Producers []string `json:"producers"`
	Winner    bool     `json:"winner"`
}

type MovieRepository interface {
	// Insert appends movies and returns how many were stored.
	Insert(ctx context.Context, movies []Movie) (int, error)
	// Replace drops every stored movie and stores the given ones atomically.
	Replace(ctx context.Context, movies []Movie) (int, error)
	// ListWinners returns winning movies ordered by year, ties in insertion order.
	ListWinners(ctx context.Context) ([]Movie, error)
	Count(ctx context.Context) (int, error)
}
