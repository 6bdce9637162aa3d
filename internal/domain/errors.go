package domain

import "errors"

var (
	ErrCacheMiss         = errors.New("cache miss")
	ErrStaleGeneration   = errors.New("cache generation changed")
	ErrInvalidHeader     = errors.New("invalid movie list header")
	ErrInvalidImportMode = errors.New("invalid import mode")
	ErrMovieListEmpty    = errors.New("movie list is empty")
)
