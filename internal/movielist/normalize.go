package movielist

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pscheid92/prizeintervals/internal/domain"
)

const conjunction = " and "

// Row is a raw movie list row before any coercion.
type Row struct {
	Year      string
	Title     string
	Studios   string
	Producers string
	Winner    string
}

// Options control how producer credits are split.
type Options struct {
	// SplitConjunction also splits credits on " and ", so that
	// "Steve Perry and Joel Silver" yields two producers.
	SplitConjunction bool
}

// Normalize coerces a raw row into a domain.Movie. Only the year can fail.
func Normalize(row Row, opts Options) (domain.Movie, error) {
	year, err := strconv.Atoi(strings.TrimSpace(row.Year))
	if err != nil {
		return domain.Movie{}, fmt.Errorf("invalid year %q", row.Year)
	}

	return domain.Movie{
		Title:     strings.TrimSpace(row.Title),
		Year:      year,
		Studios:   strings.TrimSpace(row.Studios),
		Producers: SplitProducers(row.Producers, opts),
		Winner:    IsWinner(row.Winner),
	}, nil
}

// SplitProducers splits a credit field on commas and trims each name.
// Empty names are dropped; an empty field yields an empty, non-nil slice.
func SplitProducers(field string, opts Options) []string {
	producers := []string{}
	for _, part := range strings.Split(field, ",") {
		names := []string{part}
		if opts.SplitConjunction {
			names = strings.Split(part, conjunction)
		}
		for _, name := range names {
			if name = strings.TrimSpace(name); name != "" {
				producers = append(producers, name)
			}
		}
	}
	return producers
}

// IsWinner reports whether the winner field reads "yes", ignoring case and
// surrounding whitespace.
func IsWinner(field string) bool {
	return strings.EqualFold(strings.TrimSpace(field), "yes")
}
