// Package movielist reads the semicolon-delimited movie list and normalizes
// its rows into domain movies.
package movielist

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pscheid92/prizeintervals/internal/domain"
)

const separator = ';'

var columns = []string{"year", "title", "studios", "producers", "winner"}

// Result is the outcome of reading a movie list. Read counts data rows,
// including the skipped ones.
type Result struct {
	Movies  []domain.Movie
	Skipped []domain.RowError
	Read    int
}

// Read parses a movie list. The header is required and may list the
// columns in any order. Rows that cannot be normalized are reported in
// Result.Skipped; only an unreadable header or an I/O failure is an error.
func Read(r io.Reader, opts Options) (*Result, error) {
	cr := csv.NewReader(r)
	cr.Comma = separator
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty input", domain.ErrInvalidHeader)
	}
	if err != nil {
		var parseErr *csv.ParseError
		if !errors.As(err, &parseErr) {
			return nil, fmt.Errorf("failed to read movie list header: %w", err)
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidHeader, err)
	}

	index, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	result := &Result{Movies: []domain.Movie{}}
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			var parseErr *csv.ParseError
			if !errors.As(err, &parseErr) {
				return nil, fmt.Errorf("failed to read movie list: %w", err)
			}
			result.Read++
			result.Skipped = append(result.Skipped, domain.RowError{Line: parseErr.Line, Reason: parseErr.Err.Error()})
			continue
		}
		result.Read++
		line, _ := cr.FieldPos(0)

		if len(record) != len(header) {
			result.Skipped = append(result.Skipped, domain.RowError{
				Line:   line,
				Reason: fmt.Sprintf("expected %d fields, got %d", len(header), len(record)),
			})
			continue
		}

		movie, err := Normalize(index.row(record), opts)
		if err != nil {
			result.Skipped = append(result.Skipped, domain.RowError{Line: line, Reason: err.Error()})
			continue
		}
		result.Movies = append(result.Movies, movie)
	}

	return result, nil
}

type columnPositions map[string]int

func columnIndex(header []string) (columnPositions, error) {
	index := make(columnPositions, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		index[name] = i
	}

	var missing []string
	for _, column := range columns {
		if _, ok := index[column]; !ok {
			missing = append(missing, column)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing columns %s", domain.ErrInvalidHeader, strings.Join(missing, ", "))
	}
	return index, nil
}

func (c columnPositions) row(record []string) Row {
	return Row{
		Year:      record[c["year"]],
		Title:     record[c["title"]],
		Studios:   record[c["studios"]],
		Producers: record[c["producers"]],
		Winner:    record[c["winner"]],
	}
}
