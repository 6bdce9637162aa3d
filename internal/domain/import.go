package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type ImportMode string

const (
	ImportAppend  ImportMode = "append"
	ImportReplace ImportMode = "replace"
)

// ParseImportMode accepts "append", "replace" or the empty string, which
// means append.
func ParseImportMode(s string) (ImportMode, error) {
	switch ImportMode(s) {
	case "", ImportAppend:
		return ImportAppend, nil
	case ImportReplace:
		return ImportReplace, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidImportMode, s)
	}
}

// RowError describes a source row that was skipped during import.
type RowError struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

type ImportReport struct {
	ID       uuid.UUID     `json:"id"`
	Mode     ImportMode    `json:"mode"`
	Read     int           `json:"read"`
	Imported int           `json:"imported"`
	Skipped  []RowError    `json:"skipped"`
	Duration time.Duration `json:"duration_ns"`
}
