package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError(t *testing.T) {
	err := ValidationError("invalid import mode")

	assert.Equal(t, TypeValidation, err.Type)
	assert.Equal(t, "invalid import mode", err.Message)
	assert.Nil(t, err.Cause)
	assert.NotNil(t, err.Context)
	assert.Equal(t, http.StatusBadRequest, err.HTTPStatus())
	assert.Contains(t, err.Error(), "validation")
	assert.Contains(t, err.Error(), "invalid import mode")
}

func TestInternalError(t *testing.T) {
	cause := fmt.Errorf("database connection failed")
	err := InternalError("failed to list movies", cause)

	assert.Equal(t, TypeInternal, err.Type)
	assert.Equal(t, cause, err.Cause)
	assert.Equal(t, http.StatusInternalServerError, err.HTTPStatus())
	assert.Contains(t, err.Error(), "database connection failed")
}

func TestInternalErrorWithoutCause(t *testing.T) {
	err := InternalError("something went wrong", nil)
	assert.NotContains(t, err.Error(), "<nil>")
}

func TestUnavailableError(t *testing.T) {
	err := UnavailableError("store timed out", context.DeadlineExceeded)

	assert.Equal(t, TypeUnavailable, err.Type)
	assert.Equal(t, http.StatusServiceUnavailable, err.HTTPStatus())
}

func TestTooLargeError(t *testing.T) {
	err := TooLargeError("movie list exceeds 10 bytes")
	assert.Equal(t, TypeTooLarge, err.Type)
	assert.Equal(t, http.StatusRequestEntityTooLarge, err.HTTPStatus())
	assert.Nil(t, err.Cause)
}

func TestRateLimitedError(t *testing.T) {
	err := RateLimitedError("too many imports")
	assert.Equal(t, TypeRateLimited, err.Type)
	assert.Equal(t, http.StatusTooManyRequests, err.HTTPStatus())
	assert.Equal(t, "rate_limited", string(err.ToResponse().Type))
}

func TestStoreError(t *testing.T) {
	tests := []struct {
		name  string
		cause error
		want  ErrorType
	}{
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), TypeUnavailable},
		{"canceled", context.Canceled, TypeUnavailable},
		{"other", errors.New("relation \"movies\" does not exist"), TypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := StoreError("failed to load movies", tt.cause)
			assert.Equal(t, tt.want, err.Type)
			assert.ErrorIs(t, err, tt.cause)
		})
	}
}

func TestWithField(t *testing.T) {
	err := ValidationError("invalid header").
		WithField("line", 1).
		WithField("reason", "missing columns")

	assert.Len(t, err.Context, 2)
	assert.Equal(t, 1, err.Context["line"])
}

func TestWithFieldNilMap(t *testing.T) {
	err := &Error{Type: TypeValidation, Message: "test"}

	err = err.WithField("key", "value")

	assert.Equal(t, "value", err.Context["key"])
}

func TestToResponse(t *testing.T) {
	resp := ValidationError("invalid mode").WithField("mode", "merge").ToResponse()

	assert.Equal(t, "invalid mode", resp.Error)
	assert.Equal(t, TypeValidation, resp.Type)
	assert.Equal(t, "merge", resp.Context["mode"])
}

func TestAsStructuredError(t *testing.T) {
	original := ValidationError("original")
	assert.Same(t, original, AsStructuredError(original))
	assert.Same(t, original, AsStructuredError(fmt.Errorf("wrapped: %w", original)))

	plain := errors.New("plain")
	converted := AsStructuredError(plain)
	require.NotNil(t, converted)
	assert.Equal(t, TypeInternal, converted.Type)
	assert.Equal(t, "internal server error", converted.Message)
	assert.Equal(t, plain, converted.Cause)

	assert.Nil(t, AsStructuredError(nil))
}
