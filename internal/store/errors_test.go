package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorPredicates(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		notFound  bool
		duplicate bool
	}{
		{name: "nil"},
		{name: "unrelated", err: errors.New("disk full")},
		{name: "not found", err: ErrNotFound, notFound: true},
		{name: "wrapped not found", err: fmt.Errorf("get patient: %w", ErrNotFound), notFound: true},
		{
			name:     "not found inside StoreError",
			err:      NewStoreError("patients", "get", "document not found", ErrNotFound),
			notFound: true,
		},
		{name: "duplicate", err: ErrDuplicate, duplicate: true},
		{
			name:      "duplicate inside StoreError",
			err:       NewStoreError("users", "upsert", "unique violation", ErrDuplicate),
			duplicate: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.notFound, IsNotFoundError(tt.err))
			assert.Equal(t, tt.duplicate, IsDuplicateError(tt.err))
		})
	}
}

func TestStoreError(t *testing.T) {
	t.Run("message with cause", func(t *testing.T) {
		err := NewStoreError("appointments", "delete", "delete failed", ErrDeleteFailed)
		assert.EqualError(t, err, "delete operation on appointments failed: delete failed: delete failed")
		assert.True(t, errors.Is(err, ErrDeleteFailed))
	})

	t.Run("message without cause", func(t *testing.T) {
		err := NewStoreError("caretakers", "find", "bad filter", nil)
		assert.EqualError(t, err, "find operation on caretakers failed: bad filter")
		assert.Nil(t, err.Unwrap())
	})

	t.Run("reachable through wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("seed: %w", NewStoreError("doctors", "upsert", "encode failed", ErrInvalidEntity))

		var storeErr *StoreError
		require.ErrorAs(t, wrapped, &storeErr)
		assert.Equal(t, "doctors", storeErr.Entity)
		assert.Equal(t, "upsert", storeErr.Operation)
		assert.True(t, errors.Is(wrapped, ErrInvalidEntity))
	})
}
