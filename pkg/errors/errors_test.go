package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidationErrors_FirstViolationWins(t *testing.T) {
	err := NewValidationErrors([]Violation{
		{Field: "name", Message: "name must be at least 2 characters"},
		{Field: "age", Message: "age must be a positive integer"},
	})
	require.NotNil(t, err)

	assert.Equal(t, "name", err.Field)
	assert.Equal(t, "name must be at least 2 characters", err.Error())
	assert.Len(t, err.Violations, 2)
}

func TestNewValidationErrors_Empty(t *testing.T) {
	assert.Nil(t, NewValidationErrors(nil))
}

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", NewValidationError("email", "email is required"), http.StatusBadRequest},
		{"not found", NewNotFoundError("user", "user not found"), http.StatusNotFound},
		{"invalid id", NewInvalidIDError("abc"), http.StatusBadRequest},
		{"internal", NewInternalError("boom", stderrors.New("db down")), http.StatusInternalServerError},
		{"wrapped not found", fmt.Errorf("get user: %w", NewNotFoundError("user", "user not found")), http.StatusNotFound},
		{"plain", stderrors.New("something"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusCode(tt.err))
		})
	}
}

func TestPublicMessage(t *testing.T) {
	t.Run("hides internal detail", func(t *testing.T) {
		err := NewInternalError("failed to query", stderrors.New("pq: connection refused"))
		assert.Equal(t, InternalMessage, PublicMessage(err))
	})

	t.Run("hides unclassified detail", func(t *testing.T) {
		assert.Equal(t, InternalMessage, PublicMessage(stderrors.New("panic: nil map")))
	})

	t.Run("unwraps classified error", func(t *testing.T) {
		err := fmt.Errorf("delete: %w", NewNotFoundError("user", "User not found"))
		assert.Equal(t, "User not found", PublicMessage(err))
	})

	t.Run("invalid id", func(t *testing.T) {
		assert.Equal(t, "Invalid ID format", PublicMessage(NewInvalidIDError("123")))
	})
}

func TestPredicates(t *testing.T) {
	assert.True(t, IsNotFound(fmt.Errorf("x: %w", ErrNotFound)))
	assert.False(t, IsNotFound(ErrInternal))
	assert.True(t, IsValidation(NewValidationError("name", "name is required")))
	assert.True(t, IsInvalidID(ErrInvalidID))
}
