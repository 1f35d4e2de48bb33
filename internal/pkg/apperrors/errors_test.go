package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewOperationError(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewOperationError("update profile", cause)

	assert.Equal(t, "Failed to update profile", err.Error())
	assert.ErrorIs(t, err, ErrStoreFailure)
	assert.ErrorIs(t, err, cause)
}

func TestUserMessage(t *testing.T) {
	wrapped := fmt.Errorf("register: %w", NewValidationError("Passwords do not match"))

	assert.Equal(t, "Passwords do not match", UserMessage(wrapped, "fallback"))
	assert.Equal(t, "fallback", UserMessage(errors.New("plain"), "fallback"))
	assert.ErrorIs(t, wrapped, ErrValidationFailed)
}

func TestNewAuthError(t *testing.T) {
	err := NewAuthError("auth/wrong-password", "Incorrect password")

	var ce *CustomError
	assert.True(t, errors.As(err, &ce))
	assert.Equal(t, "auth/wrong-password", ce.Code)
	assert.ErrorIs(t, err, ErrAuthFailed)
}

func TestIs(t *testing.T) {
	err := NewConflictError("Company ID already exists. Please choose a different one.")

	assert.True(t, Is(err, ErrResourceNotFound, ErrConflict))
	assert.False(t, Is(err, ErrResourceNotFound, ErrValidationFailed))
}
