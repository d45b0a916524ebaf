package messageboard_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coregx/messageboard"
)

func TestError_Error(t *testing.T) {
	err := messageboard.NewError(messageboard.ErrCodeNotFound, "message not found")
	assert.Equal(t, "NOT_FOUND: message not found", err.Error())

	wrapped := messageboard.NewErrorWithCause(messageboard.ErrCodePersistence, "save failed", errors.New("disk full"))
	assert.Equal(t, "PERSISTENCE_ERROR: save failed: disk full", wrapped.Error())
	assert.EqualError(t, errors.Unwrap(wrapped), "disk full")
}

func TestErrorPredicates(t *testing.T) {
	assert.True(t, messageboard.IsNoData(messageboard.ErrNoData))
	assert.True(t, messageboard.IsNoData(fmt.Errorf("wrapped: %w", messageboard.ErrNoData)))
	assert.False(t, messageboard.IsNoData(errors.New("plain")))

	assert.True(t, messageboard.IsValidation(messageboard.NewError(messageboard.ErrCodeValidation, "bad input")))
	assert.False(t, messageboard.IsValidation(messageboard.NewError(messageboard.ErrCodeNotFound, "nope")))

	assert.True(t, messageboard.IsNotFound(messageboard.NewError(messageboard.ErrCodeNotFound, "nope")))
	assert.True(t, messageboard.IsPersistence(messageboard.NewErrorWithCause(messageboard.ErrCodePersistence, "save failed", errors.New("io"))))
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, messageboard.ErrCodeValidation, messageboard.ErrorCode(messageboard.NewError(messageboard.ErrCodeValidation, "bad input")))
	assert.Equal(t, messageboard.ErrCodeNotFound, messageboard.ErrorCode(fmt.Errorf("wrapped: %w", messageboard.NewError(messageboard.ErrCodeNotFound, "nope"))))
	assert.Equal(t, "", messageboard.ErrorCode(errors.New("plain")))
	assert.Equal(t, "", messageboard.ErrorCode(nil))
}
