package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf_WrappedError(t *testing.T) {
	err := fmt.Errorf("reserve: %w", NewNotFoundError(KindRoomNotFound, "Room", 7))

	assert.Equal(t, KindRoomNotFound, KindOf(err))
	assert.True(t, IsKind(err, KindRoomNotFound))
	assert.True(t, IsNotFound(err))
	assert.Equal(t, "reserve: Room 7 not found", err.Error())
}

func TestKindOf_PlainError(t *testing.T) {
	err := errors.New("boom")

	assert.Equal(t, Kind(""), KindOf(err))
	assert.False(t, IsNotFound(err))
	assert.False(t, IsKind(nil, KindNotFound))
}

func TestWrapError_Unwrap(t *testing.T) {
	cause := errors.New("permission denied")
	err := WrapError(KindFileDeleteFailed, "failed to delete file", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to delete file: permission denied", err.Error())
	assert.False(t, IsNotFound(err))
}
