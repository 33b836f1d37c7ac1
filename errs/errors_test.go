package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	err := E(KindConflict, "lost the race")
	assert.Equal(t, KindConflict, KindOf(err))

	wrapped := fmt.Errorf("claim failed: %w", err)
	assert.Equal(t, KindConflict, KindOf(wrapped))

	assert.Equal(t, KindInternal, KindOf(errors.New("plain failure")))
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(KindInternal, "failed to append message", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "failed to append message")
	assert.Contains(t, err.Error(), "connection reset")
}

func TestKindHelpers(t *testing.T) {
	assert.True(t, IsNotFound(E(KindNotFound, "session not found")))
	assert.True(t, IsConflict(E(KindConflict, "slot taken")))
	assert.True(t, IsCapacity(E(KindCapacity, "agent full")))
	assert.False(t, IsConflict(nil))
	assert.False(t, IsNotFound(errors.New("other")))
}
