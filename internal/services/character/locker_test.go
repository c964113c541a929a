package character

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rulerr "github.com/KirkDiggler/dnd-rules-engine/internal/errors"
)

func TestLockerRejectsConcurrentMutation(t *testing.T) {
	l := newLocker()

	release, err := l.acquire("char-1")
	require.NoError(t, err)

	_, err = l.acquire("char-1")
	assert.True(t, rulerr.IsConflict(err))

	other, err := l.acquire("char-2")
	require.NoError(t, err, "other characters are independent")
	other()

	release()
	again, err := l.acquire("char-1")
	require.NoError(t, err)
	again()
}
