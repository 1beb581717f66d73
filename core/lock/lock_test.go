package lock

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquire(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run", "jobads.db.lock")

	w, err := Acquire(path)
	require.NoError(t, err)
	assert.Equal(t, path, w.Path())

	// A second writer is refused while the first holds the lock.
	_, err = Acquire(path)
	assert.ErrorIs(t, err, ErrLocked)

	require.NoError(t, w.Release())
	require.NoError(t, w.Release())

	w2, err := Acquire(path)
	require.NoError(t, err)
	assert.NoError(t, w2.Release())
}

func TestRelease_Nil(t *testing.T) {
	var w *Writer
	assert.NoError(t, w.Release())
}
