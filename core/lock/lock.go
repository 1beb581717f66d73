package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrLocked is returned when another process already holds the writer lock.
var ErrLocked = errors.New("another process is writing to the store")

// Writer is a held cross-process writer lock.
type Writer struct {
	fl *flock.Flock
}

// Acquire takes the exclusive writer lock at path without blocking.
func Acquire(path string) (*Writer, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create lock dir: %w", err)
		}
	}

	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (lock file %s)", ErrLocked, path)
	}
	return &Writer{fl: fl}, nil
}

// Path returns the lock file location.
func (w *Writer) Path() string {
	return w.fl.Path()
}

// Release drops the lock. It is safe to call more than once.
func (w *Writer) Release() error {
	if w == nil || w.fl == nil {
		return nil
	}
	return w.fl.Unlock()
}
