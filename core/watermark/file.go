package watermark

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// FileStore keeps the watermark in a small text file.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed store at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Describe() string {
	return "file:" + s.path
}

func (s *FileStore) Read(_ context.Context) (time.Time, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return time.Time{}, ErrNotFound
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("read watermark file: %w", err)
	}
	return Parse(string(b))
}

// Write replaces the file atomically so a crash never leaves a torn value.
func (s *FileStore) Write(_ context.Context, t time.Time) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create watermark dir: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(Format(t)), 0o644); err != nil {
		return fmt.Errorf("write watermark file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace watermark file: %w", err)
	}
	return nil
}
