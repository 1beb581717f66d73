package watermark

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Layout is the watermark wire format: ISO-8601 with second precision and
// no zone designator, as the feed's date parameter expects.
const Layout = "2006-01-02T15:04:05"

// ErrNotFound is returned by Read when no watermark has been written yet.
var ErrNotFound = errors.New("watermark not found")

// Store persists the single process-wide watermark. Write overwrites.
type Store interface {
	Read(ctx context.Context) (time.Time, error)
	Write(ctx context.Context, t time.Time) error
	// Describe names the backing location for log lines.
	Describe() string
}

// Format renders t in Layout, truncated to whole seconds.
func Format(t time.Time) string {
	return t.Truncate(time.Second).Format(Layout)
}

// Parse reads a watermark written by Format. Surrounding whitespace is
// ignored so hand-edited files still load.
func Parse(s string) (time.Time, error) {
	t, err := time.ParseInLocation(Layout, strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid watermark %q: %w", s, err)
	}
	return t, nil
}
