package loader

import (
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubFeature struct {
	name    string
	enabled bool
	err     error
	loaded  bool
}

func (s *stubFeature) Name() string    { return s.name }
func (s *stubFeature) IsEnabled() bool { return s.enabled }
func (s *stubFeature) Load(fiber.Router) error {
	s.loaded = true
	return s.err
}

func TestManager_LoadAll(t *testing.T) {
	on := &stubFeature{name: "jobads", enabled: true}
	off := &stubFeature{name: "sync", enabled: false}

	m := NewManager(zap.NewNop())
	m.Register(on)
	m.Register(off)

	names, err := m.LoadAll(fiber.New())
	require.NoError(t, err)
	assert.Equal(t, []string{"jobads"}, names)
	assert.True(t, on.loaded)
	assert.False(t, off.loaded)
}

func TestManager_LoadAll_Error(t *testing.T) {
	bad := &stubFeature{name: "broken", enabled: true, err: errors.New("boom")}
	after := &stubFeature{name: "after", enabled: true}

	m := NewManager(zap.NewNop())
	m.Register(bad)
	m.Register(after)

	_, err := m.LoadAll(fiber.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
	assert.False(t, after.loaded)
}
