package logger

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		enabled zapcore.Level
		wantErr bool
	}{
		{"Debug console", Config{Level: "debug", Format: "console"}, zapcore.DebugLevel, false},
		{"Info json", Config{Level: "info", Format: "json"}, zapcore.InfoLevel, false},
		{"Warn", Config{Level: "warn", Format: "console"}, zapcore.WarnLevel, false},
		{"Empty level", Config{}, zapcore.InfoLevel, false},
		{"Invalid level", Config{Level: "loud"}, zapcore.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(&tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, l.Core().Enabled(tt.enabled))
			if tt.enabled > zapcore.DebugLevel {
				assert.False(t, l.Core().Enabled(tt.enabled-1))
			}
		})
	}
}

func TestWithRayID(t *testing.T) {
	app := fiber.New()
	base := zap.NewNop()

	var withID, without *zap.Logger
	app.Get("/with", func(c *fiber.Ctx) error {
		c.Locals("ray_id", "abc")
		withID = WithRayID(base, c)
		return nil
	})
	app.Get("/without", func(c *fiber.Ctx) error {
		without = WithRayID(base, c)
		return nil
	})

	_, err := app.Test(httptest.NewRequest("GET", "/with", nil))
	require.NoError(t, err)
	_, err = app.Test(httptest.NewRequest("GET", "/without", nil))
	require.NoError(t, err)

	assert.NotSame(t, base, withID)
	assert.Same(t, base, without)
}
