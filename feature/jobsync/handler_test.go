package jobsync

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"jobads-sync/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupApp(t *testing.T, f *fixture) *fiber.App {
	feature := NewFeature(f.syncer)
	assert.Equal(t, "sync", feature.Name())
	require.True(t, feature.IsEnabled())

	app := fiber.New()
	require.NoError(t, feature.Load(app))
	return app
}

func TestHandleRunAndStatus(t *testing.T) {
	f := setup(t, Options{})
	_, err := f.syncer.Bootstrap(context.Background(), false)
	require.NoError(t, err)
	f.fetcher.since = [][]reconcile.Record{{ad("A", "Solna")}}
	app := setupApp(t, f)

	resp, err := app.Test(httptest.NewRequest("POST", "/sync/run", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var report Report
	body, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(body, &report))
	assert.Equal(t, 1, report.Counts.New)

	resp, err = app.Test(httptest.NewRequest("GET", "/sync/status", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var st Status
	body, _ = io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(body, &st))
	assert.Equal(t, 1, st.Cycles)
	assert.NotEmpty(t, st.Watermark)
}

func TestHandleRun_Busy(t *testing.T) {
	f := setup(t, Options{})
	app := setupApp(t, f)

	f.syncer.mu.Lock()
	defer f.syncer.mu.Unlock()

	resp, err := app.Test(httptest.NewRequest("POST", "/sync/run", nil))
	require.NoError(t, err)
	assert.Equal(t, 409, resp.StatusCode)
}

func TestHandleRun_Failure(t *testing.T) {
	f := setup(t, Options{})
	_, err := f.syncer.Bootstrap(context.Background(), false)
	require.NoError(t, err)
	f.fetcher.err = errors.New("feed down")
	app := setupApp(t, f)

	resp, err := app.Test(httptest.NewRequest("POST", "/sync/run", nil))
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "feed down")
}

func TestNewFeature_Disabled(t *testing.T) {
	assert.False(t, NewFeature(nil).IsEnabled())
}
