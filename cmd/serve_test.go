package cmd

import (
	"context"
	"io"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"jobads-sync/core/config"
	"jobads-sync/core/database"
	"jobads-sync/core/metrics"
	"jobads-sync/core/reconcile"
	"jobads-sync/core/watermark"
	"jobads-sync/feature/jobads"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func testApp(t *testing.T) *app {
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Path: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, jobads.NewRepository(db).Migrate(context.Background()))

	cfg := &config.Config{}
	cfg.Server.ApiKey = "s3cret"
	cfg.Polling.IntervalMinutes = 10
	cfg.Watermark.FilteredStart = "2022-01-01T00:00:00"
	cfg.Lock.Path = filepath.Join(t.TempDir(), "jobads.lock")

	registry := prometheus.NewRegistry()
	return &app{
		cfg:      cfg,
		log:      zap.NewNop(),
		db:       db,
		marks:    watermark.NewFileStore(filepath.Join(t.TempDir(), "timestamp.txt")),
		registry: registry,
		metrics:  metrics.New(registry),
	}
}

func TestServer_Routes(t *testing.T) {
	a := testApp(t)
	defer a.close()

	srv := newServer(a, nil)
	require.NoError(t, mountFeatures(a, srv, nil))

	tests := []struct {
		name   string
		path   string
		key    string
		status int
	}{
		{"health is public", "/healthz", "", 200},
		{"metrics are public", "/metrics", "", 200},
		{"api needs key", "/jobads/count", "", 401},
		{"api with key", "/jobads/count", "s3cret", 200},
		{"sync disabled without --sync", "/sync/status", "s3cret", 404},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.key != "" {
				req.Header.Set("X-API-Key", tt.key)
			}
			resp, err := srv.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.NotEmpty(t, resp.Header.Get("X-Ray-ID"))
		})
	}
}

func TestServer_SyncMounted(t *testing.T) {
	a := testApp(t)
	defer a.close()

	require.NoError(t, a.lockWriter())
	syncer := a.newSyncer()

	srv := newServer(a, syncer)
	require.NoError(t, mountFeatures(a, srv, syncer))

	req := httptest.NewRequest("GET", "/sync/status", nil)
	req.Header.Set("X-API-Key", "s3cret")
	resp, err := srv.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `"looping":false`)

	// A second writer is refused while serve --sync holds the lock.
	other := testApp(t)
	other.cfg.Lock.Path = a.cfg.Lock.Path
	assert.Error(t, other.lockWriter())
}

func TestServer_MetricsExposeSyncSeries(t *testing.T) {
	a := testApp(t)
	defer a.close()
	a.metrics.Rows(7)

	srv := newServer(a, nil)
	resp, err := srv.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "jobads_store_rows 7")
}

func TestServeUntilDone_WaitsForLoopBeforeReturning(t *testing.T) {
	a := testApp(t)
	defer a.close()
	a.cfg.Server.Port = "0"
	srv := newServer(a, nil)

	ctx, cancel := context.WithCancel(context.Background())
	var committed atomic.Bool
	loop := func(ctx context.Context) error {
		cancel()
		<-ctx.Done()
		// A cycle still finishing its session after the signal
		time.Sleep(50 * time.Millisecond)
		err := database.Scoped(ctx, a.db, a.log, func(tx *gorm.DB) error {
			return jobads.NewRepository(tx).Insert(context.Background(), reconcile.Record{ID: "late"})
		})
		committed.Store(err == nil)
		return ctx.Err()
	}

	_ = serveUntilDone(ctx, a, srv, loop)
	assert.True(t, committed.Load())

	n, err := jobads.NewRepository(a.db).Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
