package cmd

import (
	"context"
	"fmt"
	"time"

	"jobads-sync/core/config"
	"jobads-sync/core/database"
	"jobads-sync/core/jobstream"
	"jobads-sync/core/lock"
	"jobads-sync/core/logger"
	"jobads-sync/core/metrics"
	"jobads-sync/core/reconcile"
	"jobads-sync/core/storage"
	"jobads-sync/core/watermark"
	"jobads-sync/feature/jobsync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// app bundles everything a command needs. Each command builds one.
type app struct {
	cfg      *config.Config
	log      *zap.Logger
	db       *gorm.DB
	marks    watermark.Store
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	writer   *lock.Writer
}

// connect opens the store. Replaced in tests.
var connect = database.Connect

// newApp loads and validates configuration, then wires the store, the
// watermark backend and the metrics registry.
func newApp(ctx context.Context) (_ *app, err error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	db, err := connect(cfg.Database)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = database.Close(db)
		}
	}()
	logg.Info("Connected to database", zap.String("driver", cfg.Database.Driver))

	var client storage.Client
	if cfg.Watermark.Backend == watermark.BackendObject {
		client, err = storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
		if err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
			return nil, err
		}
	}

	marks, err := watermark.New(cfg.Watermark, db, client, cfg.Storage.Bucket)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &app{
		cfg:      cfg,
		log:      logg,
		db:       db,
		marks:    marks,
		registry: registry,
		metrics:  metrics.New(registry),
	}, nil
}

// newSyncer builds a syncer from the current configuration.
func (a *app) newSyncer() *jobsync.Syncer {
	filteredStart, _ := watermark.Parse(a.cfg.Watermark.FilteredStart)
	return jobsync.New(a.db,
		jobstream.NewClient(a.cfg.Feed, a.log),
		a.marks,
		a.log,
		jobsync.Options{
			Interval:      time.Duration(a.cfg.Polling.IntervalMinutes) * time.Minute,
			MaxCycles:     a.cfg.Polling.MaxCycles,
			Filtered:      a.cfg.Feed.Filtered(),
			FilteredStart: filteredStart,
		},
		jobsync.WithMetrics(a.metrics),
		jobsync.WithReconciler(reconcile.New(a.log)),
	)
}

// lockWriter takes the cross-process writer lock for the lifetime of the app.
func (a *app) lockWriter() error {
	w, err := lock.Acquire(a.cfg.Lock.Path)
	if err != nil {
		return err
	}
	a.writer = w
	a.log.Debug("Acquired writer lock", zap.String("path", w.Path()))
	return nil
}

func (a *app) close() {
	if err := a.writer.Release(); err != nil {
		a.log.Warn("Failed to release writer lock", zap.Error(err))
	}
	if err := database.Close(a.db); err != nil {
		a.log.Warn("Failed to close database", zap.Error(err))
	}
	_ = a.log.Sync()
}
