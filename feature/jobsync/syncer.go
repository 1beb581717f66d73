package jobsync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"jobads-sync/core/database"
	"jobads-sync/core/metrics"
	"jobads-sync/core/reconcile"
	"jobads-sync/core/watermark"
	"jobads-sync/feature/jobads"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrCycleInProgress is returned when another bootstrap or cycle holds
	// the store.
	ErrCycleInProgress = errors.New("a sync cycle is already running")

	// ErrNotEmpty is returned by Bootstrap on a populated store unless forced.
	ErrNotEmpty = errors.New("store already holds job ads")

	// ErrNotBootstrapped is returned by RunCycle when no watermark exists.
	ErrNotBootstrapped = errors.New("no watermark found, run bootstrap first")
)

// Fetcher is the remote side of a sync.
type Fetcher interface {
	FetchAll(ctx context.Context) ([]reconcile.Record, error)
	FetchSince(ctx context.Context, since time.Time) ([]reconcile.Record, error)
}

// Options controls the loop and bootstrap policy.
type Options struct {
	// Interval is the pause between cycles.
	Interval time.Duration
	// MaxCycles ends Run after that many cycles, failed ones included. A
	// cycle skipped because another one held the store does not count.
	// Zero runs until cancelled.
	MaxCycles int
	// Filtered skips the full load at bootstrap; the snapshot endpoint
	// cannot be filtered.
	Filtered bool
	// FilteredStart is the bootstrap watermark for filtered deployments.
	FilteredStart time.Time
}

// Syncer runs bootstrap loads and update cycles against one store. At most
// one of them is in flight at a time.
type Syncer struct {
	db         *gorm.DB
	repo       *jobads.Repository
	fetcher    Fetcher
	marks      watermark.Store
	reconciler *reconcile.Reconciler
	metrics    *metrics.Metrics
	logger     *zap.Logger
	opts       Options
	now        func() time.Time

	mu       sync.Mutex
	statusMu sync.Mutex
	status   atomic.Value // Status
}

// Option configures a Syncer.
type Option func(*Syncer)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Syncer) { s.now = now }
}

// WithMetrics records cycle outcomes on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Syncer) { s.metrics = m }
}

// WithReconciler replaces the default reconciler.
func WithReconciler(r *reconcile.Reconciler) Option {
	return func(s *Syncer) { s.reconciler = r }
}

// New creates a Syncer.
func New(db *gorm.DB, fetcher Fetcher, marks watermark.Store, logger *zap.Logger, opts Options, options ...Option) *Syncer {
	s := &Syncer{
		db:      db,
		repo:    jobads.NewRepository(db),
		fetcher: fetcher,
		marks:   marks,
		logger:  logger,
		opts:    opts,
		now:     time.Now,
	}
	for _, o := range options {
		o(s)
	}
	if s.reconciler == nil {
		s.reconciler = reconcile.New(logger)
	}
	s.status.Store(Status{})
	return s
}

// Bootstrap prepares an empty store: it creates the table, loads the full
// snapshot and sets the initial watermark. A forced bootstrap of a populated
// store replaces its rows with the snapshot. Filtered deployments skip the
// snapshot and start the watermark at Options.FilteredStart instead.
func (s *Syncer) Bootstrap(ctx context.Context, force bool) (*Report, error) {
	if !s.mu.TryLock() {
		return nil, ErrCycleInProgress
	}
	defer s.mu.Unlock()

	report := &Report{Kind: KindBootstrap, StartedAt: s.now()}
	err := s.bootstrap(ctx, force, report)
	s.finish(report, err)
	return report, err
}

func (s *Syncer) bootstrap(ctx context.Context, force bool, report *Report) error {
	if err := s.repo.Migrate(ctx); err != nil {
		return err
	}

	n, err := s.repo.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 && !force {
		return fmt.Errorf("%w (%d rows)", ErrNotEmpty, n)
	}

	if s.opts.Filtered {
		s.logger.Info("Filters are configured, skipping full load",
			zap.String("watermark", watermark.Format(s.opts.FilteredStart)))
		return s.advance(ctx, report, s.opts.FilteredStart)
	}

	stamp := s.now()
	records, err := s.fetcher.FetchAll(ctx)
	if err != nil {
		return fmt.Errorf("fetch snapshot: %w", err)
	}
	report.Fetched = len(records)

	err = database.Scoped(ctx, s.db, s.logger, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		// The snapshot replaces the store; rows it lacks were removed upstream
		// before the new watermark.
		if n > 0 {
			cleared, err := repo.Clear(ctx)
			if err != nil {
				return err
			}
			s.logger.Info(fmt.Sprintf("Cleared %d ads before full load", cleared))
		}
		counts, err := s.reconciler.LoadAll(ctx, repo, records)
		report.Counts = counts
		return err
	})
	if err != nil {
		return err
	}

	return s.advance(ctx, report, stamp)
}

// RunCycle fetches the ads changed since the watermark, applies them and
// advances the watermark. A failed cycle leaves the watermark untouched so
// the next cycle asks for the same window again.
func (s *Syncer) RunCycle(ctx context.Context) (*Report, error) {
	if !s.mu.TryLock() {
		return nil, ErrCycleInProgress
	}
	defer s.mu.Unlock()

	report := &Report{Kind: KindUpdate, StartedAt: s.now()}
	err := s.cycle(ctx, report)
	s.finish(report, err)
	return report, err
}

func (s *Syncer) cycle(ctx context.Context, report *Report) error {
	since, err := s.marks.Read(ctx)
	if errors.Is(err, watermark.ErrNotFound) {
		return ErrNotBootstrapped
	}
	if err != nil {
		return fmt.Errorf("read watermark: %w", err)
	}
	report.Since = since

	// Taken before the fetch so ads changed during it are asked for again.
	stamp := s.now()

	records, err := s.fetcher.FetchSince(ctx, since)
	if err != nil {
		return fmt.Errorf("fetch changes: %w", err)
	}
	report.Fetched = len(records)

	if len(records) == 0 {
		s.logger.Info("No ads found after timestamp", zap.String("since", watermark.Format(since)))
	} else {
		err = database.Scoped(ctx, s.db, s.logger, func(tx *gorm.DB) error {
			counts, err := s.reconciler.Apply(ctx, s.repo.WithTx(tx), records)
			report.Counts = counts
			return err
		})
		if err != nil {
			return err
		}
	}

	if stamp.Before(since) {
		stamp = since
	}
	return s.advance(ctx, report, stamp)
}

func (s *Syncer) advance(ctx context.Context, report *Report, t time.Time) error {
	if err := s.marks.Write(ctx, t); err != nil {
		return fmt.Errorf("write watermark: %w", err)
	}
	report.Watermark = watermark.Format(t)
	s.metrics.Watermark(t)
	s.logger.Info("Watermark advanced", zap.String("watermark", report.Watermark), zap.String("store", s.marks.Describe()))

	if n, err := s.repo.Count(ctx); err == nil {
		report.Rows = n
		s.metrics.Rows(n)
		s.logger.Info(fmt.Sprintf("Database has %d ads", n))
	}
	return nil
}

func (s *Syncer) finish(report *Report, err error) {
	report.Took = s.now().Sub(report.StartedAt)

	result := metrics.ResultSuccess
	switch {
	case err != nil:
		result = metrics.ResultFailure
		report.Error = err.Error()
	case report.Fetched == 0:
		result = metrics.ResultEmpty
	}
	s.metrics.Cycle(result, report.Took)
	s.metrics.Processed(report.Counts.New, report.Counts.Updated, report.Counts.Deleted)

	s.updateStatus(func(st *Status) {
		st.LastRun = report
		if err != nil {
			st.Failures++
			st.LastError = err.Error()
		} else {
			st.Watermark = report.Watermark
		}
		if report.Kind == KindUpdate {
			st.Cycles++
		}
	})
}

// Run loops update cycles until MaxCycles is reached or ctx ends. A failed
// cycle is logged and counted; the loop carries on.
func (s *Syncer) Run(ctx context.Context) error {
	s.setRunning(true)
	defer s.setRunning(false)

	done := 0
	for {
		report, err := s.RunCycle(ctx)
		switch {
		case errors.Is(err, ErrNotBootstrapped):
			return err
		case errors.Is(err, ErrCycleInProgress):
			s.logger.Warn("Skipping cycle, another one is running", zap.Int("cycle", done+1))
		case err != nil:
			done++
			s.logger.Error("Sync cycle failed", zap.Int("cycle", done), zap.Error(err))
		default:
			done++
			s.logger.Info("Sync cycle finished",
				zap.Int("cycle", done),
				zap.Int("fetched", report.Fetched),
				zap.Duration("took", report.Took),
			)
		}

		if s.opts.MaxCycles > 0 && done >= s.opts.MaxCycles {
			s.logger.Info("Reached max cycles, stopping", zap.Int("max_cycles", s.opts.MaxCycles))
			return nil
		}

		s.logger.Info(fmt.Sprintf("Sleeping %s before next cycle", s.opts.Interval))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.opts.Interval):
		}
	}
}

func (s *Syncer) setRunning(v bool) {
	s.updateStatus(func(st *Status) { st.Looping = v })
}

func (s *Syncer) updateStatus(fn func(*Status)) {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	st := s.Status()
	fn(&st)
	s.status.Store(st)
}

// Status returns a snapshot of the sync state.
func (s *Syncer) Status() Status {
	return s.status.Load().(Status)
}
