package reconcile

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// DefaultBatchSize is the chunk size LoadAll hands to a BatchInserter.
const DefaultBatchSize = 500

// Reconciler turns records into store mutations and counts them.
type Reconciler struct {
	log       *zap.Logger
	batchSize int
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithBatchSize sets the LoadAll chunk size. Values below 1 are ignored.
func WithBatchSize(n int) Option {
	return func(r *Reconciler) {
		if n > 0 {
			r.batchSize = n
		}
	}
}

// New creates a Reconciler logging through l.
func New(l *zap.Logger, opts ...Option) *Reconciler {
	if l == nil {
		l = zap.NewNop()
	}
	r := &Reconciler{log: l, batchSize: DefaultBatchSize}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Apply reconciles records against store in order. The first mutation
// failure ends the batch; the returned Counts cover the records applied
// before it.
func (r *Reconciler) Apply(ctx context.Context, store Store, records []Record) (Counts, error) {
	start := time.Now()
	var counts Counts

	r.log.Info(fmt.Sprintf("Updating %d ads", len(records)))

	for _, rec := range records {
		action, err := r.applyOne(ctx, store, rec)
		if err != nil {
			r.log.Error("Reconciliation aborted",
				zap.String("id", rec.ID),
				zap.Int("processed", counts.Total),
				zap.Error(err),
			)
			return counts, err
		}
		if action == "" {
			counts.Skipped++
			counts.Total++
			continue
		}
		counts.add(action)
	}

	r.log.Info(fmt.Sprintf("%d ads processed. New: %d, updated: %d, deleted: %d",
		counts.Total, counts.New, counts.Updated, counts.Deleted),
		zap.Int("skipped", counts.Skipped),
		zap.Duration("took", time.Since(start)),
	)
	return counts, nil
}

// applyOne returns the action taken, or "" when an update found no row.
func (r *Reconciler) applyOne(ctx context.Context, store Store, rec Record) (ActionType, error) {
	if rec.Removed {
		if err := store.Delete(ctx, rec.ID); err != nil {
			return "", fmt.Errorf("delete ad %s: %w", rec.ID, err)
		}
		r.log.Debug("Deleted ad", zap.String("id", rec.ID))
		return ActionDelete, nil
	}

	exists, err := store.Exists(ctx, rec.ID)
	if err != nil {
		return "", fmt.Errorf("check ad %s: %w", rec.ID, err)
	}

	switch Classify(rec, exists) {
	case ActionUpdate:
		ok, err := store.Update(ctx, rec)
		if err != nil {
			return "", fmt.Errorf("update ad %s: %w", rec.ID, err)
		}
		if !ok {
			r.log.Warn("Trying to update ad that is not in the database", zap.String("id", rec.ID))
			return "", nil
		}
		return ActionUpdate, nil
	default:
		if err := store.Insert(ctx, rec); err != nil {
			return "", fmt.Errorf("insert ad %s: %w", rec.ID, err)
		}
		return ActionInsert, nil
	}
}

// LoadAll inserts every record without existence checks. It is meant for an
// empty store; removal flags are ignored.
func (r *Reconciler) LoadAll(ctx context.Context, store Store, records []Record) (Counts, error) {
	start := time.Now()
	var counts Counts

	if batcher, ok := store.(BatchInserter); ok {
		for i := 0; i < len(records); i += r.batchSize {
			end := min(i+r.batchSize, len(records))
			if err := batcher.InsertBatch(ctx, records[i:end]); err != nil {
				return counts, fmt.Errorf("insert batch at offset %d: %w", i, err)
			}
			counts.New += end - i
			counts.Total += end - i
		}
	} else {
		for _, rec := range records {
			if err := store.Insert(ctx, rec); err != nil {
				return counts, fmt.Errorf("insert ad %s: %w", rec.ID, err)
			}
			counts.add(ActionInsert)
		}
	}

	r.log.Info(fmt.Sprintf("Insert multiple ads: (%d ads)", counts.Total),
		zap.Duration("took", time.Since(start)),
	)
	return counts, nil
}
