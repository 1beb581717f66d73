package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Scoped runs fn inside one scoped acquisition of the store. Writes issued
// through tx are committed when fn returns, whether it returned an error
// or panicked, so mutations completed before a failure are kept.
//
// The session itself ignores cancellation of ctx: a cancelled context stops
// the statements that use it, never the final commit.
func Scoped(ctx context.Context, db *gorm.DB, l *zap.Logger, fn func(tx *gorm.DB) error) (err error) {
	start := time.Now()
	tx := db.WithContext(context.WithoutCancel(ctx)).Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin session: %w", tx.Error)
	}
	l.Debug("Opened database session")

	defer func() {
		if cerr := tx.Commit().Error; cerr != nil {
			l.Error("Failed to commit session", zap.Error(cerr))
			err = errors.Join(err, fmt.Errorf("failed to commit session: %w", cerr))
			return
		}
		l.Info("Committed transactions and closed session", zap.Duration("elapsed", time.Since(start)))
	}()

	return fn(tx)
}
