// Package reconcile applies a batch of changed job ads to a store.
//
// Each record is classified in order:
//
//   - removed: delete the row (absent rows are fine)
//   - present: update the projected fields in place
//   - otherwise: insert a new row
//
// Apply stops at the first failing mutation and returns the counts reached
// so far. Mutations already issued stay in the caller's session, which is
// committed by database.Scoped regardless of the outcome.
//
// LoadAll is the bootstrap path. It skips existence checks entirely and
// uses BatchInserter when the store provides it.
//
// The package knows nothing about columns or SQL; stores are supplied by
// feature packages such as feature/jobads.
package reconcile
