// Package jobsync keeps the jobads table in step with the remote feed.
//
// A Syncer owns three operations:
//
//	Bootstrap  create the table, full load, initial watermark
//	RunCycle   fetch since watermark, reconcile, advance watermark
//	Run        RunCycle every Interval until MaxCycles or cancellation
//
// Each load or cycle runs inside one database.Scoped session, so writes made
// before a failure are committed. The watermark only moves after a cycle
// succeeds, and never moves backwards.
//
// Only one operation runs at a time per Syncer; a concurrent call gets
// ErrCycleInProgress. Separate processes are kept apart by core/lock.
package jobsync
