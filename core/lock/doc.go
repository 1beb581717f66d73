// Package lock enforces the single-writer discipline across processes.
//
// Within one process the sync loop is sequential. A bootstrap started by
// hand while the update loop (or serve --sync) runs would still be a second
// writer, so every writing command takes an exclusive flock first and
// fails fast with ErrLocked when the store is busy.
package lock
