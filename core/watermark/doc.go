// Package watermark persists the point in time up to which the local store
// is known to match the remote feed.
//
// Exactly one watermark exists per deployment. It is stored as a single
// text value in Layout (ISO-8601, second precision) and overwritten after
// each successful update cycle. Three backends are available:
//   - FileStore: a text file next to the database, replaced atomically.
//   - DBStore: a row in the sync_state table of the store.
//   - ObjectStore: an object in S3/MinIO, for hosts that share state.
//
// Read returns ErrNotFound until the first Write.
package watermark
