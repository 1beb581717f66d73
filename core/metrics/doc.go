// Package metrics exposes Prometheus collectors for the sync loop.
// A nil *Metrics is valid and records nothing.
package metrics
