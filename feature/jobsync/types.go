package jobsync

import (
	"time"

	"jobads-sync/core/reconcile"
)

// Report kinds.
const (
	KindBootstrap = "bootstrap"
	KindUpdate    = "update"
)

// Report describes one bootstrap or update cycle.
type Report struct {
	Kind      string           `json:"kind"`
	StartedAt time.Time        `json:"started_at"`
	Since     time.Time        `json:"since,omitzero"`
	Fetched   int              `json:"fetched"`
	Counts    reconcile.Counts `json:"counts"`
	Watermark string           `json:"watermark,omitempty"`
	Rows      int64            `json:"rows"`
	Took      time.Duration    `json:"took_ns"`
	Error     string           `json:"error,omitempty"`
}

// Status is the process-wide view of the sync loop.
type Status struct {
	Looping   bool    `json:"looping"`
	Cycles    int     `json:"cycles"`
	Failures  int     `json:"failures"`
	Watermark string  `json:"watermark,omitempty"`
	LastError string  `json:"last_error,omitempty"`
	LastRun   *Report `json:"last_run,omitempty"`
}
