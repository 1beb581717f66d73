package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Cycle results recorded on jobads_sync_cycles_total.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultEmpty   = "empty"
)

// Metrics holds the Prometheus collectors for the sync pipeline.
type Metrics struct {
	processed *prometheus.CounterVec
	cycles    *prometheus.CounterVec
	watermark prometheus.Gauge
	rows      prometheus.Gauge
	duration  prometheus.Histogram
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		processed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jobads_processed_total",
			Help: "Job ads applied to the store by action",
		}, []string{"action"}),
		cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jobads_sync_cycles_total",
			Help: "Sync cycles by result",
		}, []string{"result"}),
		watermark: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "jobads_watermark_timestamp_seconds",
			Help: "Unix time of the last committed watermark",
		}),
		rows: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "jobads_store_rows",
			Help: "Rows in the jobads table after the last cycle",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "jobads_sync_cycle_duration_seconds",
			Help:    "Wall time of a sync cycle including fetch",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 300},
		}),
	}

	reg.MustRegister(m.processed, m.cycles, m.watermark, m.rows, m.duration)
	return m
}

// Processed adds the per-action counts of one batch.
func (m *Metrics) Processed(inserted, updated, deleted int) {
	if m == nil {
		return
	}
	m.processed.WithLabelValues("insert").Add(float64(inserted))
	m.processed.WithLabelValues("update").Add(float64(updated))
	m.processed.WithLabelValues("delete").Add(float64(deleted))
}

// Cycle records the outcome and duration of one cycle.
func (m *Metrics) Cycle(result string, took time.Duration) {
	if m == nil {
		return
	}
	m.cycles.WithLabelValues(result).Inc()
	m.duration.Observe(took.Seconds())
}

// Watermark publishes the committed watermark.
func (m *Metrics) Watermark(t time.Time) {
	if m == nil {
		return
	}
	m.watermark.Set(float64(t.Unix()))
}

// Rows publishes the current table size.
func (m *Metrics) Rows(n int64) {
	if m == nil {
		return
	}
	m.rows.Set(float64(n))
}
