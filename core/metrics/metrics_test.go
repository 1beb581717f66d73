package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Registers(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	require.NotNil(t, m)

	m.Processed(1, 0, 0)
	m.Cycle(ResultSuccess, time.Second)
	m.Watermark(time.Unix(100, 0))
	m.Rows(3)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{
		"jobads_processed_total",
		"jobads_sync_cycles_total",
		"jobads_watermark_timestamp_seconds",
		"jobads_store_rows",
		"jobads_sync_cycle_duration_seconds",
	} {
		assert.True(t, names[want], want)
	}
}

func TestProcessed(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.Processed(2, 1, 0)
	m.Processed(1, 0, 4)

	assert.Equal(t, float64(3), testutil.ToFloat64(m.processed.WithLabelValues("insert")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.processed.WithLabelValues("update")))
	assert.Equal(t, float64(4), testutil.ToFloat64(m.processed.WithLabelValues("delete")))
}

func TestCycleAndGauges(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.Cycle(ResultSuccess, time.Millisecond)
	m.Cycle(ResultFailure, time.Millisecond)
	m.Cycle(ResultFailure, time.Millisecond)
	m.Watermark(time.Unix(1700000000, 0))
	m.Rows(42)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.cycles.WithLabelValues(ResultSuccess)))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.cycles.WithLabelValues(ResultFailure)))
	assert.Equal(t, float64(1700000000), testutil.ToFloat64(m.watermark))
	assert.Equal(t, float64(42), testutil.ToFloat64(m.rows))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Processed(1, 1, 1)
		m.Cycle(ResultEmpty, 0)
		m.Watermark(time.Now())
		m.Rows(1)
	})
}
