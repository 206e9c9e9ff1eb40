package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsWith_RegistersEveryCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetricsWith(reg)

	m.ResultsResolved.WithLabelValues("date").Inc()
	m.CalibrationCache.WithLabelValues("hit").Inc()
	m.ProviderCache.WithLabelValues("sunrise", "miss").Inc()
	m.ProviderErrors.WithLabelValues("ephemeris").Inc()

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{
		"xiu_results_resolved_total",
		"xiu_calibration_fallbacks_total",
		"xiu_calibration_runs_total",
		"xiu_messages_consumed_total",
		"xiu_pipeline_running",
	} {
		assert.True(t, names[want], "missing %s", want)
	}
}

func TestNewMetricsWith_DuplicatePanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetricsWith(reg)
	assert.Panics(t, func() { NewMetricsWith(reg) })
}

func TestNewMetricsForTesting_Independent(t *testing.T) {
	a := NewMetricsForTesting()
	b := NewMetricsForTesting()
	a.FactMismatches.Inc()

	assert.InDelta(t, 1, testutil.ToFloat64(a.FactMismatches), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(b.FactMismatches), 0)
}
