package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "xiu"

// Metrics holds the Prometheus counters, histograms, and gauges for the resolver,
// its providers, and the optional request pipeline.
type Metrics struct {
	ResultsResolved *prometheus.CounterVec // labels: mode={date,month,fixed,pipeline}
	FactMismatches  prometheus.Counter

	// Calibration metrics.
	CalibrationRuns      prometheus.Counter
	CalibrationFallbacks prometheus.Counter
	CalibrationDuration  prometheus.Histogram
	CalibrationCache     *prometheus.CounterVec // labels: result={hit,miss}

	// Provider metrics.
	ProviderCache  *prometheus.CounterVec // labels: provider={sunrise,ephemeris}, result={hit,miss}
	ProviderErrors *prometheus.CounterVec // labels: provider={sunrise,ephemeris}

	// Pipeline metrics.
	MessagesConsumed        prometheus.Counter
	MessagesProduced        prometheus.Counter
	RequestErrors           prometheus.Counter
	PipelineRunning         prometheus.Gauge
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith registers the collectors on reg instead of the default
// registry.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	m := newMetrics()
	reg.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, so tests can
// build as many sets as they like.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		ResultsResolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "results_resolved_total",
			Help:      "Dates resolved to a mansion, by request mode.",
		}, []string{"mode"}),
		FactMismatches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fact_mismatches_total",
			Help:      "Resolved calibration dates that disagree with their fact.",
		}),
		CalibrationRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calibration_runs_total",
			Help:      "Monthly calibrations computed (cache misses that ran the scans).",
		}),
		CalibrationFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calibration_fallbacks_total",
			Help:      "Months whose facts no calibration satisfied.",
		}),
		CalibrationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "calibration_duration_seconds",
			Help:      "Duration of a monthly calibration.",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		CalibrationCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calibration_cache_total",
			Help:      "Calibration cache lookups by result.",
		}, []string{"result"}),
		ProviderCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_cache_total",
			Help:      "Provider cache lookups by provider and result.",
		}, []string{"provider", "result"}),
		ProviderErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_errors_total",
			Help:      "Provider failures by provider.",
		}, []string{"provider"}),
		MessagesConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_consumed_total",
			Help:      "Total requests read from the source topic.",
		}),
		MessagesProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_produced_total",
			Help:      "Total result rows written to the sink topic.",
		}),
		RequestErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "request_errors_total",
			Help:      "Requests that could not be parsed or resolved.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      "1 when the request pipeline is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_size",
			Help:      "Number of requests per batch extracted from Kafka.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete batch extract-resolve-load cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.ResultsResolved,
		m.FactMismatches,
		m.CalibrationRuns,
		m.CalibrationFallbacks,
		m.CalibrationDuration,
		m.CalibrationCache,
		m.ProviderCache,
		m.ProviderErrors,
		m.MessagesConsumed,
		m.MessagesProduced,
		m.RequestErrors,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchProcessingDuration,
	}
}
