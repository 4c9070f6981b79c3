// Package observability defines the Prometheus metrics for the normalization
// pipeline.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "paina"

// Metrics holds the Prometheus counters, histograms, and gauges for the
// normalization pipeline.
type Metrics struct {
	BatchesProcessed  *prometheus.CounterVec // labels: outcome={success,extract_error,transform_error,load_error}
	RecordsIngested   prometheus.Counter
	RecordsNormalized *prometheus.CounterVec // labels: policy, phase
	TransformErrors   *prometheus.CounterVec // labels: reason={unrecognized_zone,invalid_hour,invalid_record,other}
	LoadAttempts      *prometheus.CounterVec // labels: loader, outcome={success,error}
	PipelineRunning   prometheus.Gauge

	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram

	registerer prometheus.Registerer
	gatherer   prometheus.Gatherer
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics(prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
	m.register()
	return m
}

// NewMetricsForTesting creates Metrics on a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	reg := prometheus.NewRegistry()
	m := newMetrics(reg, reg)
	m.register()
	return m
}

// Gatherer returns the registry the metrics were registered with, for
// pushing to a Pushgateway.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.gatherer
}

func newMetrics(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	return &Metrics{
		BatchesProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_processed_total",
			Help:      "Tag file batches processed, by outcome.",
		}, []string{"outcome"}),
		RecordsIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_ingested_total",
			Help:      "Total depth records read from tag files.",
		}),
		RecordsNormalized: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_normalized_total",
			Help:      "Depth records normalized to the canonical zone, by policy and day phase.",
		}, []string{"policy", "phase"}),
		TransformErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transform_errors_total",
			Help:      "Batches rejected during normalization, by reason.",
		}, []string{"reason"}),
		LoadAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "load_attempts_total",
			Help:      "Attempts to hand a normalized batch to a loader, by loader and outcome.",
		}, []string{"loader", "outcome"}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      "1 while a batch is being processed, 0 otherwise.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_size_records",
			Help:      "Number of depth records per tag file batch.",
			Buckets:   prometheus.ExponentialBuckets(100, 4, 8),
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete extract-transform-load cycle for one batch.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
		registerer: reg,
		gatherer:   gatherer,
	}
}

func (m *Metrics) register() {
	m.registerer.MustRegister(
		m.BatchesProcessed,
		m.RecordsIngested,
		m.RecordsNormalized,
		m.TransformErrors,
		m.LoadAttempts,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchProcessingDuration,
	)
}
