package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for the sample pipeline.
type Metrics struct {
	// Sample flow
	SamplesAppended prometheus.Counter
	SamplesRejected *prometheus.CounterVec
	SamplesEvicted  prometheus.Counter

	// Threshold monitor
	ThresholdCrossings prometheus.Counter

	// Window state
	WindowLength prometheus.Gauge
}

// Rejection reasons used as label values on SamplesRejected.
const (
	ReasonNaN   = "nan"
	ReasonEmpty = "empty"
	ReasonShort = "short"
)

// NewMetrics creates the full collector set. Call Register to attach it
// to a registry before use.
func NewMetrics() *Metrics {
	return &Metrics{
		SamplesAppended: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "sparkline_samples_appended_total",
				Help: "Total number of samples accepted into the window",
			},
		),

		SamplesRejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sparkline_samples_rejected_total",
				Help: "Total number of samples or batches dropped as invalid input",
			},
			[]string{"reason"},
		),

		SamplesEvicted: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "sparkline_samples_evicted_total",
				Help: "Total number of samples evicted to satisfy the capacity bound",
			},
		),

		ThresholdCrossings: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "sparkline_threshold_crossings_total",
				Help: "Total number of threshold-entered notifications emitted",
			},
		),

		WindowLength: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "sparkline_window_length",
				Help: "Current number of samples held in the window",
			},
		),
	}
}

// Register attaches all collectors to the given registry.
func (m *Metrics) Register(r prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		m.SamplesAppended,
		m.SamplesRejected,
		m.SamplesEvicted,
		m.ThresholdCrossings,
		m.WindowLength,
	}
	for _, c := range collectors {
		if err := r.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// RecordRejected is a nil-safe helper for hot paths that may run without
// telemetry wired.
func (m *Metrics) RecordRejected(reason string) {
	if m == nil {
		return
	}
	m.SamplesRejected.WithLabelValues(reason).Inc()
}

// RecordAppended is nil-safe.
func (m *Metrics) RecordAppended(n int) {
	if m == nil {
		return
	}
	m.SamplesAppended.Add(float64(n))
}

// RecordEvicted is nil-safe.
func (m *Metrics) RecordEvicted(n int) {
	if m == nil || n == 0 {
		return
	}
	m.SamplesEvicted.Add(float64(n))
}

// RecordCrossing is nil-safe.
func (m *Metrics) RecordCrossing() {
	if m == nil {
		return
	}
	m.ThresholdCrossings.Inc()
}

// RecordWindowLength is nil-safe.
func (m *Metrics) RecordWindowLength(n int) {
	if m == nil {
		return
	}
	m.WindowLength.Set(float64(n))
}
