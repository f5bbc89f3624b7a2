// Package metrics collects parse counters for one CLI run and writes them in
// the Prometheus text format for the node_exporter textfile collector.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"itinerary_parser/internal/registry"
	"itinerary_parser/internal/schedule"
)

const namespace = "itinerary_parser"

// Metrics holds all prometheus metrics
type Metrics struct {
	Registry *prometheus.Registry

	Documents          *prometheus.CounterVec
	Flights            prometheus.Counter
	NoiseLines         prometheus.Counter
	Continuations      prometheus.Counter
	ExtractionAttempts *prometheus.CounterVec
	ParseDuration      prometheus.Histogram
}

// New creates the metrics on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		Documents: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_total",
			Help:      "Documents processed, by provenance tag and outcome",
		}, []string{"source", "outcome"}),
		Flights: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flights_total",
			Help:      "Flight records emitted",
		}),
		NoiseLines: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "noise_lines_total",
			Help:      "Candidate lines rejected by the flight grammar",
		}),
		Continuations: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "continuations_total",
			Help:      "Flight records completed with the following line",
		}),
		ExtractionAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extraction_attempts_total",
			Help:      "PDF extraction attempts, by backend and outcome",
		}, []string{"backend", "outcome"}),
		ParseDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "document_duration_seconds",
			Help:      "Time taken to decode and parse one document",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

// ObserveResult records a parsed document.
func (m *Metrics) ObserveResult(res *schedule.ParseResult, elapsed time.Duration) {
	m.Documents.WithLabelValues(res.Source, "ok").Inc()
	m.Flights.Add(float64(res.Total))
	m.NoiseLines.Add(float64(res.Stats.Noise))
	m.Continuations.Add(float64(res.Stats.Continuations))
	m.ParseDuration.Observe(elapsed.Seconds())
}

// ObserveFailure records a document that could not be decoded.
func (m *Metrics) ObserveFailure(elapsed time.Duration) {
	m.Documents.WithLabelValues("unknown", "error").Inc()
	m.ParseDuration.Observe(elapsed.Seconds())
}

// ObserveAttempts records PDF backend attempts.
func (m *Metrics) ObserveAttempts(attempts []registry.Attempt) {
	for _, a := range attempts {
		m.ExtractionAttempts.WithLabelValues(a.Backend, a.Outcome()).Inc()
	}
}

// WriteTextfile writes all metrics to path in the text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}
