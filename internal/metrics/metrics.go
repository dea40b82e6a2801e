// Package metrics holds the Prometheus metrics of the bayesdx API.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for engine requests.
type Metrics struct {
	// Requests by operation and outcome (ok, validation_error, invalid_request, unknown_test, error)
	Requests *prometheus.CounterVec

	// Handler latency by operation
	Latency *prometheus.HistogramVec

	// Validation failures by field
	ValidationErrors *prometheus.CounterVec

	// Likelihood ratios that came out unbounded
	UnboundedLRs prometheus.Counter

	// Response cache lookups by result (hit, miss)
	CacheLookups *prometheus.CounterVec
}

// New creates a Metrics instance registered on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bayesdx_requests_total",
			Help: "Total engine requests by operation and outcome",
		}, []string{"operation", "outcome"}),

		Latency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bayesdx_request_duration_seconds",
			Help:    "Duration of engine requests by operation",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}, []string{"operation"}),

		ValidationErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bayesdx_validation_errors_total",
			Help: "Total input validation failures by field",
		}, []string{"field"}),

		UnboundedLRs: factory.NewCounter(prometheus.CounterOpts{
			Name: "bayesdx_unbounded_likelihood_ratios_total",
			Help: "Total likelihood ratios returned as unbounded",
		}),

		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bayesdx_cache_lookups_total",
			Help: "Response cache lookups by result",
		}, []string{"result"}),
	}
}

// ObserveRequest records the outcome and duration of one request.
func (m *Metrics) ObserveRequest(operation, outcome string, d time.Duration) {
	if m != nil {
		m.Requests.WithLabelValues(operation, outcome).Inc()
		m.Latency.WithLabelValues(operation).Observe(d.Seconds())
	}
}

// IncrementValidationError records a validation failure on field.
func (m *Metrics) IncrementValidationError(field string) {
	if m != nil {
		m.ValidationErrors.WithLabelValues(field).Inc()
	}
}

// IncrementUnboundedLR records an unbounded likelihood ratio.
func (m *Metrics) IncrementUnboundedLR() {
	if m != nil {
		m.UnboundedLRs.Inc()
	}
}

// ObserveCache records a cache hit or miss.
func (m *Metrics) ObserveCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}
