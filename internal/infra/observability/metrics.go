package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
	"github.com/sony/gobreaker"
)

// Metrics holds all Prometheus metrics for the report service.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration    *prometheus.HistogramVec
	externalErrors     *prometheus.CounterVec
	degradedBranches   *prometheus.CounterVec
	breakerTransitions *prometheus.CounterVec
	breakerState       *prometheus.GaugeVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "report_request_duration_seconds",
				Help:    "Duration of requests by operation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		externalErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "report_external_errors_total",
				Help: "Total errors from backing services.",
			},
			[]string{"service"},
		),
		degradedBranches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "report_degraded_branches_total",
				Help: "Total fan-out branches that degraded to an empty result.",
			},
			[]string{"service"},
		),
		breakerTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "report_breaker_transitions_total",
				Help: "Total circuit breaker state transitions.",
			},
			[]string{"service", "to"},
		),
		breakerState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "report_breaker_state",
				Help: "Current circuit breaker state (0=closed, 1=half-open, 2=open).",
			},
			[]string{"service"},
		),
	}
}

// RecordRequestDuration records the duration of an operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrExternalError increments the external error counter.
func (m *Metrics) IncrExternalError(service string) {
	m.externalErrors.WithLabelValues(service).Inc()
}

// IncrDegradedBranch increments the degraded-branch counter. A degraded
// branch is a dependency call that failed and fell back to an empty
// result; the response contract is unchanged, but the event is counted.
func (m *Metrics) IncrDegradedBranch(service string) {
	m.degradedBranches.WithLabelValues(service).Inc()
}


// BreakerStateHook returns a hook suitable for
// resilience.NewCircuitBreaker that records state transitions.
func (m *Metrics) BreakerStateHook() func(name string, from, to gobreaker.State) {
	return func(name string, from, to gobreaker.State) {
		m.breakerTransitions.WithLabelValues(name, to.String()).Inc()
		var v float64
		switch to {
		case gobreaker.StateHalfOpen:
			v = 1
		case gobreaker.StateOpen:
			v = 2
		}
		m.breakerState.WithLabelValues(name).Set(v)
	}
}

// DegradedTotal returns the cumulative degraded-branch count for one
// backing service. Used by the health endpoint to report per-dependency
// degradation alongside overall status.
func (m *Metrics) DegradedTotal(service string) float64 {
	return getCounterValue(m.degradedBranches, service)
}

// getCounterValue extracts the current float64 value from a CounterVec for a given label.
func getCounterValue(cv *prometheus.CounterVec, label string) float64 {
	counter := cv.WithLabelValues(label)
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
