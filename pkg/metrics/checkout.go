package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records outcomes of checkout preparation runs.
type CheckoutMetrics struct {
	duration  *prometheus.HistogramVec
	outcomes  *prometheus.CounterVec
	conflicts *prometheus.CounterVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_duration_seconds",
		Help:    "Duration of checkout preparation in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_outcomes_total",
		Help: "Checkout preparation runs by terminal outcome.",
	}, []string{"outcome"})
	conflicts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_stock_conflicts_total",
		Help: "Stock conflicts reported during checkout, by issue type.",
	}, []string{"issue_type"})
	reg.MustRegister(duration, outcomes, conflicts)
	return &CheckoutMetrics{
		duration:  duration,
		outcomes:  outcomes,
		conflicts: conflicts,
	}
}

// ObserveDuration records the duration of a preparation run for the outcome.
func (c *CheckoutMetrics) ObserveDuration(outcome string, duration time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(normalizeLabel(outcome)).Observe(duration.Seconds())
}

// IncOutcome increments the counter for a terminal checkout outcome.
func (c *CheckoutMetrics) IncOutcome(outcome string) {
	if c == nil || c.outcomes == nil {
		return
	}
	c.outcomes.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncConflict increments the stock conflict counter for the issue type.
func (c *CheckoutMetrics) IncConflict(issueType string) {
	if c == nil || c.conflicts == nil {
		return
	}
	c.conflicts.WithLabelValues(normalizeLabel(issueType)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
