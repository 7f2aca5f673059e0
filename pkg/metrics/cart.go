package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CartMetrics records cart operation outcomes.
type CartMetrics struct {
	duration       *prometheus.HistogramVec
	operations     *prometheus.CounterVec
	failures       *prometheus.CounterVec
	integritySkips prometheus.Counter
}

// NewCartMetrics registers the cart metrics on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cart_operation_duration_seconds",
		Help:    "Duration of cart store operations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_operations_total",
		Help: "Completed cart store operations by source mode.",
	}, []string{"operation", "source"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_operation_failures_total",
		Help: "Failed cart store operations by error code.",
	}, []string{"operation", "code"})
	integritySkips := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cart_integrity_skips_total",
		Help: "Cart items skipped during recalculation for missing product data.",
	})
	reg.MustRegister(duration, operations, failures, integritySkips)
	return &CartMetrics{
		duration:       duration,
		operations:     operations,
		failures:       failures,
		integritySkips: integritySkips,
	}
}

// ObserveDuration records the duration for the named operation.
func (c *CartMetrics) ObserveDuration(operation string, duration time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(normalizeLabel(operation)).Observe(duration.Seconds())
}

// IncOperation counts a completed operation for the given source mode.
func (c *CartMetrics) IncOperation(operation, source string) {
	if c == nil || c.operations == nil {
		return
	}
	c.operations.WithLabelValues(normalizeLabel(operation), normalizeLabel(source)).Inc()
}

// IncFailure counts a failed operation with its error code.
func (c *CartMetrics) IncFailure(operation, code string) {
	if c == nil || c.failures == nil {
		return
	}
	c.failures.WithLabelValues(normalizeLabel(operation), normalizeLabel(code)).Inc()
}

// IncIntegritySkip counts an item dropped from totals for missing product data.
func (c *CartMetrics) IncIntegritySkip() {
	if c == nil || c.integritySkips == nil {
		return
	}
	c.integritySkips.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
