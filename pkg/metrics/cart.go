package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CartMetrics records engine mutations and persistence outcomes.
type CartMetrics struct {
	mutations       *prometheus.CounterVec
	persistFailures *prometheus.CounterVec
	persistDuration *prometheus.HistogramVec
}

// NewCartMetrics registers the cart metrics on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Cart mutations by operation and whether the snapshot changed.",
	}, []string{"op", "result"})
	persistFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_persist_failures_total",
		Help: "Swallowed cart storage failures by phase.",
	}, []string{"phase"})
	persistDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cart_persist_duration_seconds",
		Help:    "Duration of cart storage reads and writes in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"phase"})
	reg.MustRegister(mutations, persistFailures, persistDuration)
	return &CartMetrics{
		mutations:       mutations,
		persistFailures: persistFailures,
		persistDuration: persistDuration,
	}
}

// ObserveMutation counts one mutation, labelled changed or noop.
func (c *CartMetrics) ObserveMutation(op string, changed bool) {
	if c == nil || c.mutations == nil {
		return
	}
	result := "noop"
	if changed {
		result = "changed"
	}
	c.mutations.WithLabelValues(normalizeLabel(op), result).Inc()
}

// IncPersistFailure increments the failure counter for the phase.
func (c *CartMetrics) IncPersistFailure(phase string) {
	if c == nil || c.persistFailures == nil {
		return
	}
	c.persistFailures.WithLabelValues(normalizeLabel(phase)).Inc()
}

// ObservePersist records how long a storage read or write took.
func (c *CartMetrics) ObservePersist(phase string, d time.Duration) {
	if c == nil || c.persistDuration == nil {
		return
	}
	c.persistDuration.WithLabelValues(normalizeLabel(phase)).Observe(d.Seconds())
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
