package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Request outcomes
const (
	OutcomeSuccess  = "success"
	OutcomeRPCError = "rpc_error"
	OutcomeFailure  = "failure"
)

// Metrics holds the provider request and item collectors. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	items    *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	metrics := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "infuranode",
			Name:      "requests_total",
			Help:      "The total number of provider requests by JSON-RPC method and outcome",
		}, []string{"method", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "infuranode",
			Name:      "request_duration_seconds",
			Help:      "Provider round trip latency by JSON-RPC method",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		items: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "infuranode",
			Name:      "items_total",
			Help:      "The total number of processed items by operation and outcome",
		}, []string{"operation", "outcome"}),
	}
	if reg != nil {
		metrics.register(reg)
	}
	return metrics
}

func (m *Metrics) register(reg prometheus.Registerer) {
	reg.MustRegister(m.requests, m.duration, m.items)
}

// ObserveRequest counts one provider call and records its latency
func (m *Metrics) ObserveRequest(method, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, outcome).Inc()
	m.duration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// IncrementItems counts one processed item
func (m *Metrics) IncrementItems(operation, outcome string) {
	if m == nil {
		return
	}
	m.items.WithLabelValues(operation, outcome).Inc()
}
