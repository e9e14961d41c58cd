package ops

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Event outcomes recorded on the events counter.
const (
	outcomePersisted      = "persisted"
	outcomeOverwritten    = "overwritten"
	outcomeCircuitDropped = "circuit_dropped"
	outcomeFailed         = "failed"
)

// Metrics tracks what happened to each maintenance event handed to Track.
// Every method is safe on a nil receiver.
type Metrics struct {
	Events      *prometheus.CounterVec
	CircuitOpen prometheus.Gauge
}

func NewMetrics() *Metrics {
	return &Metrics{
		Events: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tally_audit_ops_events_total",
			Help: "Operations audit events by action and outcome",
		}, []string{"action", "outcome"}),
		CircuitOpen: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "tally_audit_ops_circuit_open",
			Help: "1 while the ops audit circuit breaker is open",
		}),
	}
}

func (m *Metrics) event(action, outcome string) {
	if m == nil {
		return
	}
	m.Events.WithLabelValues(action, outcome).Inc()
}

func (m *Metrics) circuit(open bool) {
	if m == nil {
		return
	}
	if open {
		m.CircuitOpen.Set(1)
		return
	}
	m.CircuitOpen.Set(0)
}
