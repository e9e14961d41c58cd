package compliance

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts compliance writes per action and outcome.
type Metrics struct {
	Writes        *prometheus.CounterVec
	WriteDuration prometheus.Histogram
}

func NewMetrics() *Metrics {
	return &Metrics{
		Writes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tally_audit_compliance_writes_total",
			Help: "Compliance audit writes by action and outcome",
		}, []string{"action", "outcome"}),
		WriteDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "tally_audit_compliance_write_duration_seconds",
			Help:    "Time spent writing a compliance audit event to the outbox",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// observe is safe on a nil receiver.
func (m *Metrics) observe(action string, ok bool, start time.Time) {
	if m == nil {
		return
	}
	outcome := "ok"
	if !ok {
		outcome = "failed"
	}
	m.Writes.WithLabelValues(action, outcome).Inc()
	m.WriteDuration.Observe(time.Since(start).Seconds())
}
