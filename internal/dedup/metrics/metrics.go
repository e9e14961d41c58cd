package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks maintenance runs over participation records.
type Metrics struct {
	Removed      *prometheus.CounterVec
	Resolved     prometheus.Counter
	Unresolved   prometheus.Counter
	RunDuration  *prometheus.HistogramVec
	TenantFailed *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		Removed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tally_dedup_removed_total",
			Help: "Duplicate records deleted, by record kind",
		}, []string{"kind"}),
		Resolved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tally_dedup_options_resolved_total",
			Help: "Answers whose option was backfilled from their text",
		}),
		Unresolved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tally_dedup_options_unresolved_total",
			Help: "Answers left without an option because their text matched zero or several options",
		}),
		RunDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tally_dedup_run_duration_seconds",
			Help:    "Duration of a maintenance run for one tenant",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60},
		}, []string{"task"}),
		TenantFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tally_dedup_tenant_failures_total",
			Help: "Tenants whose maintenance run failed, by task",
		}, []string{"task"}),
	}
}

func (m *Metrics) IncrementRemoved(kind string, n int) {
	m.Removed.WithLabelValues(kind).Add(float64(n))
}

func (m *Metrics) IncrementBackfill(resolved, unresolved int) {
	m.Resolved.Add(float64(resolved))
	m.Unresolved.Add(float64(unresolved))
}

func (m *Metrics) IncrementTenantFailed(task string) {
	m.TenantFailed.WithLabelValues(task).Inc()
}

// ObserveRun records the duration of one task run.
// Call with time.Now() at the start of the run.
func (m *Metrics) ObserveRun(task string, start time.Time) {
	m.RunDuration.WithLabelValues(task).Observe(time.Since(start).Seconds())
}
