package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks ledger revisions and lock contention on poll aggregates.
type Metrics struct {
	Revisions       *prometheus.CounterVec
	UnchangedSaves  *prometheus.CounterVec
	LockBusy        prometheus.Counter
	RevisionLatency prometheus.Histogram
}

func New() *Metrics {
	return &Metrics{
		Revisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tally_ledger_revisions_total",
			Help: "Ledgered field revisions, by record kind and field",
		}, []string{"kind", "field"}),
		UnchangedSaves: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tally_ledger_unchanged_saves_total",
			Help: "Saves that changed no amount, by record kind",
		}, []string{"kind"}),
		LockBusy: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tally_ledger_lock_busy_total",
			Help: "Ledger writes rejected because the poll lock was busy",
		}),
		RevisionLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "tally_ledger_save_duration_seconds",
			Help:    "Duration of ledger saves including lock wait",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

func (m *Metrics) IncrementRevisions(kind string, fields []string) {
	if len(fields) == 0 {
		m.UnchangedSaves.WithLabelValues(kind).Inc()
		return
	}
	for _, f := range fields {
		m.Revisions.WithLabelValues(kind, f).Inc()
	}
}

func (m *Metrics) IncrementLockBusy() {
	m.LockBusy.Inc()
}

// ObserveSave records the duration of a ledger save.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveSave(start time.Time) {
	m.RevisionLatency.Observe(time.Since(start).Seconds())
}
