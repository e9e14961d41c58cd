package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks statistics computations.
type Metrics struct {
	Computed        *prometheus.CounterVec
	Failed          *prometheus.CounterVec
	ComputeDuration *prometheus.HistogramVec
}

func New() *Metrics {
	return &Metrics{
		Computed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tally_stats_computed_total",
			Help: "Statistics reports computed, by scope kind",
		}, []string{"scope"}),
		Failed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tally_stats_failed_total",
			Help: "Statistics computations that failed, by scope kind",
		}, []string{"scope"}),
		ComputeDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tally_stats_compute_duration_seconds",
			Help:    "Duration of a statistics computation including loads",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"scope"}),
	}
}

// ObserveCompute records one computation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveCompute(scope string, start time.Time, err error) {
	m.ComputeDuration.WithLabelValues(scope).Observe(time.Since(start).Seconds())
	if err != nil {
		m.Failed.WithLabelValues(scope).Inc()
		return
	}
	m.Computed.WithLabelValues(scope).Inc()
}
