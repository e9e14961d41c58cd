package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics covers shift application and retraction.
type Metrics struct {
	ShiftsApplied       *prometheus.CounterVec
	ShiftsRetracted     prometheus.Counter
	AssignmentsDerived  *prometheus.CounterVec
	AssignmentsRemoved  prometheus.Counter
	ApplyShiftDuration  prometheus.Histogram
	RetractRefusedTotal prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		ShiftsApplied: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tally_shifts_applied_total",
			Help: "Total number of shifts applied, by task",
		}, []string{"task"}),
		ShiftsRetracted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tally_shifts_retracted_total",
			Help: "Total number of shifts retracted",
		}),
		AssignmentsDerived: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tally_officer_assignments_derived_total",
			Help: "Officer assignments created from shifts, by finality",
		}, []string{"final"}),
		AssignmentsRemoved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tally_officer_assignments_removed_total",
			Help: "Officer assignments removed by shift retraction",
		}),
		ApplyShiftDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "tally_apply_shift_duration_seconds",
			Help:    "Duration of ApplyShift including lock wait",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		RetractRefusedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tally_shift_retract_refused_total",
			Help: "Retractions refused because derived assignments were already attributed",
		}),
	}
}

func (m *Metrics) IncrementShiftApplied(task string, derived []bool) {
	m.ShiftsApplied.WithLabelValues(task).Inc()
	for _, final := range derived {
		if final {
			m.AssignmentsDerived.WithLabelValues("true").Inc()
		} else {
			m.AssignmentsDerived.WithLabelValues("false").Inc()
		}
	}
}

func (m *Metrics) IncrementShiftRetracted(removed int) {
	m.ShiftsRetracted.Inc()
	m.AssignmentsRemoved.Add(float64(removed))
}

func (m *Metrics) IncrementRetractRefused() {
	m.RetractRefusedTotal.Inc()
}

// ObserveApplyShift records the duration of an ApplyShift call.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveApplyShift(start time.Time) {
	m.ApplyShiftDuration.Observe(time.Since(start).Seconds())
}
