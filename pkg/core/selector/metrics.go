package selector

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains the prometheus metrics for selection runs.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Attempts            *prometheus.CounterVec
	Transitions         *prometheus.CounterVec
	RepairRemovals      *prometheus.CounterVec
	SelectionSize       *prometheus.GaugeVec
	QuotaShortfall      *prometheus.GaugeVec
	ConstraintShortfall *prometheus.GaugeVec
}

// NewMetrics creates and registers all selector metrics
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Attempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "selector_attempts_total",
				Help: "Random draws made by the selector",
			},
			[]string{"window", "pool"},
		),
		Transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "selector_transitions_total",
				Help: "State machine transitions taken by the selector",
			},
			[]string{"window", "from", "to"},
		),
		RepairRemovals: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "selector_repair_removals_total",
				Help: "Applicants removed from a selection by constraint repair",
			},
			[]string{"window", "constraint"},
		),
		SelectionSize: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "selector_selection_size",
				Help: "Size of the final selection for a window",
			},
			[]string{"window"},
		),
		QuotaShortfall: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "selector_quota_shortfall",
				Help: "Unfilled slots in the final selection for a window",
			},
			[]string{"window"},
		),
		ConstraintShortfall: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "selector_constraint_shortfall",
				Help: "Distance from a constraint's target in the final selection",
			},
			[]string{"window", "constraint"},
		),
	}

	reg.MustRegister(
		m.Attempts,
		m.Transitions,
		m.RepairRemovals,
		m.SelectionSize,
		m.QuotaShortfall,
		m.ConstraintShortfall,
	)

	return m
}

func (m *Metrics) observeAttempt(window, pool string) {
	if m == nil {
		return
	}
	m.Attempts.WithLabelValues(window, pool).Inc()
}

func (m *Metrics) observeTransition(window string, from, to State) {
	if m == nil {
		return
	}
	m.Transitions.WithLabelValues(window, from.String(), to.String()).Inc()
}

func (m *Metrics) observeRepair(window string, step RepairStep) {
	if m == nil || step.Removed == 0 {
		return
	}
	m.RepairRemovals.WithLabelValues(window, step.Constraint).Add(float64(step.Removed))
}

func (m *Metrics) observeReport(report *Report) {
	if m == nil {
		return
	}
	m.SelectionSize.WithLabelValues(report.Window).Set(float64(report.Selected))
	m.QuotaShortfall.WithLabelValues(report.Window).Set(float64(report.QuotaShortfall))
	for _, c := range report.Constraints {
		m.ConstraintShortfall.WithLabelValues(report.Window, c.Name).Set(float64(c.Shortfall))
	}
}
