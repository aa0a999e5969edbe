package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for SolveOutcome.
const (
	OutcomeSolved              = "solved"
	OutcomeInvalidDenomination = "invalid_denomination"
	OutcomeNegativeTarget      = "negative_target"
	OutcomeInsufficientFunds   = "insufficient_funds"
	OutcomeInfeasible          = "infeasible"
	OutcomeBudgetExceeded      = "budget_exceeded"
	OutcomeError               = "error"
)

// Metrics provides observability for change calculations.
type Metrics struct {
	// Calculation outcomes by result kind and denomination source ("till", "request" or "coins")
	SolveOutcome *prometheus.CounterVec

	// Search latency
	SolveLatency prometheus.Histogram

	// Items handed out from the till
	DispensedItems prometheus.Counter
}

// New creates a Metrics instance and registers it with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SolveOutcome: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "change_calculator_solve_outcomes_total",
			Help: "Total change calculations by outcome and denomination source",
		}, []string{"outcome", "source"}),

		SolveLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "change_calculator_solve_duration_seconds",
			Help:    "Duration of the change search",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),

		DispensedItems: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "change_calculator_dispensed_items_total",
			Help: "Total coins and notes dispensed from the till",
		}),
	}
	reg.MustRegister(m.SolveOutcome, m.SolveLatency, m.DispensedItems)
	return m
}

// ObserveSolve records the outcome and duration of one calculation.
func (m *Metrics) ObserveSolve(outcome, source string, d time.Duration) {
	if m != nil {
		m.SolveOutcome.WithLabelValues(outcome, source).Inc()
		m.SolveLatency.Observe(d.Seconds())
	}
}

// AddDispensed records items handed out from the till.
func (m *Metrics) AddDispensed(items int64) {
	if m != nil && items > 0 {
		m.DispensedItems.Add(float64(items))
	}
}
