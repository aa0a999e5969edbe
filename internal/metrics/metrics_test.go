package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveSolve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveSolve(OutcomeSolved, "till", time.Millisecond)
	m.ObserveSolve(OutcomeSolved, "till", time.Millisecond)
	m.ObserveSolve(OutcomeInfeasible, "request", time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.SolveOutcome.WithLabelValues(OutcomeSolved, "till")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SolveOutcome.WithLabelValues(OutcomeInfeasible, "request")))

	count, err := testutil.GatherAndCount(reg, "change_calculator_solve_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestAddDispensed(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.AddDispensed(3)
	m.AddDispensed(0)
	m.AddDispensed(-2)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.DispensedItems))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveSolve(OutcomeSolved, "till", time.Second)
		m.AddDispensed(1)
	})
}
