package solver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolve_SimpleMaximization(t *testing.T) {
	p := NewProblem()
	p.AddVariable("x", 0, 3, Continuous)
	p.AddVariable("y", 0, 3, Continuous)
	p.AddConstraint("capacity", map[string]float64{"x": 1, "y": 1}, LE, 4)
	p.Objective = Objective{Coeffs: map[string]float64{"x": 3, "y": 2}, Maximize: true}

	h, err := Build(p)
	require.NoError(t, err)

	result, err := Solve(h, time.Second, 0.01)
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, result.Status)

	assert.InDelta(t, 11.0, result.ObjectiveValue, 1e-4)
	assert.InDelta(t, 3.0, result.Values["x"], 1e-4)
	assert.InDelta(t, 1.0, result.Values["y"], 1e-4)

	assert.Equal(t, result.Values, Extract(h))
}

func TestSolve_EqualityAndShiftedLowerBound(t *testing.T) {
	p := NewProblem()
	p.AddVariable("a", 10, 50, Continuous)
	p.AddVariable("b", 0, 50, Continuous)
	p.AddConstraint("total", map[string]float64{"a": 1, "b": 1}, EQ, 40)
	p.Objective = Objective{Coeffs: map[string]float64{"a": 1, "b": 2}, Maximize: true}

	h, err := Build(p)
	require.NoError(t, err)
	result, err := Solve(h, time.Second, 0.01)
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, result.Status)

	// b earns more per unit (higher coefficient), so it should take as
	// much of the 40 total as a's lower bound of 10 allows.
	assert.InDelta(t, 10.0, result.Values["a"], 1e-4)
	assert.InDelta(t, 30.0, result.Values["b"], 1e-4)
}

func TestSolve_Infeasible(t *testing.T) {
	p := NewProblem()
	p.AddVariable("x", 0, 5, Continuous)
	p.AddConstraint("lower", map[string]float64{"x": 1}, GE, 10)
	p.Objective = Objective{Coeffs: map[string]float64{"x": 1}}

	h, err := Build(p)
	require.NoError(t, err)
	result, err := Solve(h, time.Second, 0.01)
	require.NoError(t, err)
	assert.Equal(t, StatusInfeasible, result.Status)
}

func TestSolve_IntegerKnapsack(t *testing.T) {
	p := NewProblem()
	p.AddVariable("x", 0, 1, Integer)
	p.AddVariable("y", 0, 1, Integer)
	p.AddVariable("z", 0, 1, Integer)
	p.AddConstraint("weight", map[string]float64{"x": 5, "y": 4, "z": 3}, LE, 7)
	p.Objective = Objective{Coeffs: map[string]float64{"x": 10, "y": 7, "z": 5}, Maximize: true}

	h, err := Build(p)
	require.NoError(t, err)
	result, err := Solve(h, 2*time.Second, 0.01)
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, result.Status)

	// Best combination under weight 7: y+z (weight 7, value 12) beats x alone (value 10).
	assert.InDelta(t, 12.0, result.ObjectiveValue, 1e-4)
	assert.InDelta(t, 0.0, result.Values["x"], 1e-4)
	assert.InDelta(t, 1.0, result.Values["y"], 1e-4)
	assert.InDelta(t, 1.0, result.Values["z"], 1e-4)
}

func TestBuild_RejectsUndeclaredVariable(t *testing.T) {
	p := NewProblem()
	p.AddVariable("x", 0, 1, Continuous)
	p.AddConstraint("c", map[string]float64{"ghost": 1}, LE, 1)

	_, err := Build(p)
	assert.Error(t, err)
}
