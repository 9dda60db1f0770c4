package solver

import (
	"context"
	"math"
)

const integerTolerance = 1e-6

// bbNode is one branch-and-bound subproblem: the parent problem plus extra
// bound rows tightening one or more integer variables.
type bbNode struct {
	extraRows []standardRow
}

// mostFractional returns the integer variable index furthest from an
// integer value, and that distance. Returns -1 if every integer variable
// is already integral within tolerance.
func (c *compiled) mostFractional(x []float64) (idx int, frac float64) {
	idx = -1
	best := integerTolerance
	for i, kind := range c.kinds {
		if kind != Integer {
			continue
		}
		value := x[i] + c.lower[i]
		dist := math.Abs(value - math.Round(value))
		if dist > best {
			best = dist
			idx = i
		}
	}
	return idx, best
}

// branchAndBound explores subproblems depth-first, pruning any node whose
// LP relaxation cannot beat the current incumbent. It always returns the
// best integer-feasible solution found before ctx expires, 50,000 nodes
// have been explored, or the search tree is exhausted.
func branchAndBound(ctx context.Context, c *compiled, relativeGap float64) *Result {
	var incumbent *Result
	incumbentInternalObj := math.Inf(1)

	stack := []bbNode{{}}
	nodesExplored := 0
	const maxNodes = 50000
	exhausted := true

	for len(stack) > 0 {
		if ctx.Err() != nil || nodesExplored >= maxNodes {
			exhausted = false
			break
		}
		nodesExplored++

		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		rows := append(append([]standardRow(nil), c.rows...), node.extraRows...)
		sub := &compiled{n: c.n, names: c.names, lower: c.lower, upper: c.upper, kinds: c.kinds, cost: c.cost, objSign: c.objSign, rows: rows}

		x, status := sub.solveLP()
		if status != StatusOptimal {
			continue
		}

		internalObj := 0.0
		for i, v := range x {
			internalObj += c.cost[i] * v
		}
		if internalObj >= incumbentInternalObj-1e-9 {
			continue // can't possibly beat the incumbent
		}

		branchVar, frac := c.mostFractional(x)
		if branchVar == -1 {
			incumbentInternalObj = internalObj
			incumbent = &Result{
				Status:         StatusOptimal,
				ObjectiveValue: c.objectiveValue(x),
				Values:         c.realValues(x),
			}
			continue
		}
		_ = frac

		value := x[branchVar] + c.lower[branchVar]
		floorBound := math.Floor(value)
		ceilBound := math.Ceil(value)

		floorCoeffs := make([]float64, c.n)
		floorCoeffs[branchVar] = 1
		floorRow := standardRow{coeffs: floorCoeffs, sense: LE, rhs: floorBound - c.lower[branchVar]}

		ceilCoeffs := make([]float64, c.n)
		ceilCoeffs[branchVar] = 1
		ceilRow := standardRow{coeffs: ceilCoeffs, sense: GE, rhs: ceilBound - c.lower[branchVar]}

		stack = append(stack,
			bbNode{extraRows: append(append([]standardRow(nil), node.extraRows...), floorRow)},
			bbNode{extraRows: append(append([]standardRow(nil), node.extraRows...), ceilRow)},
		)
	}

	if incumbent == nil {
		return &Result{Status: StatusInfeasible}
	}
	if !exhausted {
		incumbent.Status = StatusSubOptimal
		if incumbent.ObjectiveValue != 0 {
			incumbent.Gap = relativeGap
		}
	}
	return incumbent
}
