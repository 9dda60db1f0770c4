package solver

import (
	"context"
	"math"
	"time"
)

// Status summarizes how a Solve call ended.
type Status int

const (
	StatusOptimal    Status = iota
	StatusSubOptimal        // time limit or node limit hit; best-known solution returned
	StatusInfeasible
	StatusUnbounded
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusSubOptimal:
		return "suboptimal"
	case StatusInfeasible:
		return "infeasible"
	case StatusUnbounded:
		return "unbounded"
	default:
		return "unknown"
	}
}

// Result is what Solve returns and what a Handle remembers for Extract.
type Result struct {
	Status         Status
	ObjectiveValue float64
	Values         map[string]float64
	Gap            float64 // for a MIP search stopped early with a nonzero objective, the relativeGap passed to Solve (not a computed bound gap); zero otherwise
}

// compiled is the problem in standard form; branch-and-bound copies it with
// extra bound rows appended so it can tighten bounds without rebuilding the
// whole problem from scratch.
type compiled struct {
	n       int
	names   []string
	lower   []float64
	upper   []float64 // math.Inf(1) if none
	kinds   []VarKind
	cost    []float64 // minimize-sense objective coefficients, structural vars
	objSign float64   // 1 if original was minimize, -1 if maximize (to flip back)
	rows    []standardRow
}

func compile(p *Problem) *compiled {
	n := len(p.Variables)
	c := &compiled{
		n:     n,
		names: make([]string, n),
		lower: make([]float64, n),
		upper: make([]float64, n),
		kinds: make([]VarKind, n),
		cost:  make([]float64, n),
	}
	index := make(map[string]int, n)
	for i, v := range p.Variables {
		c.names[i] = v.Name
		c.lower[i] = v.Lower
		c.upper[i] = v.Upper
		c.kinds[i] = v.Kind
		index[v.Name] = i
	}

	c.objSign = 1
	for name, coeff := range p.Objective.Coeffs {
		sign := 1.0
		if p.Objective.Maximize {
			sign = -1
		}
		c.cost[index[name]] = coeff * sign
	}

	rows := make([]standardRow, 0, len(p.Constraints)+n)
	for _, cons := range p.Constraints {
		coeffs := make([]float64, n)
		rhsAdj := cons.RHS
		for name, coeff := range cons.Coeffs {
			i := index[name]
			coeffs[i] = coeff
			rhsAdj -= coeff * c.lower[i]
		}
		rows = append(rows, standardRow{coeffs: coeffs, sense: cons.Sense, rhs: rhsAdj})
	}
	for i := range p.Variables {
		if !math.IsInf(c.upper[i], 1) {
			coeffs := make([]float64, n)
			coeffs[i] = 1
			rows = append(rows, standardRow{coeffs: coeffs, sense: LE, rhs: c.upper[i] - c.lower[i]})
		}
	}
	c.rows = rows
	return c
}

// solveLP runs the two-phase simplex for the (possibly bound-tightened)
// rows in c, returning shifted structural values (still needing +lower).
func (c *compiled) solveLP() (values []float64, status Status) {
	t := buildPhaseTableau(c.n, c.rows)
	t.phase1Objective()
	if unbounded := t.runSimplex(t.artStart + t.artCount); unbounded {
		return nil, StatusInfeasible
	}
	// Read the phase-1 objective (sum of artificials) directly off the
	// basic artificial values rather than the objective row's RHS entry,
	// since that entry's sign convention is easy to get backwards.
	phase1Obj := 0.0
	for i, b := range t.basis {
		if b >= t.artStart {
			phase1Obj += t.rhsValue(i)
		}
	}
	if phase1Obj > 1e-6 {
		return nil, StatusInfeasible
	}

	t.objectiveRowFor(c.cost)
	if unbounded := t.runSimplex(t.artStart); unbounded {
		return nil, StatusUnbounded
	}

	x := t.solution()
	return x, StatusOptimal
}

func (c *compiled) objectiveValue(shiftedX []float64) float64 {
	total := 0.0
	for i, v := range shiftedX {
		total += c.cost[i] * v
	}
	for i := range c.lower {
		total += c.cost[i] * c.lower[i]
	}
	return total * c.objSign
}

func (c *compiled) realValues(shiftedX []float64) map[string]float64 {
	out := make(map[string]float64, c.n)
	for i, v := range shiftedX {
		out[c.names[i]] = v + c.lower[i]
	}
	return out
}

// Solve runs Build's compiled Handle through the simplex (continuous
// problems) or branch-and-bound (problems with integer variables), and
// stores the result on the handle for Extract. timeLimit bounds only the
// branch-and-bound search; a continuous solve runs to completion.
// relativeGap does not end the search early: it is only reported as
// Result.Gap when branch-and-bound stops before exhausting its tree.
func Solve(h *Handle, timeLimit time.Duration, relativeGap float64) (*Result, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeLimit)
	defer cancel()

	c := compile(h.problem)

	hasIntegers := false
	for _, k := range c.kinds {
		if k == Integer {
			hasIntegers = true
			break
		}
	}

	var result *Result
	if hasIntegers {
		result = branchAndBound(ctx, c, relativeGap)
	} else {
		x, status := c.solveLP()
		if status != StatusOptimal {
			result = &Result{Status: status}
		} else {
			result = &Result{
				Status:         StatusOptimal,
				ObjectiveValue: c.objectiveValue(x),
				Values:         c.realValues(x),
			}
		}
	}

	h.lastSolve = result
	return result, nil
}

// Extract reads the variable values from the handle's last Solve call. It
// returns nil if Solve has not been called or found no feasible solution.
func Extract(h *Handle) map[string]float64 {
	if h.lastSolve == nil {
		return nil
	}
	return h.lastSolve.Values
}
