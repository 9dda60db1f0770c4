package solver

import "math"

const simplexEpsilon = 1e-9

// standardRow is one constraint translated into the simplex's internal,
// always-equality, always-nonnegative-RHS representation.
type standardRow struct {
	coeffs []float64 // over structural variables only, length n
	sense  Sense     // original sense, before any sign flip
	rhs    float64
}

// tableau is a dense simplex tableau: rows are constraints (plus the
// objective row at index -1, tracked separately), columns are all
// variables (structural + slack/surplus + artificial) plus RHS.
type tableau struct {
	n        int // structural variable count
	rows     [][]float64
	basis    []int
	obj      []float64 // length numCols; objective row, to be minimized
	objConst float64
	numCols  int
	artStart int // first column index that is an artificial variable
	artCount int
}

// buildPhaseTableau appends one slack/surplus column per LE/GE row and one
// artificial column per GE/EQ row (and per LE row whose RHS required a sign
// flip), producing an initial basic feasible tableau for phase 1.
func buildPhaseTableau(n int, rows []standardRow) *tableau {
	// Normalize RHS >= 0 by flipping sign (and sense) where needed.
	norm := make([]standardRow, len(rows))
	for i, r := range rows {
		c := append([]float64(nil), r.coeffs...)
		sense := r.sense
		rhs := r.rhs
		if rhs < 0 {
			for j := range c {
				c[j] = -c[j]
			}
			rhs = -rhs
			switch sense {
			case LE:
				sense = GE
			case GE:
				sense = LE
			}
		}
		norm[i] = standardRow{coeffs: c, sense: sense, rhs: rhs}
	}

	m := len(norm)
	// Count extra columns: one slack/surplus per row, one artificial per
	// GE/EQ row (LE rows get a slack that is immediately feasible).
	extra := m
	artCount := 0
	for _, r := range norm {
		if r.sense != LE {
			artCount++
		}
	}
	numCols := n + extra + artCount + 1 // +1 for RHS

	t := &tableau{n: n, numCols: numCols, artStart: n + extra, artCount: artCount}
	t.rows = make([][]float64, m)
	t.basis = make([]int, m)

	artCol := t.artStart
	for i, r := range norm {
		row := make([]float64, numCols)
		copy(row[:n], r.coeffs)
		slackCol := n + i
		switch r.sense {
		case LE:
			row[slackCol] = 1
			t.basis[i] = slackCol
		case GE:
			row[slackCol] = -1
			row[artCol] = 1
			t.basis[i] = artCol
			artCol++
		case EQ:
			row[artCol] = 1
			t.basis[i] = artCol
			artCol++
		}
		row[numCols-1] = r.rhs
		t.rows[i] = row
	}
	return t
}

// pivot performs one simplex pivot at (pivotRow, pivotCol), keeping obj in
// sync with the constraint rows so reduced costs stay current.
func (t *tableau) pivot(pivotRow, pivotCol int) {
	pr := t.rows[pivotRow]
	pv := pr[pivotCol]
	for j := range pr {
		pr[j] /= pv
	}
	for i, row := range t.rows {
		if i == pivotRow {
			continue
		}
		factor := row[pivotCol]
		if factor == 0 {
			continue
		}
		for j := range row {
			row[j] -= factor * pr[j]
		}
	}
	if t.obj != nil {
		factor := t.obj[pivotCol]
		if factor != 0 {
			for j := range t.obj {
				t.obj[j] -= factor * pr[j]
			}
		}
	}
	t.basis[pivotRow] = pivotCol
}

// runSimplex iterates Bland's-rule pivots (smallest index among negative
// reduced costs, smallest index ratio-test tie-break) until optimal or
// unbounded. t.obj must already reflect the current basis (reduced costs),
// i.e. the caller has zeroed out basic-variable columns before calling.
func (t *tableau) runSimplex(maxEnterCol int) (unbounded bool) {
	for iter := 0; iter < 20000; iter++ {
		enter := -1
		for j := 0; j < maxEnterCol; j++ {
			if t.obj[j] < -simplexEpsilon {
				enter = j
				break
			}
		}
		if enter == -1 {
			return false
		}

		leave := -1
		bestRatio := math.Inf(1)
		for i, row := range t.rows {
			if row[enter] <= simplexEpsilon {
				continue
			}
			ratio := row[t.numCols-1] / row[enter]
			if ratio < bestRatio-simplexEpsilon {
				bestRatio = ratio
				leave = i
			} else if ratio < bestRatio+simplexEpsilon && leave != -1 && t.basis[i] < t.basis[leave] {
				leave = i
			}
		}
		if leave == -1 {
			return true
		}
		t.pivot(leave, enter)
	}
	return false
}

// objectiveRowFor builds an objective row (to minimize) from structural
// costs, then eliminates basic variables from it so it holds reduced costs
// relative to the tableau's current basis.
func (t *tableau) objectiveRowFor(cost []float64) []float64 {
	row := make([]float64, t.numCols)
	copy(row[:t.n], cost)
	return t.finishObjective(row)
}

// phase1Objective builds the phase-1 objective: minimize the sum of
// artificial variables.
func (t *tableau) phase1Objective() []float64 {
	row := make([]float64, t.numCols)
	for j := t.artStart; j < t.artStart+t.artCount; j++ {
		row[j] = 1
	}
	return t.finishObjective(row)
}

// finishObjective eliminates basic variables from a raw cost row so it
// holds reduced costs relative to the tableau's current basis.
func (t *tableau) finishObjective(row []float64) []float64 {
	t.obj = row
	for i, b := range t.basis {
		factor := t.obj[b]
		if factor == 0 {
			continue
		}
		r := t.rows[i]
		for j := range t.obj {
			t.obj[j] -= factor * r[j]
		}
	}
	return t.obj
}

func (t *tableau) rhsValue(row int) float64 {
	return t.rows[row][t.numCols-1]
}

// solution reads structural variable values (columns 0..n) out of the
// current basis.
func (t *tableau) solution() []float64 {
	x := make([]float64, t.n)
	for i, b := range t.basis {
		if b < t.n {
			x[b] = t.rhsValue(i)
		}
	}
	return x
}
