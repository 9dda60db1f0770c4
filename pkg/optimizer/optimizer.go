package optimizer

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/maercaestro/oasis/pkg/blending"
	"github.com/maercaestro/oasis/pkg/log"
	"github.com/maercaestro/oasis/pkg/metrics"
	"github.com/maercaestro/oasis/pkg/solver"
	"github.com/maercaestro/oasis/pkg/types"
)

var posInf = math.Inf(1)

// Objective is what the LP refinement maximizes over the planning horizon.
type Objective int

const (
	Throughput Objective = iota
	Margin
)

// Config tunes the LP refiner's solver and optional schedule-stability
// behavior.
type Config struct {
	TimeLimit   time.Duration
	RelativeGap float64

	// EnableDeviationLimit bounds each recipe the input schedule ran on a
	// day to within a MaxDeviation fraction of its input rate; recipes the
	// input did not run that day are not bounded. Off by
	// default: the reference implementation wired this block but never
	// turned it on, so the refiner is free to deviate as far from the
	// greedy schedule as the model allows.
	EnableDeviationLimit bool
	MaxDeviation         float64
}

// DefaultConfig mirrors the reference implementation's defaults: a 3000s
// solver time limit, a 5% MIP gap (unused here since the LP is pure
// continuous, but kept for symmetry with the vessel optimizer's Config),
// and no deviation limit.
func DefaultConfig() Config {
	return Config{TimeLimit: 3000 * time.Second, RelativeGap: 0.05}
}

func rateVarName(day int, recipe string) string     { return fmt.Sprintf("rate_d%d_%s", day, recipe) }
func inventoryVarName(day int, grade string) string { return fmt.Sprintf("inv_d%d_%s", day, grade) }

// Optimize re-solves existingSchedule's horizon as a single multi-period LP
// and returns a new schedule maximizing objective. If the solver doesn't
// reach optimality, existingSchedule is returned unchanged.
func Optimize(existingSchedule []*types.DailyPlan, vessels []*types.Vessel, recipes []types.BlendingRecipe, crudes map[string]types.Crude, maxRate float64, objective Objective, cfg Config) ([]*types.DailyPlan, error) {
	logger := log.WithComponent("optimizer")

	if len(existingSchedule) == 0 {
		return nil, fmt.Errorf("optimizer: existing schedule is empty")
	}
	days := len(existingSchedule)
	grades := allGrades(existingSchedule, vessels, recipes)

	p := solver.NewProblem()
	for day := 1; day <= days; day++ {
		for _, r := range recipes {
			p.AddVariable(rateVarName(day, r.Name), 0, r.MaxRate, solver.Continuous)
		}
	}
	for day := 0; day <= days; day++ {
		for _, g := range grades {
			p.AddVariable(inventoryVarName(day, g), 0, posInf, solver.Continuous)
		}
	}

	for _, g := range grades {
		initial := existingSchedule[0].InventoryByGrade[g]
		p.AddConstraint("initial_"+g, map[string]float64{inventoryVarName(0, g): 1}, solver.EQ, initial)
	}

	deliveriesByDayGrade := deliveryTotals(vessels, days)

	for day := 1; day <= days; day++ {
		for _, g := range grades {
			coeffs := map[string]float64{
				inventoryVarName(day-1, g): 1,
				inventoryVarName(day, g):   -1,
			}
			for _, r := range recipes {
				if r.PrimaryGrade == g {
					coeffs[rateVarName(day, r.Name)] -= r.PrimaryFraction
				}
				if r.HasSecondary() && r.SecondaryGrade == g {
					coeffs[rateVarName(day, r.Name)] -= r.SecondaryFraction()
				}
			}
			rhs := -deliveriesByDayGrade[dayGradeKey{day, g}]
			p.AddConstraint(fmt.Sprintf("balance_d%d_%s", day, g), coeffs, solver.EQ, rhs)
		}
	}

	for day := 1; day <= days; day++ {
		coeffs := make(map[string]float64, len(recipes))
		for _, r := range recipes {
			coeffs[rateVarName(day, r.Name)] = 1
		}
		p.AddConstraint(fmt.Sprintf("capacity_d%d", day), coeffs, solver.LE, maxRate)
	}

	for day := 1; day <= days; day++ {
		for _, r := range recipes {
			if hasGrade(grades, r.PrimaryGrade) {
				p.AddConstraint(fmt.Sprintf("primary_avail_d%d_%s", day, r.Name),
					map[string]float64{
						rateVarName(day, r.Name):                r.PrimaryFraction,
						inventoryVarName(day-1, r.PrimaryGrade): -1,
					}, solver.LE, 0)
			}
			if r.HasSecondary() && hasGrade(grades, r.SecondaryGrade) {
				p.AddConstraint(fmt.Sprintf("secondary_avail_d%d_%s", day, r.Name),
					map[string]float64{
						rateVarName(day, r.Name):                  r.SecondaryFraction(),
						inventoryVarName(day-1, r.SecondaryGrade): -1,
					}, solver.LE, 0)
			}
		}
	}

	if cfg.EnableDeviationLimit && cfg.MaxDeviation > 0 {
		for day := 1; day <= days; day++ {
			original := existingSchedule[day-1].ProcessingRates
			for _, r := range recipes {
				originalRate := original[r.Name]
				if originalRate <= 0 {
					continue
				}
				name := rateVarName(day, r.Name)
				p.AddConstraint(fmt.Sprintf("min_dev_d%d_%s", day, r.Name), map[string]float64{name: 1}, solver.GE, originalRate*(1-cfg.MaxDeviation))
				p.AddConstraint(fmt.Sprintf("max_dev_d%d_%s", day, r.Name), map[string]float64{name: 1}, solver.LE, originalRate*(1+cfg.MaxDeviation))
			}
		}
	}

	objCoeffs := make(map[string]float64)
	for day := 1; day <= days; day++ {
		for _, r := range recipes {
			switch objective {
			case Throughput:
				objCoeffs[rateVarName(day, r.Name)] += 1
			case Margin:
				objCoeffs[rateVarName(day, r.Name)] += blending.Margin(r, crudes)
			}
		}
	}
	p.Objective = solver.Objective{Coeffs: objCoeffs, Maximize: true}

	h, err := solver.Build(p)
	if err != nil {
		return nil, fmt.Errorf("optimizer: %w", err)
	}
	timer := metrics.NewTimer()
	result, err := solver.Solve(h, cfg.TimeLimit, cfg.RelativeGap)
	timer.ObserveDurationVec(metrics.SolverWallClock, "lp_refiner")
	if err != nil {
		return nil, fmt.Errorf("optimizer: %w", err)
	}
	metrics.SolverStatusTotal.WithLabelValues("lp_refiner", result.Status.String()).Inc()
	metrics.SolverRelativeGap.WithLabelValues("lp_refiner").Set(result.Gap)
	if result.Status != solver.StatusOptimal && result.Status != solver.StatusSubOptimal {
		logger.Warn().Str("status", result.Status.String()).Msg("LP refinement did not reach optimal status, returning input schedule unchanged")
		return existingSchedule, nil
	}

	values := result.Values
	plans := make([]*types.DailyPlan, 0, days)
	for day := 1; day <= days; day++ {
		processingRates := make(map[string]float64)
		var blendingDetails []types.BlendingRecipe
		for _, r := range recipes {
			rate := values[rateVarName(day, r.Name)]
			if rate > 0.001 {
				processingRates[r.Name] = rate
				blendingDetails = append(blendingDetails, r)
			}
		}

		inventoryByGrade := make(map[string]float64)
		for _, g := range grades {
			v := values[inventoryVarName(day, g)]
			if v > 0.001 {
				inventoryByGrade[g] = v
			}
		}
		totalInventory := 0.0
		for _, v := range inventoryByGrade {
			totalInventory += v
		}

		adjustedTanks := ReconstructTanks(existingSchedule[day-1].Tanks, inventoryByGrade)

		margin := 0.0
		for _, r := range blendingDetails {
			margin += processingRates[r.Name] * blending.Margin(r, crudes)
		}

		plans = append(plans, &types.DailyPlan{
			Day:              day,
			ProcessingRates:  processingRates,
			BlendingDetails:  blendingDetails,
			Inventory:        totalInventory,
			InventoryByGrade: inventoryByGrade,
			Tanks:            adjustedTanks,
			DailyMargin:      margin,
		})
	}

	return plans, nil
}

type dayGradeKey struct {
	day   int
	grade string
}

func deliveryTotals(vessels []*types.Vessel, days int) map[dayGradeKey]float64 {
	totals := make(map[dayGradeKey]float64)
	for _, v := range vessels {
		if v.ArrivalDay < 1 || v.ArrivalDay > days {
			continue
		}
		for _, parcel := range v.Cargo {
			totals[dayGradeKey{v.ArrivalDay, parcel.Grade}] += parcel.Volume
		}
	}
	return totals
}

func allGrades(schedule []*types.DailyPlan, vessels []*types.Vessel, recipes []types.BlendingRecipe) []string {
	set := make(map[string]struct{})
	for _, r := range recipes {
		if r.PrimaryGrade != "" {
			set[r.PrimaryGrade] = struct{}{}
		}
		if r.HasSecondary() {
			set[r.SecondaryGrade] = struct{}{}
		}
	}
	for _, plan := range schedule {
		for g := range plan.InventoryByGrade {
			set[g] = struct{}{}
		}
	}
	for _, v := range vessels {
		for _, parcel := range v.Cargo {
			set[parcel.Grade] = struct{}{}
		}
	}
	grades := make([]string, 0, len(set))
	for g := range set {
		grades = append(grades, g)
	}
	sort.Strings(grades)
	return grades
}

func hasGrade(grades []string, grade string) bool {
	for _, g := range grades {
		if g == grade {
			return true
		}
	}
	return false
}
