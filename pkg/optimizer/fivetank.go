package optimizer

import (
	"fmt"
	"sort"

	"github.com/maercaestro/oasis/pkg/metrics"
	"github.com/maercaestro/oasis/pkg/solver"
	"github.com/maercaestro/oasis/pkg/types"
)

// FiveTankNames and FiveTankCapacities fix the explicit tank bank the
// quality-constrained variant always uses: T1-T4 at 250,000 bbl, T5 at
// 180,000 bbl.
var (
	FiveTankNames      = []string{"T1", "T2", "T3", "T4", "T5"}
	FiveTankCapacities = map[string]float64{"T1": 250000, "T2": 250000, "T3": 250000, "T4": 250000, "T5": 180000}
)

// DistributeOpeningInventory pre-distributes each crude's opening
// inventory across the five tanks: grades are placed in sorted order (for
// a reproducible layout across runs), each filling tanks in order (T1, T2,
// ...) up to 80% of their capacity; any volume left over once every tank
// has reached 80% spills into the tanks' remaining headroom to 100%,
// proportional to each tank's remaining headroom. Headroom is tracked cumulatively across
// grades, so two grades sharing a tank can never push it past capacity.
// If the total opening inventory exceeds the five tanks' combined
// capacity, the excess is left undistributed; callers are expected to
// keep opening inventory within FiveTankCapacities' sum.
func DistributeOpeningInventory(openingInventoryByGrade map[string]float64) map[string]map[string]float64 {
	const fillFraction = 0.8

	grades := make([]string, 0, len(openingInventoryByGrade))
	for g := range openingInventoryByGrade {
		grades = append(grades, g)
	}
	sort.Strings(grades)

	dist := make(map[string]map[string]float64, len(FiveTankNames))
	used := make(map[string]float64, len(FiveTankNames))
	for _, t := range FiveTankNames {
		dist[t] = make(map[string]float64)
	}

	for _, grade := range grades {
		remaining := openingInventoryByGrade[grade]

		for _, tank := range FiveTankNames {
			if remaining <= 0 {
				break
			}
			headroom := FiveTankCapacities[tank]*fillFraction - used[tank]
			if headroom <= 0 {
				continue
			}
			fill := remaining
			if fill > headroom {
				fill = headroom
			}
			dist[tank][grade] += fill
			used[tank] += fill
			remaining -= fill
		}

		if remaining <= 0 {
			continue
		}

		totalHeadroom := 0.0
		headroom := make(map[string]float64, len(FiveTankNames))
		for _, tank := range FiveTankNames {
			h := FiveTankCapacities[tank] - used[tank]
			if h < 0 {
				h = 0
			}
			headroom[tank] = h
			totalHeadroom += h
		}
		if totalHeadroom <= 0 {
			continue
		}
		for _, tank := range FiveTankNames {
			if headroom[tank] <= 0 {
				continue
			}
			share := remaining * (headroom[tank] / totalHeadroom)
			if share > headroom[tank] {
				share = headroom[tank]
			}
			dist[tank][grade] += share
			used[tank] += share
		}
	}
	return dist
}

// FiveTankResult is one day of the quality-constrained variant's solution.
type FiveTankResult struct {
	Day             int
	TankInventory   map[string]map[string]float64 // tank -> grade -> volume
	BlendProduction map[string]float64            // blend -> volume
	GrossProfit     float64
}

func tankInvVar(tank, crude string, day int) string {
	return fmt.Sprintf("tankinv_%s_%s_d%d", tank, crude, day)
}
func tankInflowVar(tank, crude string, day int) string {
	return fmt.Sprintf("inflow_%s_%s_d%d", tank, crude, day)
}
func blendFromTankVar(tank, crude, blend string, day int) string {
	return fmt.Sprintf("bft_%s_%s_%s_d%d", tank, crude, blend, day)
}
func blendProdVar(blend string, day int) string {
	return fmt.Sprintf("prod_%s_d%d", blend, day)
}

// OptimizeFiveTank solves the quality-constrained 5-tank variant of the
// refinement LP: explicit per-tank capacity and
// balance constraints, per-blend API/sulfur quality windows enforced as
// volume-weighted mixture bounds, and an objective of gross profit (blend
// revenue minus crude purchase cost) rather than throughput or margin.
//
// deliveries is the exogenous per-day, per-grade volume arriving from
// vessels — this variant decides which tank each delivery lands in, but
// not whether a vessel is deployed at all; vessel selection is the vessel
// optimizer's job (§4.6), not this LP's.
func OptimizeFiveTank(days int, crudes map[string]types.Crude, products map[string]types.Product, openingInventoryByGrade map[string]float64, deliveries map[int]map[string]float64, maxProcessingRate float64, cfg Config) ([]FiveTankResult, error) {
	opening := DistributeOpeningInventory(openingInventoryByGrade)

	grades := make([]string, 0, len(crudes))
	for g := range crudes {
		grades = append(grades, g)
	}
	sort.Strings(grades)
	blends := make([]string, 0, len(products))
	for b := range products {
		blends = append(blends, b)
	}
	sort.Strings(blends)

	p := solver.NewProblem()

	for _, tank := range FiveTankNames {
		for _, g := range grades {
			p.AddVariable(tankInvVar(tank, g, 0), opening[tank][g], opening[tank][g], solver.Continuous)
			for day := 1; day <= days; day++ {
				p.AddVariable(tankInvVar(tank, g, day), 0, FiveTankCapacities[tank], solver.Continuous)
				p.AddVariable(tankInflowVar(tank, g, day), 0, posInf, solver.Continuous)
			}
		}
	}
	for _, tank := range FiveTankNames {
		for _, g := range grades {
			for _, b := range blends {
				for day := 1; day <= days; day++ {
					p.AddVariable(blendFromTankVar(tank, g, b, day), 0, posInf, solver.Continuous)
				}
			}
		}
	}
	for _, b := range blends {
		for day := 1; day <= days; day++ {
			p.AddVariable(blendProdVar(b, day), 0, products[b].MaxPerDay, solver.Continuous)
		}
	}

	// Per-tank capacity.
	for _, tank := range FiveTankNames {
		for day := 0; day <= days; day++ {
			coeffs := make(map[string]float64, len(grades))
			for _, g := range grades {
				coeffs[tankInvVar(tank, g, day)] = 1
			}
			p.AddConstraint(fmt.Sprintf("cap_%s_d%d", tank, day), coeffs, solver.LE, FiveTankCapacities[tank])
		}
	}

	// Per-tank, per-grade inventory balance.
	for _, tank := range FiveTankNames {
		for _, g := range grades {
			for day := 1; day <= days; day++ {
				coeffs := map[string]float64{
					tankInvVar(tank, g, day):    -1,
					tankInvVar(tank, g, day-1):  1,
					tankInflowVar(tank, g, day): 1,
				}
				for _, b := range blends {
					coeffs[blendFromTankVar(tank, g, b, day)] -= 1
				}
				p.AddConstraint(fmt.Sprintf("bal_%s_%s_d%d", tank, g, day), coeffs, solver.EQ, 0)
			}
		}
	}

	// Exogenous deliveries land in whichever tanks the LP chooses.
	for _, g := range grades {
		for day := 1; day <= days; day++ {
			coeffs := make(map[string]float64, len(FiveTankNames))
			for _, tank := range FiveTankNames {
				coeffs[tankInflowVar(tank, g, day)] = 1
			}
			delivered := 0.0
			if byGrade, ok := deliveries[day]; ok {
				delivered = byGrade[g]
			}
			p.AddConstraint(fmt.Sprintf("inflow_%s_d%d", g, day), coeffs, solver.EQ, delivered)
		}
	}

	// Blend production definition and capacity.
	for _, b := range blends {
		for day := 1; day <= days; day++ {
			coeffs := map[string]float64{blendProdVar(b, day): -1}
			for _, tank := range FiveTankNames {
				for _, g := range grades {
					coeffs[blendFromTankVar(tank, g, b, day)] = 1
				}
			}
			p.AddConstraint(fmt.Sprintf("proddef_%s_d%d", b, day), coeffs, solver.EQ, 0)
		}
	}

	// Quality windows, enforced unconditionally (see DESIGN.md for why the
	// reference's "skip when production is zero" guard never actually
	// fires and is not worth reproducing).
	for _, b := range blends {
		spec := products[b]
		for day := 1; day <= days; day++ {
			apiCoeffs := make(map[string]float64)
			sulfurCoeffs := make(map[string]float64)
			for _, tank := range FiveTankNames {
				for _, g := range grades {
					v := blendFromTankVar(tank, g, b, day)
					apiCoeffs[v] = crudes[g].API
					sulfurCoeffs[v] = crudes[g].Sulfur
				}
			}
			minAPI := cloneCoeffs(apiCoeffs)
			minAPI[blendProdVar(b, day)] = -spec.MinAPI
			p.AddConstraint(fmt.Sprintf("apimin_%s_d%d", b, day), minAPI, solver.GE, 0)

			maxAPI := cloneCoeffs(apiCoeffs)
			maxAPI[blendProdVar(b, day)] = -spec.MaxAPI
			p.AddConstraint(fmt.Sprintf("apimax_%s_d%d", b, day), maxAPI, solver.LE, 0)

			minSulfur := cloneCoeffs(sulfurCoeffs)
			minSulfur[blendProdVar(b, day)] = -spec.MinSulfur
			p.AddConstraint(fmt.Sprintf("sulfurmin_%s_d%d", b, day), minSulfur, solver.GE, 0)

			maxSulfur := cloneCoeffs(sulfurCoeffs)
			maxSulfur[blendProdVar(b, day)] = -spec.MaxSulfur
			p.AddConstraint(fmt.Sprintf("sulfurmax_%s_d%d", b, day), maxSulfur, solver.LE, 0)
		}
	}

	// Overall refinery capacity.
	for day := 1; day <= days; day++ {
		coeffs := make(map[string]float64, len(blends))
		for _, b := range blends {
			coeffs[blendProdVar(b, day)] = 1
		}
		p.AddConstraint(fmt.Sprintf("refcap_d%d", day), coeffs, solver.LE, maxProcessingRate)
	}

	// Gross profit: blend revenue minus crude purchase cost (vessel
	// deployment cost is sunk here; see OptimizeFiveTank's doc comment).
	objCoeffs := make(map[string]float64)
	for _, b := range blends {
		for day := 1; day <= days; day++ {
			objCoeffs[blendProdVar(b, day)] += products[b].Price
		}
	}
	for _, tank := range FiveTankNames {
		for _, g := range grades {
			for day := 1; day <= days; day++ {
				objCoeffs[tankInflowVar(tank, g, day)] -= crudes[g].PurchasePrice
			}
		}
	}
	p.Objective = solver.Objective{Coeffs: objCoeffs, Maximize: true}

	h, err := solver.Build(p)
	if err != nil {
		return nil, fmt.Errorf("optimizer: five-tank variant: %w", err)
	}
	timer := metrics.NewTimer()
	result, err := solver.Solve(h, cfg.TimeLimit, cfg.RelativeGap)
	timer.ObserveDurationVec(metrics.SolverWallClock, "five_tank")
	if err != nil {
		return nil, fmt.Errorf("optimizer: five-tank variant: %w", err)
	}
	metrics.SolverStatusTotal.WithLabelValues("five_tank", result.Status.String()).Inc()
	metrics.SolverRelativeGap.WithLabelValues("five_tank").Set(result.Gap)
	if result.Status != solver.StatusOptimal && result.Status != solver.StatusSubOptimal {
		return nil, fmt.Errorf("optimizer: five-tank variant solve status %s", result.Status)
	}

	values := result.Values
	out := make([]FiveTankResult, 0, days)
	for day := 1; day <= days; day++ {
		inv := make(map[string]map[string]float64, len(FiveTankNames))
		for _, tank := range FiveTankNames {
			inv[tank] = make(map[string]float64)
			for _, g := range grades {
				v := values[tankInvVar(tank, g, day)]
				if v > 0.001 {
					inv[tank][g] = v
				}
			}
		}
		prod := make(map[string]float64)
		dayProfit := 0.0
		for _, b := range blends {
			v := values[blendProdVar(b, day)]
			if v > 0.001 {
				prod[b] = v
			}
			dayProfit += v * products[b].Price
		}
		for _, tank := range FiveTankNames {
			for _, g := range grades {
				dayProfit -= values[tankInflowVar(tank, g, day)] * crudes[g].PurchasePrice
			}
		}
		out = append(out, FiveTankResult{Day: day, TankInventory: inv, BlendProduction: prod, GrossProfit: dayProfit})
	}
	return out, nil
}

func cloneCoeffs(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}
