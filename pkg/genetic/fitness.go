package genetic

import (
	"fmt"

	"github.com/maercaestro/oasis/pkg/blending"
	"github.com/maercaestro/oasis/pkg/types"
)

// FitnessResult is one chromosome's evaluation: the weighted-sum fitness
// plus its components, and whether the feasibility simulation found a
// grade going negative.
type FitnessResult struct {
	Fitness          float64
	Feasible         bool
	PenaltyReason    string
	MarginScore      float64
	ThroughputScore  float64
	OperationalScore float64
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// evaluate runs the feasibility simulation and, if it survives, scores the
// chromosome. vesselArrivals maps a 1-based day number to grade->volume
// delivered at the start of that day.
func evaluate(c Chromosome, initialInventory map[string]float64, vesselArrivals map[int]map[string]float64, recipes map[string]types.BlendingRecipe, crudes map[string]types.Crude, cfg Config) FitnessResult {
	inventory := make(map[string]float64, len(initialInventory))
	for g, v := range initialInventory {
		inventory[g] = v
	}

	marginSum, throughputSum := 0.0, 0.0
	changeoverHours, recipeSwitches, idleHours := 0, 0, 0
	lastRecipe := ""

	for d, day := range c.Days {
		if arrivals, ok := vesselArrivals[d+1]; ok {
			for g, v := range arrivals {
				inventory[g] += v
			}
		}

		for h, op := range day {
			if op.IsChangeover {
				changeoverHours++
				lastRecipe = ""
				continue
			}
			if !op.IsProductive() {
				idleHours++
				lastRecipe = ""
				continue
			}

			recipe, ok := recipes[op.RecipeName]
			if !ok {
				idleHours++
				continue
			}
			if lastRecipe != "" && lastRecipe != op.RecipeName {
				recipeSwitches++
			}
			lastRecipe = op.RecipeName

			primaryConsumed := op.ProcessingRate * recipe.PrimaryFraction
			inventory[recipe.PrimaryGrade] -= primaryConsumed
			if inventory[recipe.PrimaryGrade] < -1e-6 {
				return FitnessResult{
					Fitness:       -1000,
					Feasible:      false,
					PenaltyReason: fmt.Sprintf("day %d hour %d: %s would go negative", d+1, h, recipe.PrimaryGrade),
				}
			}
			if recipe.HasSecondary() {
				secondaryConsumed := op.ProcessingRate * recipe.SecondaryFraction()
				inventory[recipe.SecondaryGrade] -= secondaryConsumed
				if inventory[recipe.SecondaryGrade] < -1e-6 {
					return FitnessResult{
						Fitness:       -1000,
						Feasible:      false,
						PenaltyReason: fmt.Sprintf("day %d hour %d: %s would go negative", d+1, h, recipe.SecondaryGrade),
					}
				}
			}

			marginSum += op.ProcessingRate * blending.Margin(recipe, crudes)
			throughputSum += op.ProcessingRate
		}
	}

	marginScore := clamp(marginSum/1000, 0, 100)
	throughputScore := 0.0
	if cfg.MaxDailyCapacity > 0 && len(c.Days) > 0 {
		throughputScore = 100 * throughputSum / (cfg.MaxDailyCapacity * float64(len(c.Days)))
	}
	operationalScore := 100 - 2*float64(changeoverHours) - 5*float64(recipeSwitches) - float64(idleHours)
	if operationalScore < 0 {
		operationalScore = 0
	}

	fitness := cfg.Weights.Margin*marginScore + cfg.Weights.Throughput*throughputScore + cfg.Weights.Operational*operationalScore

	return FitnessResult{
		Fitness:          fitness,
		Feasible:         true,
		MarginScore:      marginScore,
		ThroughputScore:  throughputScore,
		OperationalScore: operationalScore,
	}
}
