package blending

import (
	"math"
	"sort"

	"github.com/maercaestro/oasis/pkg/types"
)

// BlendAllocation is one entry of a blend-selection result: the recipe
// chosen, its margin, and the rate allocated to it for the day.
type BlendAllocation struct {
	Recipe types.BlendingRecipe
	Margin float64
	Rate   float64
}

// Margin returns the per-kb margin of a recipe given crude reference data.
// Unknown grades contribute zero — callers are expected to have validated
// grade references at construction time.
func Margin(recipe types.BlendingRecipe, crudes map[string]types.Crude) float64 {
	margin := 0.0
	if c, ok := crudes[recipe.PrimaryGrade]; ok {
		margin += c.Margin * recipe.PrimaryFraction
	}
	if recipe.HasSecondary() {
		if c, ok := crudes[recipe.SecondaryGrade]; ok {
			margin += c.Margin * recipe.SecondaryFraction()
		}
	}
	return margin
}

// availableVolume sums the volume of grade across every tank.
func availableVolume(tanks map[string]*types.Tank, grade string) float64 {
	total := 0.0
	for _, tank := range tanks {
		if v, ok := tank.Content.Get(grade); ok {
			total += v
		}
	}
	return total
}

// MaxFeasibleRate is the largest daily rate the recipe could run at given
// current tank inventory, bounded by whichever grade runs out first. A
// zero fraction for a side of the blend is treated as unbounded on that
// side (+Inf), matching the reference's "divide by primary_fraction"
// convention.
func MaxFeasibleRate(recipe types.BlendingRecipe, tanks map[string]*types.Tank) float64 {
	primaryAvailable := availableVolume(tanks, recipe.PrimaryGrade)
	rate := rateBound(primaryAvailable, recipe.PrimaryFraction)

	if recipe.HasSecondary() {
		secondaryAvailable := availableVolume(tanks, recipe.SecondaryGrade)
		secondaryRate := rateBound(secondaryAvailable, recipe.SecondaryFraction())
		if secondaryRate < rate {
			rate = secondaryRate
		}
	}
	return rate
}

func rateBound(available, fraction float64) float64 {
	if fraction <= 0 {
		return math.Inf(1)
	}
	return available / fraction
}

// Compatible reports whether the recipe's full max_rate could be run at
// least once against the tanks as they currently stand.
func Compatible(recipe types.BlendingRecipe, tanks map[string]*types.Tank) bool {
	primaryNeeded := recipe.MaxRate * recipe.PrimaryFraction
	if availableVolume(tanks, recipe.PrimaryGrade) < primaryNeeded {
		return false
	}
	if recipe.HasSecondary() {
		secondaryNeeded := recipe.MaxRate * recipe.SecondaryFraction()
		if availableVolume(tanks, recipe.SecondaryGrade) < secondaryNeeded {
			return false
		}
	}
	return true
}

// FindOptimalBlends ranks recipes by margin (descending, stable on the
// input order of recipes) and greedily allocates processing capacity to
// each in turn until the daily capacity is exhausted. Recipes with zero
// feasible rate are dropped; a non-positive capacity yields no allocations.
func FindOptimalBlends(recipes []types.BlendingRecipe, crudes map[string]types.Crude, tanks map[string]*types.Tank, capacity float64) []BlendAllocation {
	if capacity <= 0 {
		return nil
	}

	type candidate struct {
		recipe      types.BlendingRecipe
		margin      float64
		feasibleMax float64
	}

	candidates := make([]candidate, 0, len(recipes))
	for _, r := range recipes {
		feasible := MaxFeasibleRate(r, tanks)
		if feasible <= 0 {
			continue
		}
		candidates = append(candidates, candidate{
			recipe:      r,
			margin:      Margin(r, crudes),
			feasibleMax: feasible,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].margin > candidates[j].margin
	})

	remaining := capacity
	allocations := make([]BlendAllocation, 0, len(candidates))
	for _, c := range candidates {
		if remaining <= 0 {
			break
		}
		rate := c.recipe.MaxRate
		if c.feasibleMax < rate {
			rate = c.feasibleMax
		}
		if remaining < rate {
			rate = remaining
		}
		if rate <= 0 {
			continue
		}
		allocations = append(allocations, BlendAllocation{Recipe: c.recipe, Margin: c.margin, Rate: rate})
		remaining -= rate
	}
	return allocations
}
