package genetic

import (
	"math/rand"

	"github.com/maercaestro/oasis/pkg/types"
)

// mutate applies exactly one of the four mutation operators, chosen
// uniformly, then repairs the result. Callers decide whether to mutate at
// all (with probability mutation_rate) before calling this.
func mutate(c Chromosome, recipes []types.BlendingRecipe, cfg Config, rng *rand.Rand) Chromosome {
	out := c.clone()
	if len(out.Days) == 0 || len(recipes) == 0 {
		return out
	}

	switch rng.Intn(4) {
	case 0:
		mutateRecipeChange(out, recipes, cfg, rng)
	case 1:
		mutateChangeoverTiming(out, cfg, rng)
	case 2:
		mutateRateAdjustment(out, recipes, cfg, rng)
	case 3:
		mutateDurationChange(out, cfg, rng)
	}

	repair(out, cfg)
	return out
}

func recipeByName(recipes []types.BlendingRecipe, name string) (types.BlendingRecipe, bool) {
	for _, r := range recipes {
		if r.Name == name {
			return r, true
		}
	}
	return types.BlendingRecipe{}, false
}

// mutateRecipeChange replaces a random contiguous span of 2-8 productive
// hours in a random day with a different recipe.
func mutateRecipeChange(c Chromosome, recipes []types.BlendingRecipe, cfg Config, rng *rand.Rand) {
	d := rng.Intn(len(c.Days))
	day := c.Days[d]
	span := 2 + rng.Intn(7) // 2..8
	if span > len(day) {
		span = len(day)
	}
	start := rng.Intn(len(day) - span + 1)

	replacement := recipes[rng.Intn(len(recipes))]
	if len(recipes) > 1 {
		for replacement.Name == day[start].RecipeName {
			replacement = recipes[rng.Intn(len(recipes))]
		}
	}
	rate := hourlyCeiling(replacement, cfg)
	for h := start; h < start+span; h++ {
		if !day[h].IsProductive() {
			continue
		}
		day[h] = types.HourlyOperation{Hour: h, RecipeName: replacement.Name, ProcessingRate: rate}
	}
}

// mutateChangeoverTiming shifts an existing changeover block by 1-3 hours,
// rebuilding the surrounding productive fill around the new boundary. It
// tries up to len(c.Days) randomly chosen days and is a no-op if none of
// them has a changeover.
func mutateChangeoverTiming(c Chromosome, cfg Config, rng *rand.Rand) {
	for attempt := 0; attempt < len(c.Days); attempt++ {
		d := rng.Intn(len(c.Days))
		day := c.Days[d]
		csStart, csEnd, fromName, fromRate, toName, toRate, ok := findChangeover(day)
		if !ok {
			continue
		}
		width := csEnd - csStart
		delta := 1 + rng.Intn(3)
		if rng.Intn(2) == 0 {
			delta = -delta
		}
		newStart := csStart + delta
		if newStart < 0 {
			newStart = 0
		}
		if newStart+width > len(day) {
			newStart = len(day) - width
		}
		for h := 0; h < newStart; h++ {
			day[h] = types.HourlyOperation{Hour: h, RecipeName: fromName, ProcessingRate: fromRate}
		}
		for h := newStart; h < newStart+width; h++ {
			progress := float64(h-newStart+1) / float64(width)
			day[h] = types.HourlyOperation{Hour: h, IsChangeover: true, ChangeoverFrom: fromName, ChangeoverTo: toName, ChangeoverProgress: progress}
		}
		for h := newStart + width; h < len(day); h++ {
			day[h] = types.HourlyOperation{Hour: h, RecipeName: toName, ProcessingRate: toRate}
		}
		return
	}
}

func findChangeover(day []types.HourlyOperation) (start, end int, fromName string, fromRate float64, toName string, toRate float64, ok bool) {
	for h, op := range day {
		if op.IsChangeover {
			start = h
			end = h + 1
			for end < len(day) && day[end].IsChangeover {
				end++
			}
			fromName = op.ChangeoverFrom
			toName = op.ChangeoverTo
			if start > 0 {
				fromRate = day[start-1].ProcessingRate
			}
			if end < len(day) {
				toRate = day[end].ProcessingRate
			}
			return start, end, fromName, fromRate, toName, toRate, true
		}
	}
	return 0, 0, "", 0, "", 0, false
}

// mutateRateAdjustment scales every productive hour in a random day by
// Uniform(0.9, 1.1), clamped to the recipe's hourly ceiling.
func mutateRateAdjustment(c Chromosome, recipes []types.BlendingRecipe, cfg Config, rng *rand.Rand) {
	d := rng.Intn(len(c.Days))
	day := c.Days[d]
	for h, op := range day {
		if !op.IsProductive() {
			continue
		}
		factor := 0.9 + rng.Float64()*0.2
		rate := op.ProcessingRate * factor
		if recipe, ok := recipeByName(recipes, op.RecipeName); ok {
			if ceiling := hourlyCeiling(recipe, cfg); rate > ceiling {
				rate = ceiling
			}
		}
		day[h].ProcessingRate = rate
	}
}

// mutateDurationChange extends or shortens a recipe run by 1-2 hours.
func mutateDurationChange(c Chromosome, cfg Config, rng *rand.Rand) {
	d := rng.Intn(len(c.Days))
	day := c.Days[d]

	h := 0
	var runs [][2]int
	for h < len(day) {
		if !day[h].IsProductive() {
			h++
			continue
		}
		start := h
		recipe := day[h].RecipeName
		for h+1 < len(day) && day[h+1].IsProductive() && day[h+1].RecipeName == recipe {
			h++
		}
		runs = append(runs, [2]int{start, h})
		h++
	}
	if len(runs) == 0 {
		return
	}
	run := runs[rng.Intn(len(runs))]
	start, end := run[0], run[1]
	recipe := day[start].RecipeName
	rate := day[start].ProcessingRate

	delta := 1 + rng.Intn(2)
	if rng.Intn(2) == 0 {
		delta = -delta
	}

	if delta > 0 {
		newEnd := end + delta
		if newEnd >= len(day) {
			newEnd = len(day) - 1
		}
		for i := end + 1; i <= newEnd; i++ {
			day[i] = types.HourlyOperation{Hour: i, RecipeName: recipe, ProcessingRate: rate}
		}
	} else {
		newEnd := end + delta
		if newEnd < start {
			newEnd = start
		}
		for i := newEnd + 1; i <= end; i++ {
			day[i] = types.HourlyOperation{Hour: i}
		}
	}
}
