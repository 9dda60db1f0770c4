package genetic

import (
	"math/rand"

	"github.com/maercaestro/oasis/pkg/types"
)

// Weights controls the relative importance of each fitness component.
type Weights struct {
	Margin      float64
	Throughput  float64
	Operational float64
}

// Config tunes chromosome structure, population dynamics, and fitness
// weighting.
type Config struct {
	Days                      int
	MaxDailyCapacity          float64
	ChangeoverDurationHours   int
	MinRecipeRunHours         int
	PopulationSize            int
	Generations               int
	CrossoverRate             float64
	MutationRate              float64
	Weights                   Weights
	EarlyTerminationWindow    int
	EarlyTerminationThreshold float64
	Seed                      int64
}

// DefaultConfig mirrors the reference implementation's defaults, with the
// horizon and daily capacity taken from the caller: population 50, elite size derived as max(5, P/10), crossover
// 0.8, mutation 0.1, 100 generations, and the {0.5, 0.3, 0.2} weighting.
func DefaultConfig(days int, maxDailyCapacity float64) Config {
	return Config{
		Days:                      days,
		MaxDailyCapacity:          maxDailyCapacity,
		ChangeoverDurationHours:   2,
		MinRecipeRunHours:         4,
		PopulationSize:            50,
		Generations:               100,
		CrossoverRate:             0.8,
		MutationRate:              0.1,
		Weights:                   Weights{Margin: 0.5, Throughput: 0.3, Operational: 0.2},
		EarlyTerminationWindow:    10,
		EarlyTerminationThreshold: 0.1,
		Seed:                      42,
	}
}

func (c Config) eliteSize() int {
	e := c.PopulationSize / 10
	if e < 5 {
		e = 5
	}
	if e > c.PopulationSize {
		e = c.PopulationSize
	}
	return e
}

// Chromosome is a full schedule: one 24-slot day per entry.
type Chromosome struct {
	Days [][]types.HourlyOperation
}

func (c Chromosome) clone() Chromosome {
	out := Chromosome{Days: make([][]types.HourlyOperation, len(c.Days))}
	for i, day := range c.Days {
		out.Days[i] = append([]types.HourlyOperation(nil), day...)
	}
	return out
}

func hourlyCeiling(r types.BlendingRecipe, cfg Config) float64 {
	ceiling := cfg.MaxDailyCapacity / 24
	if hourly := r.MaxRate / 24; hourly < ceiling {
		ceiling = hourly
	}
	return ceiling
}

// initChromosome builds one random chromosome: each day independently picks
// one or two recipes per the reference's initialization rule.
func initChromosome(recipes []types.BlendingRecipe, cfg Config, rng *rand.Rand) Chromosome {
	c := Chromosome{Days: make([][]types.HourlyOperation, cfg.Days)}
	for d := 0; d < cfg.Days; d++ {
		c.Days[d] = initDay(recipes, cfg, rng)
	}
	return c
}

func initDay(recipes []types.BlendingRecipe, cfg Config, rng *rand.Rand) []types.HourlyOperation {
	day := make([]types.HourlyOperation, 24)
	if len(recipes) == 0 {
		for h := range day {
			day[h] = types.HourlyOperation{Hour: h}
		}
		return day
	}

	r1 := recipes[rng.Intn(len(recipes))]
	twoRecipes := len(recipes) > 1 && rng.Intn(2) == 0
	if !twoRecipes {
		rate := hourlyCeiling(r1, cfg)
		for h := 0; h < 24; h++ {
			day[h] = types.HourlyOperation{Hour: h, RecipeName: r1.Name, ProcessingRate: rate}
		}
		return day
	}

	r2 := recipes[rng.Intn(len(recipes))]
	for r2.Name == r1.Name && len(recipes) > 1 {
		r2 = recipes[rng.Intn(len(recipes))]
	}

	changeStart := 6 + rng.Intn(13) // random hour in [6, 18]
	changeEnd := changeStart + cfg.ChangeoverDurationHours
	if changeEnd > 24 {
		changeEnd = 24
	}

	rate1 := hourlyCeiling(r1, cfg)
	rate2 := hourlyCeiling(r2, cfg)
	for h := 0; h < 24; h++ {
		switch {
		case h < changeStart:
			day[h] = types.HourlyOperation{Hour: h, RecipeName: r1.Name, ProcessingRate: rate1}
		case h < changeEnd:
			progress := float64(h-changeStart+1) / float64(changeEnd-changeStart)
			day[h] = types.HourlyOperation{
				Hour: h, IsChangeover: true,
				ChangeoverFrom: r1.Name, ChangeoverTo: r2.Name, ChangeoverProgress: progress,
			}
		default:
			day[h] = types.HourlyOperation{Hour: h, RecipeName: r2.Name, ProcessingRate: rate2}
		}
	}
	return day
}
