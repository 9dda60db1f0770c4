package genetic

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/maercaestro/oasis/pkg/blending"
	"github.com/maercaestro/oasis/pkg/log"
	"github.com/maercaestro/oasis/pkg/metrics"
	"github.com/maercaestro/oasis/pkg/types"
	"golang.org/x/sync/errgroup"
)

// Result is the genetic optimizer's output: the best chromosome found, its
// fitness breakdown, the best-fitness-per-generation convergence history,
// and how many generations actually ran (which may be less than
// cfg.Generations if early termination fired). Success mirrors
// Fitness.Feasible and is carried as its own field so callers serializing
// this result don't need to reach into FitnessResult for the headline
// pass/fail.
type Result struct {
	Best        Chromosome
	Fitness     FitnessResult
	History     []float64
	Generations int
	Success     bool
}

// Optimize runs the population loop described in package doc: tournament
// selection, day-wise crossover, single-operator mutation, and a
// feasibility-gated multi-objective fitness. Falls back to a constant
// highest-margin recipe schedule if no feasible chromosome is ever
// produced across the whole run.
func Optimize(recipes []types.BlendingRecipe, crudes map[string]types.Crude, initialInventory map[string]float64, vesselArrivals map[int]map[string]float64, cfg Config) (*Result, error) {
	logger := log.WithComponent("genetic")

	if len(recipes) == 0 {
		return nil, fmt.Errorf("genetic: no recipes given")
	}
	if cfg.Days <= 0 {
		return nil, fmt.Errorf("genetic: cfg.Days must be positive")
	}

	recipeIndex := make(map[string]types.BlendingRecipe, len(recipes))
	for _, r := range recipes {
		recipeIndex[r.Name] = r
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	eliteSize := cfg.eliteSize()

	population := make([]Chromosome, cfg.PopulationSize)
	for i := range population {
		population[i] = initChromosome(recipes, cfg, rng)
	}

	var history []float64
	var bestEver Chromosome
	var bestEverFitness FitnessResult
	sawFeasible := false
	generationsRun := 0

	for gen := 0; gen < cfg.Generations; gen++ {
		generationsRun = gen + 1
		scores := make([]FitnessResult, len(population))
		var g errgroup.Group
		for i, c := range population {
			i, c := i, c
			g.Go(func() error {
				scores[i] = evaluate(c, initialInventory, vesselArrivals, recipeIndex, crudes, cfg)
				return nil
			})
		}
		_ = g.Wait()

		order := rankOrder(scores)
		bestIdx := order[0]
		if gen == 0 || betterThan(scores[bestIdx], bestEverFitness) {
			bestEver = population[bestIdx].clone()
			bestEverFitness = scores[bestIdx]
		}
		if scores[bestIdx].Feasible {
			sawFeasible = true
		}
		history = append(history, bestEverFitness.Fitness)

		if len(history) >= cfg.EarlyTerminationWindow {
			window := history[len(history)-cfg.EarlyTerminationWindow:]
			if spread(window) < cfg.EarlyTerminationThreshold {
				logger.Info().Int("generation", gen).Msg("genetic optimizer converged, stopping early")
				break
			}
		}

		next := make([]Chromosome, 0, cfg.PopulationSize)
		for i := 0; i < eliteSize && i < len(order); i++ {
			next = append(next, population[order[i]].clone())
		}
		for len(next) < cfg.PopulationSize {
			p1 := tournamentSelect(population, scores, rng)
			p2 := tournamentSelect(population, scores, rng)
			var c1, c2 Chromosome
			if rng.Float64() < cfg.CrossoverRate {
				c1, c2 = crossover(p1, p2, cfg, rng)
			} else {
				c1, c2 = p1.clone(), p2.clone()
			}
			if rng.Float64() < cfg.MutationRate {
				c1 = mutate(c1, recipes, cfg, rng)
			}
			if rng.Float64() < cfg.MutationRate {
				c2 = mutate(c2, recipes, cfg, rng)
			}
			next = append(next, c1)
			if len(next) < cfg.PopulationSize {
				next = append(next, c2)
			}
		}
		population = next
	}

	if !sawFeasible {
		logger.Warn().Msg("genetic optimizer never produced a feasible schedule, falling back to a constant-recipe schedule")
		best := fallbackSchedule(recipes, crudes, initialInventory, cfg)
		fitness := evaluate(best, initialInventory, vesselArrivals, recipeIndex, crudes, cfg)
		metrics.RecordGenetic(fitness.Fitness, fitness.Feasible, generationsRun)
		return &Result{
			Best:        best,
			Fitness:     fitness,
			History:     history,
			Generations: generationsRun,
			Success:     fitness.Feasible,
		}, nil
	}

	metrics.RecordGenetic(bestEverFitness.Fitness, bestEverFitness.Feasible, generationsRun)
	return &Result{
		Best:        bestEver,
		Fitness:     bestEverFitness,
		History:     history,
		Generations: generationsRun,
		Success:     bestEverFitness.Feasible,
	}, nil
}

// betterThan prefers feasible over infeasible, then higher fitness.
func betterThan(a, b FitnessResult) bool {
	if a.Feasible != b.Feasible {
		return a.Feasible
	}
	return a.Fitness > b.Fitness
}

// rankOrder returns population indices sorted best-first: feasible before
// infeasible, then by descending fitness.
func rankOrder(scores []FitnessResult) []int {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return betterThan(scores[order[i]], scores[order[j]])
	})
	return order
}

func spread(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	min, max := values[0], values[0]
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return max - min
}

func tournamentSelect(population []Chromosome, scores []FitnessResult, rng *rand.Rand) Chromosome {
	best := rng.Intn(len(population))
	for i := 1; i < 3; i++ {
		challenger := rng.Intn(len(population))
		if betterThan(scores[challenger], scores[best]) {
			best = challenger
		}
	}
	return population[best]
}

// fallbackSchedule emits a schedule that runs the highest-margin recipe
// whose grades are present in initialInventory, every hour of every day.
func fallbackSchedule(recipes []types.BlendingRecipe, crudes map[string]types.Crude, initialInventory map[string]float64, cfg Config) Chromosome {
	var chosen types.BlendingRecipe
	bestMargin := -1.0
	for _, r := range recipes {
		if initialInventory[r.PrimaryGrade] <= 0 {
			continue
		}
		if r.HasSecondary() && initialInventory[r.SecondaryGrade] <= 0 {
			continue
		}
		if m := blending.Margin(r, crudes); m > bestMargin {
			bestMargin = m
			chosen = r
		}
	}
	if chosen.Name == "" {
		chosen = recipes[0]
	}

	rate := hourlyCeiling(chosen, cfg)
	c := Chromosome{Days: make([][]types.HourlyOperation, cfg.Days)}
	for d := range c.Days {
		day := make([]types.HourlyOperation, 24)
		for h := range day {
			day[h] = types.HourlyOperation{Hour: h, RecipeName: chosen.Name, ProcessingRate: rate}
		}
		c.Days[d] = day
	}
	return c
}
