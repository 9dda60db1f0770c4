package genetic

import (
	"math/rand"
	"testing"

	"github.com/maercaestro/oasis/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecipes() []types.BlendingRecipe {
	return []types.BlendingRecipe{
		{Name: "rich", PrimaryGrade: "LIGHT", MaxRate: 48000, PrimaryFraction: 1.0},
		{Name: "blend", PrimaryGrade: "LIGHT", SecondaryGrade: "HEAVY", MaxRate: 48000, PrimaryFraction: 0.6},
	}
}

func testCrudes() map[string]types.Crude {
	return map[string]types.Crude{
		"LIGHT": {Name: "LIGHT", Margin: 8.0},
		"HEAVY": {Name: "HEAVY", Margin: 4.0},
	}
}

func smallConfig() Config {
	cfg := DefaultConfig(2, 48000)
	cfg.PopulationSize = 10
	cfg.Generations = 5
	return cfg
}

func TestOptimize_ProducesFeasibleScheduleWithAmpleInventory(t *testing.T) {
	inventory := map[string]float64{"LIGHT": 5_000_000, "HEAVY": 5_000_000}

	result, err := Optimize(testRecipes(), testCrudes(), inventory, nil, smallConfig())
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.Fitness.Feasible)
	assert.Len(t, result.Best.Days, 2)
	assert.NotEmpty(t, result.History)
}

func TestOptimize_FallsBackWhenInventoryCannotSustainAnyRecipe(t *testing.T) {
	inventory := map[string]float64{}

	result, err := Optimize(testRecipes(), testCrudes(), inventory, nil, smallConfig())
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.Fitness.Feasible, "every hour consumes from an empty tank, so the simulation must reject it")
}

func TestRepair_ExtendsShortRunsAndCapsDailyTotal(t *testing.T) {
	cfg := DefaultConfig(1, 100)
	cfg.MinRecipeRunHours = 4
	day := make([]types.HourlyOperation, 24)
	for h := range day {
		day[h] = types.HourlyOperation{Hour: h, RecipeName: "rich", ProcessingRate: 10}
	}
	day[10] = types.HourlyOperation{Hour: 10, RecipeName: "other", ProcessingRate: 10}
	day[11] = types.HourlyOperation{Hour: 11, RecipeName: "rich", ProcessingRate: 10}

	repairDay(day, cfg)

	// The one-hour "other" run at hour 10 is extended backward to hours 7-10.
	for h := 7; h <= 10; h++ {
		assert.Equal(t, "other", day[h].RecipeName, "hour %d", h)
	}

	total := 0.0
	for _, op := range day {
		total += op.EffectiveRate()
	}
	assert.LessOrEqual(t, total, cfg.MaxDailyCapacity+1e-6)
}

func TestCrossover_ChildrenInheritWholeDaysFromEitherParent(t *testing.T) {
	cfg := DefaultConfig(3, 48000)
	rng := rand.New(rand.NewSource(1))
	p1 := initChromosome(testRecipes(), cfg, rng)
	p2 := initChromosome(testRecipes(), cfg, rng)

	c1, c2 := crossover(p1, p2, cfg, rng)
	assert.Len(t, c1.Days, 3)
	assert.Len(t, c2.Days, 3)
	for d := range c1.Days {
		if assert.ObjectsAreEqual(p1.Days[d], c1.Days[d]) {
			assert.Equal(t, p2.Days[d], c2.Days[d], "day %d", d)
		} else {
			assert.Equal(t, p2.Days[d], c1.Days[d], "day %d", d)
			assert.Equal(t, p1.Days[d], c2.Days[d], "day %d", d)
		}
	}
}
