package optimizer

import (
	"testing"

	"github.com/maercaestro/oasis/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recipes() []types.BlendingRecipe {
	return []types.BlendingRecipe{
		{Name: "LIGHT_BLEND", PrimaryGrade: "LIGHT", MaxRate: 50000, PrimaryFraction: 1.0},
		{Name: "MIXED_BLEND", PrimaryGrade: "LIGHT", SecondaryGrade: "HEAVY", MaxRate: 30000, PrimaryFraction: 0.6},
	}
}

func crudes() map[string]types.Crude {
	return map[string]types.Crude{
		"LIGHT": {Name: "LIGHT", Margin: 5.0},
		"HEAVY": {Name: "HEAVY", Margin: 3.0},
	}
}

func baseSchedule(days int) []*types.DailyPlan {
	plans := make([]*types.DailyPlan, days)
	for i := range plans {
		tank := types.NewTank("T1", 500000)
		tank.Content.Set("LIGHT", 200000)
		tank.Content.Set("HEAVY", 200000)
		plans[i] = &types.DailyPlan{
			Day:              i + 1,
			InventoryByGrade: map[string]float64{"LIGHT": 200000, "HEAVY": 200000},
			Inventory:        400000,
			Tanks:            map[string]*types.Tank{"T1": tank},
		}
	}
	return plans
}

func TestOptimize_EmptyScheduleErrors(t *testing.T) {
	_, err := Optimize(nil, nil, recipes(), crudes(), 50000, Margin, DefaultConfig())
	require.Error(t, err)
}

func TestOptimize_RefinesWithinCapacityAndAvailability(t *testing.T) {
	plans, err := Optimize(baseSchedule(3), nil, recipes(), crudes(), 50000, Margin, DefaultConfig())
	require.NoError(t, err)
	require.Len(t, plans, 3)

	for _, p := range plans {
		total := 0.0
		for _, rate := range p.ProcessingRates {
			total += rate
		}
		assert.LessOrEqual(t, total, 50000.0+1e-6, "refined schedule must respect the daily capacity cap")
		assert.GreaterOrEqual(t, p.Inventory, 0.0)
	}
}

func TestOptimize_PrefersHigherMarginRecipeWhenInventoryAllows(t *testing.T) {
	plans, err := Optimize(baseSchedule(1), nil, recipes(), crudes(), 50000, Margin, DefaultConfig())
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Greater(t, plans[0].DailyMargin, 0.0)
	// LIGHT_BLEND earns more per unit than MIXED_BLEND and day 1 holds
	// enough LIGHT to run it at the full 50,000 capacity.
	assert.InDelta(t, 50000.0, plans[0].ProcessingRates["LIGHT_BLEND"], 1e-3)
	assert.NotContains(t, plans[0].ProcessingRates, "MIXED_BLEND")
}

func TestOptimize_DeliveriesFeedTheNextDaysAvailability(t *testing.T) {
	vessels := []*types.Vessel{
		{
			VesselID:   "v-test",
			ArrivalDay: 2,
			Cargo:      []types.FeedstockParcel{{Grade: "LIGHT", Volume: 100000}},
		},
	}
	plans, err := Optimize(baseSchedule(2), vessels, recipes(), crudes(), 50000, Margin, DefaultConfig())
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.GreaterOrEqual(t, plans[1].InventoryByGrade["LIGHT"], 0.0)
	// Day 1 closes at 200,000 - 50,000 LIGHT; day 2 adds the 100,000
	// delivery and consumes another 50,000.
	assert.InDelta(t, 200000.0, plans[1].InventoryByGrade["LIGHT"], 1e-3)
}

func TestReconstructTanks_PreservesCapacityAndTotalVolume(t *testing.T) {
	original := map[string]*types.Tank{
		"T1": types.NewTank("T1", 100000),
		"T2": types.NewTank("T2", 100000),
	}
	original["T1"].Content.Set("LIGHT", 50000)
	original["T2"].Content.Set("HEAVY", 50000)

	adjusted := ReconstructTanks(original, map[string]float64{"LIGHT": 80000, "HEAVY": 20000})
	require.Len(t, adjusted, 2)

	total := 0.0
	for _, tank := range adjusted {
		assert.LessOrEqual(t, tank.TotalVolume(), tank.Capacity)
		total += tank.TotalVolume()
	}
	assert.InDelta(t, 100000.0, total, 1e-6)
}
