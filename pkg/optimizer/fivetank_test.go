package optimizer

import (
	"testing"

	"github.com/maercaestro/oasis/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fiveTankCrudes() map[string]types.Crude {
	return map[string]types.Crude{
		"LIGHT": {Name: "LIGHT", API: 35, Sulfur: 0.3, PurchasePrice: 60},
		"HEAVY": {Name: "HEAVY", API: 20, Sulfur: 1.2, PurchasePrice: 45},
	}
}

func fiveTankProducts() map[string]types.Product {
	return map[string]types.Product{
		"GASOLINE": {Name: "GASOLINE", MinAPI: 25, MaxAPI: 40, MinSulfur: 0, MaxSulfur: 1.0, Price: 90, MaxPerDay: 50000},
	}
}

func TestDistributeOpeningInventory_SingleGradeNeverExceedsTotalCapacity(t *testing.T) {
	dist := DistributeOpeningInventory(map[string]float64{"LIGHT": 1_180_000})

	total := 0.0
	for tank, grades := range dist {
		tankTotal := 0.0
		for _, v := range grades {
			tankTotal += v
		}
		assert.LessOrEqual(t, tankTotal, FiveTankCapacities[tank]+1e-6)
		total += tankTotal
	}
	assert.InDelta(t, 1_180_000.0, total, 1e-6)
}

func TestDistributeOpeningInventory_MultipleGradesNeverOverfillATank(t *testing.T) {
	// Two grades that together exceed the tanks' combined 80% level (944,000)
	// and exactly fill their total capacity, so the second grade must spill
	// into the rest of the headroom the first grade left.
	// Before the cumulative-headroom fix, each grade's spill ignored the
	// other's placement and could push a tank's combined contents past its
	// capacity.
	dist := DistributeOpeningInventory(map[string]float64{
		"LIGHT": 900_000,
		"HEAVY": 280_000,
	})

	for tank, grades := range dist {
		tankTotal := 0.0
		for _, v := range grades {
			tankTotal += v
		}
		assert.LessOrEqualf(t, tankTotal, FiveTankCapacities[tank]+1e-6,
			"tank %s holds %.2f against a %.2f capacity", tank, tankTotal, FiveTankCapacities[tank])
	}
}

func TestDistributeOpeningInventory_ExcessBeyondTotalCapacityIsNotOverAllocated(t *testing.T) {
	totalCapacity := 0.0
	for _, c := range FiveTankCapacities {
		totalCapacity += c
	}

	dist := DistributeOpeningInventory(map[string]float64{"LIGHT": totalCapacity + 500_000})

	total := 0.0
	for tank, grades := range dist {
		tankTotal := 0.0
		for _, v := range grades {
			tankTotal += v
		}
		assert.LessOrEqual(t, tankTotal, FiveTankCapacities[tank]+1e-6)
		total += tankTotal
	}
	assert.LessOrEqual(t, total, totalCapacity+1e-6)
}

func TestOptimizeFiveTank_ProducesFeasibleDailyResults(t *testing.T) {
	opening := map[string]float64{"LIGHT": 400_000, "HEAVY": 200_000}
	deliveries := map[int]map[string]float64{
		1: {"LIGHT": 50_000},
	}

	results, err := OptimizeFiveTank(2, fiveTankCrudes(), fiveTankProducts(), opening, deliveries, 50000, DefaultConfig())
	require.NoError(t, err)
	require.Len(t, results, 2)

	for _, r := range results {
		total := 0.0
		for _, v := range r.BlendProduction {
			total += v
		}
		assert.LessOrEqual(t, total, 50000.0+1e-6)
	}
}

func TestOptimizeFiveTank_DayZeroInventoryRespectsCapacityEvenWithLargeOpening(t *testing.T) {
	// Opening inventory near the tanks' combined capacity: if
	// DistributeOpeningInventory ever placed a tank's day-0 equality bound
	// above its capacity, this solve would be infeasible.
	opening := map[string]float64{"LIGHT": 700_000, "HEAVY": 400_000}

	results, err := OptimizeFiveTank(1, fiveTankCrudes(), fiveTankProducts(), opening, nil, 50000, DefaultConfig())
	require.NoError(t, err)
	require.Len(t, results, 1)
}
