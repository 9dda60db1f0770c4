package scheduler

import (
	"testing"

	"github.com/maercaestro/oasis/pkg/tanks"
	"github.com/maercaestro/oasis/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func crudeSlate() map[string]types.Crude {
	return map[string]types.Crude{
		"LIGHT": {Name: "LIGHT", Margin: 8.0},
		"MED":   {Name: "MED", Margin: 5.0},
		"HEAVY": {Name: "HEAVY", Margin: 3.0},
	}
}

func TestRun_GreedyMarginOrdering(t *testing.T) {
	tankA := types.NewTank("T1", 100000)
	tankA.Content.Set("LIGHT", 60000)
	tankA.Content.Set("HEAVY", 60000)
	tm := tanks.New(tankA)

	recipes := []types.BlendingRecipe{
		{Name: "rich", PrimaryGrade: "LIGHT", MaxRate: 40000, PrimaryFraction: 1.0},
		{Name: "lean", PrimaryGrade: "HEAVY", MaxRate: 40000, PrimaryFraction: 1.0},
	}

	sched := New(tm, recipes, nil, crudeSlate(), 50000)
	plans, err := sched.Run(1)
	require.NoError(t, err)
	require.Len(t, plans, 1)

	day1 := plans[0]
	assert.Equal(t, 40000.0, day1.ProcessingRates["rich"])
	assert.Equal(t, 10000.0, day1.ProcessingRates["lean"], "only remaining capacity goes to the lower-margin recipe")
}

func TestRun_WithdrawsRealizedVolumes(t *testing.T) {
	tankA := types.NewTank("T1", 100000)
	tankA.Content.Set("LIGHT", 30000)
	tm := tanks.New(tankA)

	recipes := []types.BlendingRecipe{
		{Name: "straight-run", PrimaryGrade: "LIGHT", MaxRate: 40000, PrimaryFraction: 1.0},
	}

	sched := New(tm, recipes, nil, crudeSlate(), 50000)
	plans, err := sched.Run(1)
	require.NoError(t, err)

	assert.Equal(t, 30000.0, plans[0].ProcessingRates["straight-run"], "rate is bounded by available LIGHT inventory")
	assert.Equal(t, 0.0, plans[0].Inventory, "tank should be fully drawn down")
}

func TestRun_VesselDelayedWhenNoTankHasRoom(t *testing.T) {
	fullTank := types.NewTank("T1", 10000)
	fullTank.Content.Set("LIGHT", 10000)
	tm := tanks.New(fullTank)

	vessel := &types.Vessel{
		VesselID:   "V1",
		ArrivalDay: 1,
		Cargo: []types.FeedstockParcel{
			{Grade: "LIGHT", Volume: 5000},
		},
	}

	sched := New(tm, []types.BlendingRecipe{
		{Name: "r", PrimaryGrade: "LIGHT", MaxRate: 100, PrimaryFraction: 1.0},
	}, []*types.Vessel{vessel}, crudeSlate(), 100)

	_, err := sched.Run(1)
	require.NoError(t, err)

	assert.Equal(t, 2, vessel.ArrivalDay, "vessel should be delayed one day")
	assert.Equal(t, 1, vessel.DaysHeld)
}

func TestRun_VesselUnloadsIntoTankWithRoom(t *testing.T) {
	tankA := types.NewTank("T1", 10000)
	tm := tanks.New(tankA)

	vessel := &types.Vessel{
		VesselID:   "V1",
		ArrivalDay: 1,
		Cargo: []types.FeedstockParcel{
			{Grade: "LIGHT", Volume: 5000},
		},
	}

	sched := New(tm, []types.BlendingRecipe{
		{Name: "r", PrimaryGrade: "LIGHT", MaxRate: 0, PrimaryFraction: 1.0},
	}, []*types.Vessel{vessel}, crudeSlate(), 100)

	_, err := sched.Run(1)
	require.NoError(t, err)

	assert.Equal(t, 1, vessel.ArrivalDay, "vessel should not be delayed")
	assert.Equal(t, 5000.0, tm.GetAvailableVolume("LIGHT"))
}

func TestRun_ErrorsWithNoTanks(t *testing.T) {
	tm := tanks.New()
	sched := New(tm, []types.BlendingRecipe{{Name: "r", PrimaryGrade: "LIGHT", MaxRate: 1, PrimaryFraction: 1}}, nil, crudeSlate(), 100)
	_, err := sched.Run(1)
	assert.Error(t, err)
}

func TestRun_ErrorsWithMissingCrudeData(t *testing.T) {
	tank := types.NewTank("T1", 1000)
	tm := tanks.New(tank)
	recipes := []types.BlendingRecipe{
		{Name: "r", PrimaryGrade: "UNKNOWN_GRADE", MaxRate: 100, PrimaryFraction: 1.0},
	}
	sched := New(tm, recipes, nil, crudeSlate(), 100)
	_, err := sched.Run(1)
	assert.Error(t, err)
}

func TestRun_DailyPlanSnapshotsDoNotAliasLaterDays(t *testing.T) {
	tank := types.NewTank("T1", 100000)
	tank.Content.Set("LIGHT", 80000)
	tm := tanks.New(tank)

	recipes := []types.BlendingRecipe{
		{Name: "r", PrimaryGrade: "LIGHT", MaxRate: 20000, PrimaryFraction: 1.0},
	}

	sched := New(tm, recipes, nil, crudeSlate(), 20000)
	plans, err := sched.Run(3)
	require.NoError(t, err)
	require.Len(t, plans, 3)

	day1Volume, _ := plans[0].Tanks["T1"].Content.Get("LIGHT")
	day3Volume, _ := plans[2].Tanks["T1"].Content.Get("LIGHT")

	assert.Equal(t, 60000.0, day1Volume)
	assert.Equal(t, 20000.0, day3Volume)
	assert.NotEqual(t, day1Volume, day3Volume, "day 1's snapshot must not reflect day 3's withdrawals")
}
