package vessel

import (
	"testing"

	"github.com/maercaestro/oasis/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func routes() []types.Route {
	return []types.Route{
		types.NewRoute("PORT_A", "REFINERY", 3, 20000),
		types.NewRoute("PORT_B", "REFINERY", 5, 25000),
		types.NewRoute("PORT_A", "PORT_B", 2, 0),
		types.NewRoute("PORT_B", "PORT_A", 2, 0),
	}
}

func classes() []VesselClass {
	return []VesselClass{
		{Name: "VLCC", Capacity: 500000, CostPerKB: 1.2},
	}
}

func TestOptimize_SingleRequirementDeploysOneVessel(t *testing.T) {
	reqs := []types.FeedstockRequirement{
		{Grade: "LIGHT", Volume: 300000, Origin: "PORT_A", AllowedLDR: types.LoadingWindow{Start: 1, End: 3}, RequiredArrivalBy: 10},
	}

	vessels, err := Optimize(reqs, "REFINERY", routes(), classes(), DefaultConfig())
	require.NoError(t, err)
	require.Len(t, vessels, 1)

	v := vessels[0]
	require.Len(t, v.Cargo, 1)
	assert.Equal(t, "LIGHT", v.Cargo[0].Grade)
	assert.Equal(t, 300000.0, v.Cargo[0].Volume)
	assert.LessOrEqual(t, v.ArrivalDay, 10)
	assert.GreaterOrEqual(t, v.ArrivalDay, 1)
}

func TestOptimize_UnreachableRequirementLeftUnmet(t *testing.T) {
	reqs := []types.FeedstockRequirement{
		{Grade: "LIGHT", Volume: 300000, Origin: "PORT_A", AllowedLDR: types.LoadingWindow{Start: 1, End: 1}, RequiredArrivalBy: 2},
	}

	vessels, err := Optimize(reqs, "REFINERY", routes(), classes(), DefaultConfig())
	require.NoError(t, err)
	assert.Empty(t, vessels, "travel time alone exceeds the deadline, so no route can satisfy this requirement")
}

func TestOptimize_NoRequirementsReturnsNoVessels(t *testing.T) {
	vessels, err := Optimize(nil, "REFINERY", routes(), classes(), DefaultConfig())
	require.NoError(t, err)
	assert.Nil(t, vessels)
}

func TestOptimize_TwoRequirementsSameOriginMayShareAVessel(t *testing.T) {
	reqs := []types.FeedstockRequirement{
		{Grade: "LIGHT", Volume: 150000, Origin: "PORT_A", AllowedLDR: types.LoadingWindow{Start: 1, End: 2}, RequiredArrivalBy: 10},
		{Grade: "MED", Volume: 150000, Origin: "PORT_A", AllowedLDR: types.LoadingWindow{Start: 1, End: 2}, RequiredArrivalBy: 10},
	}

	vessels, err := Optimize(reqs, "REFINERY", routes(), classes(), DefaultConfig())
	require.NoError(t, err)
	require.NotEmpty(t, vessels)

	totalCargo := 0
	for _, v := range vessels {
		totalCargo += len(v.Cargo)
	}
	assert.Equal(t, 2, totalCargo, "both requirements should be delivered across however many vessels were deployed")
}
