package planner

import (
	"fmt"

	"github.com/maercaestro/oasis/pkg/genetic"
	"github.com/maercaestro/oasis/pkg/metrics"
	"github.com/maercaestro/oasis/pkg/optimizer"
	"github.com/maercaestro/oasis/pkg/scheduler"
	"github.com/maercaestro/oasis/pkg/tanks"
	"github.com/maercaestro/oasis/pkg/types"
	"github.com/maercaestro/oasis/pkg/vessel"
)

// Input bundles everything a planning run needs: the reference data
// shared by every stage, the tank bank the scheduler will mutate, the
// feedstock requirements the vessel optimizer tries to satisfy, and
// whether to run the optional refinement stages.
type Input struct {
	Recipes       []types.BlendingRecipe
	Crudes        map[string]types.Crude
	Tanks         *tanks.Manager
	MaxRate       float64
	Days          int
	Routes        []types.Route
	Requirements  []types.FeedstockRequirement
	Refinery      string
	VesselClasses []vessel.VesselClass

	RunLPRefiner bool
	LPObjective  optimizer.Objective
	LPConfig     optimizer.Config

	RunGenetic              bool
	GeneticInitialInventory map[string]float64
	GeneticConfig           genetic.Config
}

// Output is every artifact a planning run can produce. RefinedSchedule and
// GeneticResult are nil when their stage was skipped.
type Output struct {
	Vessels             []*types.Vessel
	VesselDailyLocation map[string]map[int]string
	GreedySchedule      []*types.DailyPlan
	RefinedSchedule     []*types.DailyPlan
	GeneticResult       *genetic.Result
}

// Run executes the pipeline described in package doc, in dependency order:
// vessel optimizer, then greedy scheduler, then (optionally) the LP
// refiner and genetic optimizer.
func Run(in Input) (*Output, error) {
	out := &Output{}

	if len(in.Requirements) > 0 {
		vessels, err := vessel.Optimize(in.Requirements, in.Refinery, in.Routes, in.VesselClasses, vessel.DefaultConfig())
		if err != nil {
			return nil, fmt.Errorf("planner: vessel stage: %w", err)
		}
		out.Vessels = vessels
		out.VesselDailyLocation = vessel.DailyLocations(vessels)
		metrics.RecordVessels(len(vessels))
	}

	sched := scheduler.New(in.Tanks, in.Recipes, out.Vessels, in.Crudes, in.MaxRate)
	timer := metrics.NewTimer()
	plans, err := sched.Run(in.Days)
	timer.ObserveDuration(metrics.SchedulingLatency)
	if err != nil {
		return nil, fmt.Errorf("planner: scheduler stage: %w", err)
	}
	out.GreedySchedule = plans
	margins := make([]float64, len(plans))
	for i, p := range plans {
		margins[i] = p.DailyMargin
	}
	metrics.RecordSchedule(margins)

	if in.RunLPRefiner {
		refined, err := optimizer.Optimize(plans, out.Vessels, in.Recipes, in.Crudes, in.MaxRate, in.LPObjective, in.LPConfig)
		if err != nil {
			return nil, fmt.Errorf("planner: LP refiner stage: %w", err)
		}
		out.RefinedSchedule = refined
	}

	if in.RunGenetic {
		arrivals := vessel.ArrivalsByDay(out.Vessels)
		result, err := genetic.Optimize(in.Recipes, in.Crudes, in.GeneticInitialInventory, arrivals, in.GeneticConfig)
		if err != nil {
			return nil, fmt.Errorf("planner: genetic stage: %w", err)
		}
		out.GeneticResult = result
	}

	return out, nil
}
