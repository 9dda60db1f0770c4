package vessel

import (
	"fmt"
	"sort"
	"time"

	"github.com/maercaestro/oasis/pkg/log"
	"github.com/maercaestro/oasis/pkg/metrics"
	"github.com/maercaestro/oasis/pkg/solver"
	"github.com/maercaestro/oasis/pkg/types"
)

// VesselClass is a deployable vessel size: a cargo capacity and a cost per
// kb moved. Extraction always instantiates the largest class first.
type VesselClass struct {
	Name      string
	Capacity  float64
	CostPerKB float64
}

// Config tunes the deployment MIP's solver and economics.
type Config struct {
	MaxVessels            int
	CostPerDeployedVessel float64
	PenaltyPerUnmet       float64
	TimeLimit             time.Duration
	RelativeGap           float64
}

func DefaultConfig() Config {
	return Config{
		MaxVessels:            5,
		CostPerDeployedVessel: 50000,
		PenaltyPerUnmet:       1e7,
		TimeLimit:             3000 * time.Second,
		RelativeGap:           0.05,
	}
}

func edgeVarName(e edge) string { return "flow#" + e.id }

const unmetVarName = "unmet"

// Optimize builds the time-space network for reqs, solves the deployment
// MIP, and extracts the resulting flow into named vessels with populated
// cargo and routes. classes must be sorted by decreasing Capacity by the
// caller's preference; Optimize re-sorts defensively.
func Optimize(reqs []types.FeedstockRequirement, refinery string, routes []types.Route, classes []VesselClass, cfg Config) ([]*types.Vessel, error) {
	logger := log.WithComponent("vessel")

	if len(reqs) == 0 {
		return nil, nil
	}
	travel := travelLookup(routes)
	net := build(reqs, refinery, travel, cfg.MaxVessels, cfg.CostPerDeployedVessel)

	p := solver.NewProblem()
	for _, e := range net.edges {
		p.AddVariable(edgeVarName(e), 0, e.capacity, solver.Integer)
	}
	p.AddVariable(unmetVarName, 0, float64(len(reqs)), solver.Integer)

	for _, nodeKey := range net.nodes() {
		coeffs := map[string]float64{}
		for _, idx := range net.incoming[nodeKey] {
			coeffs[edgeVarName(net.edges[idx])] += 1
		}
		for _, idx := range net.outgoing[nodeKey] {
			coeffs[edgeVarName(net.edges[idx])] -= 1
		}
		if len(coeffs) == 0 {
			continue
		}
		p.AddConstraint("conserve#"+nodeKey, coeffs, solver.EQ, 0)
	}

	deployCoeffs := map[string]float64{}
	sinkCoeffs := map[string]float64{unmetVarName: 1}
	for _, e := range net.edges {
		if e.from == sourceKey {
			deployCoeffs[edgeVarName(e)] += 1
		}
		if e.to == sinkKey {
			sinkCoeffs[edgeVarName(e)] += 1
		}
	}
	if len(deployCoeffs) > 0 {
		p.AddConstraint("max_vessels", deployCoeffs, solver.LE, float64(cfg.MaxVessels))
	}
	p.AddConstraint("unmet_balance", sinkCoeffs, solver.EQ, float64(len(reqs)))

	objCoeffs := map[string]float64{unmetVarName: cfg.PenaltyPerUnmet}
	for _, e := range net.edges {
		if e.cost != 0 {
			objCoeffs[edgeVarName(e)] += e.cost
		}
	}
	p.Objective = solver.Objective{Coeffs: objCoeffs, Maximize: false}

	h, err := solver.Build(p)
	if err != nil {
		return nil, fmt.Errorf("vessel: %w", err)
	}
	timer := metrics.NewTimer()
	result, err := solver.Solve(h, cfg.TimeLimit, cfg.RelativeGap)
	timer.ObserveDurationVec(metrics.SolverWallClock, "vessel")
	if err != nil {
		return nil, fmt.Errorf("vessel: %w", err)
	}
	metrics.SolverStatusTotal.WithLabelValues("vessel", result.Status.String()).Inc()
	metrics.SolverRelativeGap.WithLabelValues("vessel").Set(result.Gap)
	if result.Status == solver.StatusInfeasible {
		if !hasPositiveFlow(result.Values) {
			logger.Warn().Msg("vessel deployment MIP is infeasible and returned no usable flow, deploying an empty fleet")
			metrics.RequirementsUnmet.Set(float64(len(reqs)))
			return []*types.Vessel{}, nil
		}
		logger.Warn().Msg("vessel deployment MIP reported infeasible but returned a partial flow, extracting it")
	} else if result.Status != solver.StatusOptimal {
		logger.Warn().Str("status", result.Status.String()).Float64("gap", result.Gap).
			Msg("vessel deployment MIP did not reach optimal status, extracting best-known flow")
	}

	sortedClasses := append([]VesselClass(nil), classes...)
	sort.Slice(sortedClasses, func(i, j int) bool { return sortedClasses[i].Capacity > sortedClasses[j].Capacity })

	vessels := extract(net, result.Values, reqs, sortedClasses)
	loaded := 0
	for _, v := range vessels {
		loaded += len(v.Cargo)
	}
	metrics.RequirementsUnmet.Set(float64(len(reqs) - loaded))
	return vessels, nil
}

// hasPositiveFlow reports whether any flow variable in values (every
// variable except the unmet slack) carries positive volume, distinguishing a genuinely empty solve
// from one that found a usable (if unproven-optimal) partial flow.
func hasPositiveFlow(values map[string]float64) bool {
	for name, v := range values {
		if name == unmetVarName {
			continue
		}
		if v > 1e-6 {
			return true
		}
	}
	return false
}

func travelLookup(routes []types.Route) travelTimeFunc {
	lanes := make(map[[2]string]float64, len(routes))
	for _, r := range routes {
		lanes[[2]string{r.Origin, r.Destination}] = r.TimeTravel
	}
	return func(from, to string) (float64, bool) {
		if from == to {
			return 0, true
		}
		d, ok := lanes[[2]string{from, to}]
		return d, ok
	}
}
