package vessel

import (
	"github.com/google/uuid"
	"github.com/maercaestro/oasis/pkg/types"
)

const maxGradesPerVessel = 3

// residual tracks how much flow is left to consume on each edge as vessels
// are walked out of the solved network one at a time.
type residual struct {
	net       *network
	remaining []float64
}

func newResidual(net *network, values map[string]float64) *residual {
	r := &residual{net: net, remaining: make([]float64, len(net.edges))}
	for i, e := range net.edges {
		r.remaining[i] = values[edgeVarName(e)]
	}
	return r
}

func (r *residual) take(idx int) {
	if r.remaining[idx] >= 1 {
		r.remaining[idx]--
	}
}

func (r *residual) candidates(key string) []int {
	var out []int
	for _, idx := range r.net.outgoing[key] {
		if r.remaining[idx] >= 1-1e-6 {
			out = append(out, idx)
		}
	}
	return out
}

func (r *residual) find(key string, action RouteAction, reqIdx int) int {
	for _, idx := range r.net.outgoing[key] {
		e := r.net.edges[idx]
		if e.action != action || r.remaining[idx] < 1-1e-6 {
			continue
		}
		if action == ActionRequirement && e.reqIdx != reqIdx {
			continue
		}
		return idx
	}
	return -1
}

// extract walks the residual flow graph one deployed vessel at a time,
// turning anonymous unit flow into named vessels with cargo and routes.
// Each source->deploy edge with positive flow starts one vessel,
// instantiated as the largest available class; the walk prefers to finish
// loading a requirement it just reached, then wait, then travel, then
// re-enter loading, then deliver, before falling back to any remaining
// edge out of the current node.
func extract(net *network, values map[string]float64, reqs []types.FeedstockRequirement, classes []VesselClass) []*types.Vessel {
	res := newResidual(net, values)
	assigned := make([]bool, len(reqs))
	class := largestClass(classes)

	var vessels []*types.Vessel
	for idx, e := range net.edges {
		if e.from != sourceKey {
			continue
		}
		units := int(values[edgeVarName(e)] + 0.5)
		for u := 0; u < units; u++ {
			res.take(idx)
			v := walkVessel(net, res, e.to, reqs, assigned, class)
			if v != nil && len(v.Cargo) > 0 {
				vessels = append(vessels, v)
			}
		}
	}
	return vessels
}

func walkVessel(net *network, res *residual, start string, reqs []types.FeedstockRequirement, assigned []bool, class VesselClass) *types.Vessel {
	v := &types.Vessel{
		VesselID: "v-" + uuid.NewString(),
		Cost:     class.CostPerKB,
		Capacity: class.Capacity,
	}

	current := start
	pendingReq := -1 // requirement just loaded at this loading node, awaiting its requirement_flow edge
	for {
		if pendingReq >= 0 {
			if idx := res.find(current, ActionRequirement, pendingReq); idx >= 0 {
				current = advance(res, v, idx)
				pendingReq = -1
				continue
			}
			pendingReq = -1 // requirement_flow edge unavailable; drop the pending load and keep moving
		}

		moved := false
		for _, action := range []RouteAction{ActionWait, ActionTravel, ActionEnterLoading, ActionDeliver} {
			idx := res.find(current, action, -1)
			if idx < 0 {
				continue
			}
			e := net.edges[idx]
			current = advance(res, v, idx)
			moved = true
			if action != ActionDeliver {
				if loadCargo(e.destReqIdx, reqs, assigned, v) {
					pendingReq = e.destReqIdx
				}
			}
			break
		}
		if moved {
			continue
		}

		cands := res.candidates(current)
		if len(cands) == 0 {
			break
		}
		current = advance(res, v, cands[0])
	}

	return v
}

func advance(res *residual, v *types.Vessel, idx int) string {
	e := res.net.edges[idx]
	res.take(idx)
	v.Route = append(v.Route, types.RouteSegment{
		Action:   types.RouteSegmentAction(e.action),
		From:     e.from,
		To:       e.to,
		DayStart: e.dayStart,
		DayEnd:   e.dayEnd,
	})
	if e.action == ActionDeliver && e.dayEnd > v.ArrivalDay {
		v.ArrivalDay = e.dayEnd
	}
	return e.to
}

// loadCargo applies a requirement's volume to the vessel's manifest if it
// still fits within cargo capacity and the vessel hasn't already reached
// its distinct-grade limit. reqIdx of -1 (a node with no attached
// requirement, which shouldn't occur in a well-formed network) is a no-op.
func loadCargo(reqIdx int, reqs []types.FeedstockRequirement, assigned []bool, v *types.Vessel) bool {
	if reqIdx < 0 || reqIdx >= len(reqs) || assigned[reqIdx] {
		return false
	}
	r := reqs[reqIdx]
	if v.TotalCargoVolume()+r.Volume > v.Capacity+1e-6 {
		return false
	}
	grades := map[string]struct{}{r.Grade: {}}
	for _, p := range v.Cargo {
		grades[p.Grade] = struct{}{}
	}
	if len(grades) > maxGradesPerVessel {
		return false
	}
	assigned[reqIdx] = true
	v.Cargo = append(v.Cargo, types.FeedstockParcel{
		Grade:    r.Grade,
		Volume:   r.Volume,
		Origin:   r.Origin,
		VesselID: v.VesselID,
	})
	return true
}

func largestClass(classes []VesselClass) VesselClass {
	if len(classes) == 0 {
		return VesselClass{Name: "default", Capacity: 500000, CostPerKB: 1.0}
	}
	return classes[0]
}
