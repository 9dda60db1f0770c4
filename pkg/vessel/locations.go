package vessel

import (
	"fmt"
	"strings"

	"github.com/maercaestro/oasis/pkg/types"
)

// DailyLocations derives, for every vessel, a day-indexed map of where it
// physically is: the place name while loading, waiting, or delivering, and
// "en_route_to_<destination>" for each day spent traveling there. The
// destination day itself is recorded as having arrived, not as en route.
func DailyLocations(vessels []*types.Vessel) map[string]map[int]string {
	out := make(map[string]map[int]string, len(vessels))
	for _, v := range vessels {
		out[v.VesselID] = vesselDailyLocations(v)
	}
	return out
}

// ArrivalsByDay sums each vessel's cargo by grade into the day it arrives,
// giving the per-day exogenous delivery volumes the LP-style engines
// (optimizer, genetic) take as input.
func ArrivalsByDay(vessels []*types.Vessel) map[int]map[string]float64 {
	arrivals := make(map[int]map[string]float64)
	for _, v := range vessels {
		if arrivals[v.ArrivalDay] == nil {
			arrivals[v.ArrivalDay] = make(map[string]float64)
		}
		for _, p := range v.Cargo {
			arrivals[v.ArrivalDay][p.Grade] += p.Volume
		}
	}
	return arrivals
}

func vesselDailyLocations(v *types.Vessel) map[int]string {
	days := make(map[int]string, len(v.Route))
	for _, seg := range v.Route {
		if seg.To == sinkKey {
			continue
		}
		place := seg.To
		if parts := strings.Split(seg.To, "|"); len(parts) > 1 {
			place = parts[1]
		}
		moving := seg.Action == types.ActionTravel || seg.Action == types.ActionRequirement
		for d := seg.DayStart; d <= seg.DayEnd; d++ {
			if moving && d < seg.DayEnd {
				days[d] = fmt.Sprintf("en_route_to_%s", place)
				continue
			}
			days[d] = place
		}
	}
	return days
}
