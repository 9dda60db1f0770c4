package vessel

import (
	"fmt"

	"github.com/maercaestro/oasis/pkg/types"
)

type nodeKind int

const (
	nodeDeploy nodeKind = iota
	nodeLoading
	nodeDelivery
)

// node identifies a point in the time-space network. source and sink are
// singletons and never constructed as a node value.
type node struct {
	kind   nodeKind
	place  string // origin for deploy/loading, refinery name for delivery
	day    int    // loading/deploy day, or delivery arrival day
	reqIdx int    // requirement index for loading/delivery, -1 for deploy
}

func (n node) key() string {
	switch n.kind {
	case nodeDeploy:
		return fmt.Sprintf("deploy|%s|%d", n.place, n.day)
	case nodeLoading:
		return fmt.Sprintf("loading|%s|%d|%d", n.place, n.day, n.reqIdx)
	default:
		return fmt.Sprintf("delivery|%s|%d|%d", n.place, n.day, n.reqIdx)
	}
}

const (
	sourceKey = "__source__"
	sinkKey   = "__sink__"
)

// edge is one arc of the network, carrying a capacity, a per-unit cost, and
// enough metadata to reconstruct a vessel's route during extraction.
type edge struct {
	id         string
	from, to   string
	capacity   float64
	cost       float64
	action     RouteAction // empty for source/sink-adjacent bookkeeping edges
	reqIdx     int         // requirement this edge is specific to, -1 otherwise
	destReqIdx int         // requirement index named by the destination loading node, -1 if n/a
	dayStart   int
	dayEnd     int
}

// RouteAction mirrors types.RouteSegmentAction; kept as its own type so this
// package doesn't need to import types just to tag edges during construction.
type RouteAction string

const (
	ActionTravel       RouteAction = "travel"
	ActionWait         RouteAction = "wait"
	ActionEnterLoading RouteAction = "enter_loading"
	ActionRequirement  RouteAction = "requirement_flow"
	ActionDeliver      RouteAction = "deliver"
)

// network is the built time-space graph: a flat edge list plus an adjacency
// index, ready to be turned into solver variables and conservation
// constraints.
type network struct {
	edges    []edge
	outgoing map[string][]int // node key -> indices into edges
	incoming map[string][]int
}

func newNetwork() *network {
	return &network{outgoing: map[string][]int{}, incoming: map[string][]int{}}
}

func (n *network) add(e edge) {
	idx := len(n.edges)
	n.edges = append(n.edges, e)
	n.outgoing[e.from] = append(n.outgoing[e.from], idx)
	n.incoming[e.to] = append(n.incoming[e.to], idx)
}

// travelTimeFunc looks up the number of days a voyage between two places takes.
// Missing lanes are treated as unreachable.
type travelTimeFunc func(from, to string) (days float64, ok bool)

// build constructs the full time-space network for the given requirements,
// refinery name, travel-time function, and fleet cap. Node and edge naming
// follows package doc's description: source->deploy is capacity 1 per
// origin/day and carries the deployment cost; deploy->loading, wait, and
// travel edges share the maxVessels cap; loading->delivery and
// delivery->sink are capacity 1 per requirement.
func build(reqs []types.FeedstockRequirement, refinery string, travel travelTimeFunc, maxVessels int, costPerDeployedVessel float64) *network {
	net := newNetwork()
	deployed := map[string]bool{}

	for i, r := range reqs {
		for d := r.AllowedLDR.Start; d <= r.AllowedLDR.End; d++ {
			deployKey := node{kind: nodeDeploy, place: r.Origin, day: d}.key()
			loadKey := node{kind: nodeLoading, place: r.Origin, day: d, reqIdx: i}.key()

			if !deployed[deployKey] {
				deployed[deployKey] = true
				net.add(edge{
					id: "deploy#" + deployKey, from: sourceKey, to: deployKey,
					capacity: 1, cost: costPerDeployedVessel,
				})
			}
			net.add(edge{
				id: "enter#" + deployKey + ">" + loadKey, from: deployKey, to: loadKey,
				capacity: float64(maxVessels), action: ActionEnterLoading,
				dayStart: d, dayEnd: d, reqIdx: -1, destReqIdx: i,
			})

			travelDays, ok := travel(r.Origin, refinery)
			if !ok {
				continue
			}
			arrival := d + 1 + int(travelDays)
			if arrival > r.RequiredArrivalBy {
				continue
			}
			delivKey := node{kind: nodeDelivery, place: refinery, day: arrival, reqIdx: i}.key()
			net.add(edge{
				id: "req#" + loadKey, from: loadKey, to: delivKey,
				capacity: 1, action: ActionRequirement, reqIdx: i,
				dayStart: d, dayEnd: arrival,
			})
			net.add(edge{
				id: "deliver#" + delivKey, from: delivKey, to: sinkKey,
				capacity: 1, action: ActionDeliver, reqIdx: i,
				dayStart: arrival, dayEnd: arrival,
			})
		}
	}

	// Wait edges: same origin, later day, any pair of requirement-specific
	// loading nodes (a vessel may pick up a different requirement after
	// waiting).
	for i, ri := range reqs {
		for d1 := ri.AllowedLDR.Start; d1 <= ri.AllowedLDR.End; d1++ {
			from := node{kind: nodeLoading, place: ri.Origin, day: d1, reqIdx: i}.key()
			for j, rj := range reqs {
				if rj.Origin != ri.Origin {
					continue
				}
				for d2 := rj.AllowedLDR.Start; d2 <= rj.AllowedLDR.End; d2++ {
					if d2 <= d1 {
						continue
					}
					to := node{kind: nodeLoading, place: rj.Origin, day: d2, reqIdx: j}.key()
					net.add(edge{
						id: fmt.Sprintf("wait#%s>%s", from, to), from: from, to: to,
						capacity: float64(maxVessels), action: ActionWait,
						dayStart: d1, dayEnd: d2, reqIdx: -1, destReqIdx: j,
					})
				}
			}
		}
	}

	// Travel edges: different origin, respecting inter-origin travel time.
	for i, ri := range reqs {
		for d1 := ri.AllowedLDR.Start; d1 <= ri.AllowedLDR.End; d1++ {
			from := node{kind: nodeLoading, place: ri.Origin, day: d1, reqIdx: i}.key()
			for j, rj := range reqs {
				if rj.Origin == ri.Origin {
					continue
				}
				legDays, ok := travel(ri.Origin, rj.Origin)
				if !ok {
					continue
				}
				minArrival := d1 + 1 + int(legDays)
				for d2 := rj.AllowedLDR.Start; d2 <= rj.AllowedLDR.End; d2++ {
					if d2 < minArrival {
						continue
					}
					to := node{kind: nodeLoading, place: rj.Origin, day: d2, reqIdx: j}.key()
					net.add(edge{
						id: fmt.Sprintf("travel#%s>%s", from, to), from: from, to: to,
						capacity: float64(maxVessels), action: ActionTravel,
						dayStart: d1, dayEnd: d2, reqIdx: -1, destReqIdx: j,
					})
				}
			}
		}
	}

	return net
}

// nodes returns every distinct node key that appears in the network, in
// first-seen order, so callers can build one flow-conservation constraint
// per node deterministically.
func (n *network) nodes() []string {
	seen := map[string]bool{}
	var out []string
	for _, e := range n.edges {
		for _, k := range []string{e.from, e.to} {
			if k == sourceKey || k == sinkKey {
				continue
			}
			if !seen[k] {
				seen[k] = true
				out = append(out, k)
			}
		}
	}
	return out
}
