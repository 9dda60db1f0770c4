/*
Package vessel plans a minimum-cost vessel deployment schedule that
fulfills as many feedstock requirements as possible within a horizon,
subject to a global fleet cap.

# Time-space network

The optimizer builds a directed graph over (origin, day) and (refinery,
arrival day) pairs:

  - source, with supply equal to the requirement count
  - one deploy(origin, day) node per (origin, day) a requirement could load on
  - one loading(origin, day, requirement) node per requirement per day in its
    loading window
  - one delivery(refinery, arrival day, requirement) node per requirement,
    for whichever loading day keeps arrival within the requirement's deadline
  - sink, with demand equal to the requirement count

Edges carry a capacity and a cost: source→deploy costs one vessel
deployment and is capacity 1 (at most one new vessel deploys per
origin/day); deploy→loading, wait (same origin, later day), and travel
(different origin, respecting travel time) edges share a MAX_VESSELS
capacity, modeling a bounded number of vessels in transit or waiting at
once; loading→delivery and delivery→sink are capacity 1 per requirement,
so a requirement can be fulfilled by at most one flow unit. A non-negative
integer slack variable at the sink absorbs any requirement the network
can't reach, penalized far more heavily than another vessel deployment
would cost — the model always prefers deploying (up to the fleet cap)
over leaving a requirement unmet.

# Solve and extraction

The problem is handed to package solver as a mixed-integer program and
solved with a time limit and relative MIP gap; an infeasible or
suboptimal status does not stop extraction as long as some flow exists.
Extraction walks the residual flow graph one deployed vessel at a time,
greedily picking up requirements it has room for (by volume and by
distinct-grade count) and preferring to continue a requirement it just
loaded, then wait, then travel, then re-enter loading, before falling
back to whatever edge still has flow — turning the anonymous unit flow
back into named vessels, each with a cargo manifest and a route.
*/
package vessel
