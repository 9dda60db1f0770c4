/*
Package scheduler runs the greedy day-by-day refinery simulation that is the
backbone of an OASIS planning run.

# Architecture

Unlike a periodic background loop, the scheduler is a single batch
computation over a fixed horizon: given opening tank inventory, a vessel
arrival schedule, and a set of blending recipes, it steps through days
1..N and for each day:

	┌────────────────────────────────────────────────────────────┐
	│                    Simulate day N                           │
	└────────────────┬───────────────────────────────────────────┘
	                 │
	                 ▼
	┌────────────────────────────────────────────────────────────┐
	│  1. Unload any vessel arriving today into tanks with room  │
	│     (delay the vessel a day if no tank has room)            │
	│  2. Rank feasible blending recipes by margin                │
	│  3. Greedily allocate processing capacity, richest first    │
	│  4. Withdraw the realized crude volumes from tanks          │
	│  5. Snapshot tank state and margin into a DailyPlan         │
	└────────────────────────────────────────────────────────────┘

The scheduler owns tank state exclusively for the duration of a Run call;
every DailyPlan it emits holds a deep copy, so a caller inspecting day 3's
plan is never surprised by day 10's withdrawals.

# Usage

	sched := scheduler.New(tankManager, recipes, vessels, crudes, maxRate)
	plans, err := sched.Run(30)

A per-day blend selection failure is logged and treated as "no blends today"
rather than aborting the run, mirroring how a real refinery would rather
run light for a day than halt planning entirely.
*/
package scheduler
