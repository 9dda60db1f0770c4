/*
Package types defines the core data structures shared by every OASIS
planning engine: crudes, tanks, blending recipes, feedstock parcels and
requirements, vessels, routes, and the daily/hourly plan records produced
by the scheduler, the LP refiner, the vessel optimizer, and the genetic
search.

# Design

Reference entities (Crude, Route, BlendingRecipe) are loaded once per
planning run and treated as immutable. Tank content is modeled as an
ordered grade→volume map rather than a plain Go map, because the greedy
scheduler's withdraw/add behavior depends on insertion order. Route
segments are a tagged union (RouteSegment) over travel, wait, loading,
and delivery actions rather than a single struct with optional fields.

# Ownership

The scheduler exclusively owns tank state during a run and mutates it in
place; every other component receives a DailyPlan snapshot, which deep
copies tank contents so later mutation cannot alias a prior day's record.
*/
package types
