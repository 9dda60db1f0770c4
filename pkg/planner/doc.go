// Package planner orchestrates a full OASIS planning run: it wires the
// vessel optimizer's fleet into the greedy scheduler, optionally refines
// the result through the LP optimizer, and optionally runs the genetic
// optimizer over the same horizon for an hourly schedule. Each stage's
// config is exposed so a caller can skip stages it doesn't need.
package planner
