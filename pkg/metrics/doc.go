/*
Package metrics defines and registers the Prometheus metrics OASIS exposes
for each planning run: solver wall-clock time and achieved optimality gap
per engine (vessel MIP, LP refiner, five-tank variant), genetic optimizer
convergence (generations run, best fitness, fallback count), vessel fleet
size and unmet requirements, and per-day scheduling margin.

Metrics are package-level vars registered at init time and updated directly
by the engine that owns them (pkg/vessel, pkg/optimizer, pkg/genetic) or via
the Record* helpers in collector.go, which pkg/planner (RecordVessels,
RecordSchedule) and pkg/genetic (RecordGenetic) call once a stage completes. Handler returns the promhttp handler for a caller that wants to
expose /metrics; health.go provides a small liveness/readiness tracker for
a caller running OASIS as a long-lived service rather than a one-shot CLI
invocation.
*/
package metrics
