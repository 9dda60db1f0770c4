/*
Package log provides structured logging for OASIS using zerolog.

The log package wraps zerolog to provide JSON-structured logging with
component-specific loggers, configurable log levels, and a package-level
Logger initialized once at startup.

# Usage

Initializing the logger:

	import "github.com/maercaestro/oasis/pkg/log"

	log.Init(log.Config{
		Level:      log.InfoLevel,
		JSONOutput: true,
		Output:     os.Stdout,
	})

Component loggers:

	schedulerLog := log.WithComponent("scheduler")
	schedulerLog.Info().Msg("schedule complete")

	vesselLog := log.WithComponent("vessel")
	vesselLog.Warn().Str("status", "suboptimal").Float64("gap", 0.04).
		Msg("vessel deployment MIP did not reach optimal status")

# Integration Points

This package is used by:

  - pkg/scheduler: greedy scheduling decisions
  - pkg/optimizer: LP refinement status and solver warnings
  - pkg/vessel: vessel deployment MIP status
  - pkg/genetic: convergence and fallback decisions
  - cmd/oasis: top-level command logging, initialized from persistent flags

# Log Output Examples

JSON (production):

	{"level":"info","component":"scheduler","time":"2026-07-31T10:30:00Z","message":"schedule complete"}
	{"level":"warn","component":"vessel","gap":0.04,"time":"2026-07-31T10:30:01Z","message":"vessel deployment MIP did not reach optimal status"}

Console (development):

	2026-07-31T10:30:00Z INF schedule complete component=scheduler
	2026-07-31T10:30:01Z WRN vessel deployment MIP did not reach optimal status component=vessel gap=0.04
*/
package log
