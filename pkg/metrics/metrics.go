package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Solver metrics, recorded around each solver.Solve call by the LP
	// refiner, the five-tank variant, and the vessel MIP
	SolverWallClock = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "oasis_solver_wall_clock_seconds",
			Help:    "Wall-clock time spent inside a solver.Solve call, by engine",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"engine"},
	)

	SolverRelativeGap = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "oasis_solver_relative_gap",
			Help: "Relative optimality gap achieved by the last solve, by engine",
		},
		[]string{"engine"},
	)

	SolverStatusTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oasis_solver_status_total",
			Help: "Total solver runs by engine and terminal status",
		},
		[]string{"engine", "status"},
	)

	// Genetic optimizer metrics
	GeneticGenerationsRun = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "oasis_genetic_generations_run",
			Help:    "Number of generations run before termination",
			Buckets: []float64{5, 10, 25, 50, 100, 200, 500},
		},
	)

	GeneticBestFitness = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "oasis_genetic_best_fitness",
			Help: "Best fitness score found by the most recent genetic optimizer run",
		},
	)

	GeneticFallbacksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "oasis_genetic_fallbacks_total",
			Help: "Total number of genetic optimizer runs that never found a feasible schedule",
		},
	)

	// Vessel optimizer metrics
	VesselsDeployed = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "oasis_vessels_deployed",
			Help: "Number of vessels deployed by the most recent vessel optimizer run",
		},
	)

	RequirementsUnmet = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "oasis_requirements_unmet",
			Help: "Number of feedstock requirements left unmet by the most recent vessel optimizer run",
		},
	)

	// Scheduler metrics
	SchedulingLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "oasis_scheduling_latency_seconds",
			Help:    "Time taken to build a full greedy schedule",
			Buckets: prometheus.DefBuckets,
		},
	)

	TankStockoutsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oasis_tank_stockouts_total",
			Help: "Total number of days a grade ran short of the rate the scheduler wanted to draw",
		},
		[]string{"grade"},
	)

	DailyMargin = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "oasis_daily_margin_dollars",
			Help:    "Distribution of per-day margin across planned days",
			Buckets: []float64{-10000, 0, 10000, 50000, 100000, 250000, 500000, 1000000},
		},
	)
)

func init() {
	prometheus.MustRegister(SolverWallClock)
	prometheus.MustRegister(SolverRelativeGap)
	prometheus.MustRegister(SolverStatusTotal)
	prometheus.MustRegister(GeneticGenerationsRun)
	prometheus.MustRegister(GeneticBestFitness)
	prometheus.MustRegister(GeneticFallbacksTotal)
	prometheus.MustRegister(VesselsDeployed)
	prometheus.MustRegister(RequirementsUnmet)
	prometheus.MustRegister(SchedulingLatency)
	prometheus.MustRegister(TankStockoutsTotal)
	prometheus.MustRegister(DailyMargin)
}

// Handler returns the Prometheus HTTP handler used to expose /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a helper for timing operations.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the duration to a histogram.
func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	duration := time.Since(t.start).Seconds()
	histogram.Observe(duration)
}

// ObserveDurationVec records the duration to a histogram vec with labels.
func (t *Timer) ObserveDurationVec(histogram prometheus.ObserverVec, labels ...string) {
	duration := time.Since(t.start).Seconds()
	histogram.WithLabelValues(labels...).Observe(duration)
}

// Duration returns the elapsed time since the timer started.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
