package metrics

// RecordVessels updates the vessel-fleet gauges after a vessel.Optimize run.
func RecordVessels(deployed int) {
	VesselsDeployed.Set(float64(deployed))
}

// RecordGenetic updates the genetic-optimizer gauges after a genetic.Optimize run.
func RecordGenetic(bestFitness float64, feasible bool, generations int) {
	GeneticBestFitness.Set(bestFitness)
	GeneticGenerationsRun.Observe(float64(generations))
	if !feasible {
		GeneticFallbacksTotal.Inc()
	}
}

// RecordSchedule updates the per-day margin histogram after a scheduling pass.
func RecordSchedule(dailyMargins []float64) {
	for _, m := range dailyMargins {
		DailyMargin.Observe(m)
	}
}
