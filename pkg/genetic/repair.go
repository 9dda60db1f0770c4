package genetic

import "github.com/maercaestro/oasis/pkg/types"

// repair runs after mutation or crossover. Each recipe run shorter than
// MinRecipeRunHours is lengthened backward over the hours just before it,
// whatever they held; a run that starts too close to hour 0 stays short,
// and a preceding run shortened by the extension is not checked again, so
// the minimum run length is not guaranteed afterwards. Then any day whose
// total productive rate exceeds MaxDailyCapacity is scaled down to it.
func repair(c Chromosome, cfg Config) {
	for d := range c.Days {
		repairDay(c.Days[d], cfg)
	}
}

func repairDay(day []types.HourlyOperation, cfg Config) {
	h := 0
	for h < len(day) {
		if !day[h].IsProductive() {
			h++
			continue
		}
		recipe := day[h].RecipeName
		start := h
		end := h
		for end+1 < len(day) && day[end+1].IsProductive() && day[end+1].RecipeName == recipe {
			end++
		}
		length := end - start + 1
		if length < cfg.MinRecipeRunHours {
			need := cfg.MinRecipeRunHours - length
			newStart := start - need
			if newStart < 0 {
				newStart = 0
			}
			rate := day[start].ProcessingRate
			for i := newStart; i < start; i++ {
				day[i] = types.HourlyOperation{Hour: i, RecipeName: recipe, ProcessingRate: rate}
			}
			start = newStart
		}
		h = end + 1
	}

	total := 0.0
	for _, op := range day {
		total += op.EffectiveRate()
	}
	if total > cfg.MaxDailyCapacity && total > 0 {
		factor := cfg.MaxDailyCapacity / total
		for i := range day {
			if day[i].IsProductive() {
				day[i].ProcessingRate *= factor
			}
		}
	}
}
