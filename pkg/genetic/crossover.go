package genetic

import (
	"math/rand"

	"github.com/maercaestro/oasis/pkg/types"
)

// crossover performs day-wise uniform crossover: for each day
// independently, child1 inherits parent1's or parent2's day with equal
// probability, and child2 receives the complementary parent's day. Both
// children are repaired before being returned.
func crossover(p1, p2 Chromosome, cfg Config, rng *rand.Rand) (Chromosome, Chromosome) {
	c1 := Chromosome{Days: make([][]types.HourlyOperation, len(p1.Days))}
	c2 := Chromosome{Days: make([][]types.HourlyOperation, len(p1.Days))}

	for d := range p1.Days {
		if rng.Intn(2) == 0 {
			c1.Days[d] = append([]types.HourlyOperation(nil), p1.Days[d]...)
			c2.Days[d] = append([]types.HourlyOperation(nil), p2.Days[d]...)
		} else {
			c1.Days[d] = append([]types.HourlyOperation(nil), p2.Days[d]...)
			c2.Days[d] = append([]types.HourlyOperation(nil), p1.Days[d]...)
		}
	}

	repair(c1, cfg)
	repair(c2, cfg)
	return c1, c2
}
