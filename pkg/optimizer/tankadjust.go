package optimizer

import (
	"sort"

	"github.com/maercaestro/oasis/pkg/types"
)

// ReconstructTanks rebuilds a tank snapshot to match targetInventory (a
// per-grade total the LP solved for), preserving the tank structure of
// originalTanks. It runs in two passes: first it tops up each tank's
// existing grade assignments up to capacity, then it spills any remaining
// inventory into whichever tanks still have headroom, visiting tanks in
// name order.
func ReconstructTanks(originalTanks map[string]*types.Tank, targetInventory map[string]float64) map[string]*types.Tank {
	adjusted := make(map[string]*types.Tank, len(originalTanks))
	names := make([]string, 0, len(originalTanks))
	for name, t := range originalTanks {
		adjusted[name] = types.NewTank(name, t.Capacity)
		names = append(names, name)
	}
	sort.Strings(names)

	remaining := make(map[string]float64, len(targetInventory))
	grades := make([]string, 0, len(targetInventory))
	for g, v := range targetInventory {
		remaining[g] = v
		grades = append(grades, g)
	}
	sort.Strings(grades)

	for _, name := range names {
		original := originalTanks[name]
		for el := original.Content.Front(); el != nil; el = el.Next() {
			grade := el.Key
			if remaining[grade] <= 0 {
				continue
			}
			space := adjusted[name].AvailableSpace()
			if space <= 0 {
				continue
			}
			amount := remaining[grade]
			if amount > space {
				amount = space
			}
			if amount <= 0 {
				continue
			}
			addToTank(adjusted[name], grade, amount)
			remaining[grade] -= amount
		}
	}

	for _, grade := range grades {
		volume := remaining[grade]
		if volume <= 0.001 {
			continue
		}
		for _, name := range names {
			space := adjusted[name].AvailableSpace()
			if space <= 0 {
				continue
			}
			amount := volume
			if amount > space {
				amount = space
			}
			if amount <= 0 {
				continue
			}
			addToTank(adjusted[name], grade, amount)
			volume -= amount
			if volume < 0.001 {
				break
			}
		}
	}

	return adjusted
}

func addToTank(t *types.Tank, grade string, amount float64) {
	existing, ok := t.Content.Get(grade)
	if ok {
		t.Content.Set(grade, existing+amount)
	} else {
		t.Content.Set(grade, amount)
	}
}
