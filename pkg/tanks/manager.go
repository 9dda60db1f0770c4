package tanks

import (
	"github.com/elliotchance/orderedmap/v2"
	"github.com/maercaestro/oasis/pkg/types"
)

// Manager owns a bank of tanks and enforces their capacity and ordering
// invariants. It is the exclusive mutator of tank state during a scheduler
// run; every other component sees only DailyPlan snapshots.
type Manager struct {
	tanks *orderedmap.OrderedMap[string, *types.Tank]
}

// New builds a Manager over the given tanks, preserving the order they are
// passed in — insertion order drives the greedy scheduler's withdraw/add
// behavior, so callers should pass tanks in the order they were configured.
func New(tanks ...*types.Tank) *Manager {
	m := &Manager{tanks: orderedmap.NewOrderedMap[string, *types.Tank]()}
	for _, t := range tanks {
		m.tanks.Set(t.Name, t)
	}
	return m
}

// Tanks returns the tanks in insertion order.
func (m *Manager) Tanks() []*types.Tank {
	out := make([]*types.Tank, 0, m.tanks.Len())
	for el := m.tanks.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value)
	}
	return out
}

// Get looks up a tank by name.
func (m *Manager) Get(name string) (*types.Tank, bool) {
	return m.tanks.Get(name)
}

// Len reports how many tanks the manager holds.
func (m *Manager) Len() int {
	return m.tanks.Len()
}

// Withdraw subtracts volume from the grade's content entry in tankName,
// pruning the entry if it drops to zero.
// Returns false (mutating nothing) if the tank doesn't exist or doesn't
// hold enough of the grade.
func (m *Manager) Withdraw(tankName, grade string, volume float64) bool {
	tank, ok := m.tanks.Get(tankName)
	if !ok {
		return false
	}

	available := 0.0
	if v, ok := tank.Content.Get(grade); ok {
		available = v
	}
	if available < volume {
		return false
	}

	remaining, ok := tank.Content.Get(grade)
	if !ok {
		return false
	}
	remaining -= volume
	if remaining <= 0 {
		tank.Content.Delete(grade)
	} else {
		tank.Content.Set(grade, remaining)
	}
	return true
}

// Add merges parcel into tankName, appending a new content entry when the
// tank doesn't already hold that grade. Returns false if the parcel would
// overflow the tank's capacity.
func (m *Manager) Add(tankName string, parcel types.FeedstockParcel) bool {
	tank, ok := m.tanks.Get(tankName)
	if !ok {
		return false
	}
	if tank.TotalVolume()+parcel.Volume > tank.Capacity {
		return false
	}
	existing, had := tank.Content.Get(parcel.Grade)
	if had {
		tank.Content.Set(parcel.Grade, existing+parcel.Volume)
	} else {
		tank.Content.Set(parcel.Grade, parcel.Volume)
	}
	return true
}

// GetAvailableVolume sums the volume of grade held across every tank.
func (m *Manager) GetAvailableVolume(grade string) float64 {
	total := 0.0
	for el := m.tanks.Front(); el != nil; el = el.Next() {
		if v, ok := el.Value.Content.Get(grade); ok {
			total += v
		}
	}
	return total
}

// StoreCrude places up to volume of grade into available tanks: tanks
// already holding the grade are topped up first, then any tank with spare
// headroom. Returns the amount actually stored, which may be less than
// volume if capacity runs out.
func (m *Manager) StoreCrude(grade string, volume float64) float64 {
	remaining := volume
	stored := 0.0

	for el := m.tanks.Front(); el != nil && remaining > 0; el = el.Next() {
		tank := el.Value
		space := tank.AvailableSpace()
		if space <= 0 {
			continue
		}
		if _, has := tank.Content.Get(grade); !has {
			continue
		}
		toStore := remaining
		if toStore > space {
			toStore = space
		}
		existing, _ := tank.Content.Get(grade)
		tank.Content.Set(grade, existing+toStore)
		stored += toStore
		remaining -= toStore
	}

	for el := m.tanks.Front(); el != nil && remaining > 0; el = el.Next() {
		tank := el.Value
		space := tank.AvailableSpace()
		if space <= 0 {
			continue
		}
		toStore := remaining
		if toStore > space {
			toStore = space
		}
		existing, has := tank.Content.Get(grade)
		if has {
			tank.Content.Set(grade, existing+toStore)
		} else {
			tank.Content.Set(grade, toStore)
		}
		stored += toStore
		remaining -= toStore
	}

	return stored
}

// UnloadParcel scans tanks in insertion order and deposits the whole parcel
// into the first tank with enough headroom. Parcels are never split across
// tanks. Returns false if no tank has room.
func (m *Manager) UnloadParcel(parcel types.FeedstockParcel) bool {
	for el := m.tanks.Front(); el != nil; el = el.Next() {
		tank := el.Value
		if tank.AvailableSpace() >= parcel.Volume {
			return m.Add(tank.Name, parcel)
		}
	}
	return false
}

// WithdrawGrade withdraws volume of grade by consuming fully from one tank,
// in insertion order, before moving to the next. Returns false (mutating
// nothing) if total availability across all tanks is insufficient.
func (m *Manager) WithdrawGrade(grade string, volume float64) bool {
	if m.GetAvailableVolume(grade) < volume {
		return false
	}
	remaining := volume
	for el := m.tanks.Front(); el != nil && remaining > 1e-12; el = el.Next() {
		tank := el.Value
		held, ok := tank.Content.Get(grade)
		if !ok || held <= 0 {
			continue
		}
		take := remaining
		if take > held {
			take = held
		}
		m.Withdraw(tank.Name, grade, take)
		remaining -= take
	}
	return true
}

// Snapshot deep copies every tank, suitable for embedding in a DailyPlan.
func (m *Manager) Snapshot() map[string]*types.Tank {
	out := make(map[string]*types.Tank, m.tanks.Len())
	for el := m.tanks.Front(); el != nil; el = el.Next() {
		out[el.Key] = el.Value.Clone()
	}
	return out
}

// InventoryByGrade sums current holdings of every grade across all tanks.
func (m *Manager) InventoryByGrade() map[string]float64 {
	totals := make(map[string]float64)
	for el := m.tanks.Front(); el != nil; el = el.Next() {
		for ce := el.Value.Content.Front(); ce != nil; ce = ce.Next() {
			totals[ce.Key] += ce.Value
		}
	}
	return totals
}

// TotalInventory sums every grade across every tank.
func (m *Manager) TotalInventory() float64 {
	total := 0.0
	for _, v := range m.InventoryByGrade() {
		total += v
	}
	return total
}
