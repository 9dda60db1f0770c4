package types

import (
	"github.com/elliotchance/orderedmap/v2"
)

// Crude is reference data for a single crude grade. Crudes are loaded once
// per planning run and never mutated.
type Crude struct {
	Name   string
	Margin float64 // currency per kb
	Origin string

	// API, Sulfur, and PurchasePrice are only consulted by the
	// quality-constrained 5-tank LP variant; every other engine works off
	// Margin alone.
	API           float64
	Sulfur        float64
	PurchasePrice float64
}

// Product is a finished blend specification for the 5-tank variant: an
// API/sulfur quality window a blend's crude mixture must fall within, a
// sale price, and a daily production cap.
type Product struct {
	Name      string
	MinAPI    float64
	MaxAPI    float64
	MinSulfur float64
	MaxSulfur float64
	Price     float64
	MaxPerDay float64
}

// TankContent is an insertion-ordered grade→volume map. The greedy
// scheduler's withdraw and add behavior depends on the order tanks were
// populated, so a plain Go map (unordered iteration) cannot stand in for it.
type TankContent = orderedmap.OrderedMap[string, float64]

// Tank holds crude inventory under a capacity limit. Content is kept in an
// ordered map so that withdraw/add always walks grade entries in the order
// they were first added, matching the greedy scheduler's deterministic
// behavior.
type Tank struct {
	Name     string
	Capacity float64
	Content  *TankContent
}

// NewTank returns an empty tank ready for use.
func NewTank(name string, capacity float64) *Tank {
	return &Tank{Name: name, Capacity: capacity, Content: orderedmap.NewOrderedMap[string, float64]()}
}

// TotalVolume sums every grade entry currently held in the tank.
func (t *Tank) TotalVolume() float64 {
	total := 0.0
	for el := t.Content.Front(); el != nil; el = el.Next() {
		total += el.Value
	}
	return total
}

// AvailableSpace returns the remaining pumpable headroom.
func (t *Tank) AvailableSpace() float64 {
	return t.Capacity - t.TotalVolume()
}

// Clone deep copies the tank, including its content entries, so that a
// DailyPlan snapshot never aliases live tank state.
func (t *Tank) Clone() *Tank {
	clone := NewTank(t.Name, t.Capacity)
	for el := t.Content.Front(); el != nil; el = el.Next() {
		clone.Content.Set(el.Key, el.Value)
	}
	return clone
}

// BlendingRecipe is a pairing of a primary grade, an optional secondary
// grade, and the fractions that combine to a bounded daily processing rate.
type BlendingRecipe struct {
	Name            string
	PrimaryGrade    string
	SecondaryGrade  string // empty means no secondary grade
	MaxRate         float64
	PrimaryFraction float64 // fraction of PrimaryGrade in the blend, in (0,1]
}

// HasSecondary reports whether the recipe blends in a second grade.
func (r BlendingRecipe) HasSecondary() bool {
	return r.SecondaryGrade != ""
}

// SecondaryFraction is the complement of PrimaryFraction, or zero when the
// recipe has no secondary grade.
func (r BlendingRecipe) SecondaryFraction() float64 {
	if !r.HasSecondary() {
		return 0
	}
	return 1.0 - r.PrimaryFraction
}

// LoadingWindow is an inclusive day range during which a parcel may load at
// its origin terminal.
type LoadingWindow struct {
	Start int
	End   int
}

// FeedstockParcel is a volume of a specific crude grade loaded at a specific
// origin during a specific loading window, optionally carried on a vessel.
type FeedstockParcel struct {
	Grade    string
	Volume   float64
	LDR      LoadingWindow
	Origin   string
	VesselID string // empty if not yet assigned to a vessel
}

// FeedstockRequirement is a demand for a feedstock parcel that the vessel
// optimizer must satisfy: load within AllowedLDR, arrive by RequiredArrivalBy.
type FeedstockRequirement struct {
	Grade             string
	Volume            float64
	Origin            string
	AllowedLDR        LoadingWindow
	RequiredArrivalBy int
}

// RouteSegmentAction tags a leg of a vessel's route. Modeled as a sum type
// rather than optional fields on a single struct, since only one
// combination of fields is ever meaningful per action.
type RouteSegmentAction string

const (
	ActionTravel       RouteSegmentAction = "travel"
	ActionWait         RouteSegmentAction = "wait"
	ActionEnterLoading RouteSegmentAction = "enter_loading"
	ActionRequirement  RouteSegmentAction = "requirement_flow"
	ActionDeliver      RouteSegmentAction = "deliver"
)

// RouteSegment is one traversed leg of a vessel's time-space path.
type RouteSegment struct {
	Action   RouteSegmentAction
	From     string
	To       string
	DayStart int
	DayEnd   int
}

// Vessel carries feedstock parcels from origin terminals to the refinery.
type Vessel struct {
	VesselID           string
	ArrivalDay         int
	Cost               float64 // cost per kb
	Capacity           float64
	Cargo              []FeedstockParcel
	OriginalArrivalDay *int // pre-deferral ArrivalDay, set once by the scheduler the first time a vessel is held
	DaysHeld           int
	Route              []RouteSegment
}

// TotalCargoVolume sums the volume of every parcel aboard.
func (v *Vessel) TotalCargoVolume() float64 {
	total := 0.0
	for _, p := range v.Cargo {
		total += p.Volume
	}
	return total
}

// DistinctGrades counts the number of distinct crude grades aboard.
func (v *Vessel) DistinctGrades() int {
	seen := make(map[string]struct{}, len(v.Cargo))
	for _, p := range v.Cargo {
		seen[p.Grade] = struct{}{}
	}
	return len(seen)
}

// Route is a lane between an origin and destination terminal with a travel
// time and a flat deployment cost.
type Route struct {
	Origin      string
	Destination string
	TimeTravel  float64 // days
	Cost        float64
}

const defaultRouteCost = 10000.0

// NewRoute returns a route, defaulting Cost to defaultRouteCost when cost
// is negative (callers pass -1 to request the default).
func NewRoute(origin, destination string, timeTravel, cost float64) Route {
	if cost < 0 {
		cost = defaultRouteCost
	}
	return Route{Origin: origin, Destination: destination, TimeTravel: timeTravel, Cost: cost}
}

// Plant is the refinery itself: its nameplate capacity, the crude slate it
// was designed around, and the maximum inventory it can hold across all
// tanks combined.
type Plant struct {
	Name              string
	Capacity          float64
	BaseCrudeCapacity float64
	MaxInventory      float64
}

// HourlyOperation represents one hour of refinery operation: either
// productive (a recipe running at a rate) or a changeover between recipes.
type HourlyOperation struct {
	Hour               int // 0-23
	RecipeName         string
	ProcessingRate     float64
	IsChangeover       bool
	ChangeoverFrom     string
	ChangeoverTo       string
	ChangeoverProgress float64 // 0..1 for multi-hour changeovers
}

// IsProductive reports whether this hour produces output.
func (h HourlyOperation) IsProductive() bool {
	return !h.IsChangeover && h.RecipeName != ""
}

// EffectiveRate returns the processing rate if productive, else zero.
func (h HourlyOperation) EffectiveRate() float64 {
	if h.IsProductive() {
		return h.ProcessingRate
	}
	return 0
}

// DailyPlan is the immutable snapshot produced once per simulated day by the
// greedy scheduler (and re-derived by the LP refiner). Tanks is a deep copy
// so that later mutation of live tank state never aliases a historical plan.
type DailyPlan struct {
	Day              int
	ProcessingRates  map[string]float64 // recipe name -> kb/day
	BlendingDetails  []BlendingRecipe
	Inventory        float64
	InventoryByGrade map[string]float64
	Tanks            map[string]*Tank
	DailyMargin      float64
	HourlySchedule   []HourlyOperation // nil when no hourly detail was produced
}

// GetHourlyProduction sums the effective rate of every hour in the plan.
func (p *DailyPlan) GetHourlyProduction() float64 {
	total := 0.0
	for _, h := range p.HourlySchedule {
		total += h.EffectiveRate()
	}
	return total
}

// GetChangeoverCount counts changeover hours in the plan.
func (p *DailyPlan) GetChangeoverCount() int {
	count := 0
	for _, h := range p.HourlySchedule {
		if h.IsChangeover {
			count++
		}
	}
	return count
}

// GetRecipeHours returns the hours in which the named recipe was running.
func (p *DailyPlan) GetRecipeHours(recipeName string) []int {
	var hours []int
	for _, h := range p.HourlySchedule {
		if h.IsProductive() && h.RecipeName == recipeName {
			hours = append(hours, h.Hour)
		}
	}
	return hours
}

// ValidateHourlyConsistency checks that the hourly schedule's per-recipe
// totals match the daily processing rates within a small tolerance. Returns
// true when there is no hourly schedule to validate against.
func (p *DailyPlan) ValidateHourlyConsistency() bool {
	if len(p.HourlySchedule) == 0 {
		return true
	}
	const tolerance = 0.01

	hourlyTotals := make(map[string]float64)
	for _, h := range p.HourlySchedule {
		if h.IsProductive() {
			hourlyTotals[h.RecipeName] += h.ProcessingRate
		}
	}
	for recipe, dailyRate := range p.ProcessingRates {
		diff := dailyRate - hourlyTotals[recipe]
		if diff < 0 {
			diff = -diff
		}
		if diff > tolerance {
			return false
		}
	}
	return true
}
