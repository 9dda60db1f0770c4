package scheduler

import (
	"fmt"
	"sort"
	"sync"

	"github.com/maercaestro/oasis/pkg/blending"
	"github.com/maercaestro/oasis/pkg/log"
	"github.com/maercaestro/oasis/pkg/tanks"
	"github.com/maercaestro/oasis/pkg/types"
	"github.com/rs/zerolog"
)

// Scheduler runs the greedy day-by-day refinery simulation described in
// package scheduler's doc comment.
type Scheduler struct {
	tankManager *tanks.Manager
	recipes     []types.BlendingRecipe
	vessels     []*types.Vessel
	crudes      map[string]types.Crude
	maxRate     float64
	logger      zerolog.Logger
	mu          sync.Mutex
	dailyPlans  map[int]*types.DailyPlan
}

// New builds a Scheduler. Vessels are held by pointer because a vessel that
// can't fully unload on its scheduled arrival day is delayed in place.
func New(tm *tanks.Manager, recipes []types.BlendingRecipe, vessels []*types.Vessel, crudes map[string]types.Crude, maxRate float64) *Scheduler {
	return &Scheduler{
		tankManager: tm,
		recipes:     recipes,
		vessels:     vessels,
		crudes:      crudes,
		maxRate:     maxRate,
		logger:      log.WithComponent("scheduler"),
		dailyPlans:  make(map[int]*types.DailyPlan),
	}
}

// Run simulates days 1..days in order and returns one DailyPlan per day,
// sorted by day. It returns an error only for configuration problems that
// make the run meaningless (no tanks, no recipes, recipes referencing
// crudes with no margin data) — per-day blend selection failures are
// logged and treated as a day with no blends.
func (s *Scheduler) Run(days int) ([]*types.DailyPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tankManager.Len() == 0 {
		return nil, fmt.Errorf("scheduler: no tanks available for scheduling")
	}
	if len(s.recipes) == 0 {
		return nil, fmt.Errorf("scheduler: no blending recipes provided")
	}
	if missing := s.missingCrudeData(); len(missing) > 0 {
		return nil, fmt.Errorf("scheduler: missing crude data for grades: %v", missing)
	}

	s.dailyPlans = make(map[int]*types.DailyPlan, days)

	for day := 1; day <= days; day++ {
		s.updateInventory(day)

		blends := s.selectBlends()

		plan := s.createDailyPlan(day, blends)
		s.dailyPlans[day] = plan
	}

	return s.sortedPlans(), nil
}

func (s *Scheduler) missingCrudeData() []string {
	grades := make(map[string]struct{})
	for _, r := range s.recipes {
		grades[r.PrimaryGrade] = struct{}{}
		if r.HasSecondary() {
			grades[r.SecondaryGrade] = struct{}{}
		}
	}
	var missing []string
	for g := range grades {
		if _, ok := s.crudes[g]; !ok {
			missing = append(missing, g)
		}
	}
	sort.Strings(missing)
	return missing
}

// updateInventory unloads vessels arriving on day into tanks with room,
// parcel by parcel. A vessel whose cargo can't fully unload is held one
// more day and retried on the next call.
func (s *Scheduler) updateInventory(day int) {
	for _, vessel := range s.vessels {
		if vessel.ArrivalDay != day {
			continue
		}

		unloadedAll := true
		for _, parcel := range vessel.Cargo {
			if !s.tankManager.UnloadParcel(parcel) {
				unloadedAll = false
				s.logger.Warn().
					Int("day", day).
					Str("vessel_id", vessel.VesselID).
					Str("grade", parcel.Grade).
					Float64("volume", parcel.Volume).
					Msg("insufficient tank capacity to unload parcel")
			}
		}

		if !unloadedAll {
			if vessel.OriginalArrivalDay == nil {
				original := vessel.ArrivalDay
				vessel.OriginalArrivalDay = &original
			}
			vessel.DaysHeld++
			vessel.ArrivalDay = day + 1
			s.logger.Info().
				Int("day", day).
				Str("vessel_id", vessel.VesselID).
				Int("new_arrival_day", vessel.ArrivalDay).
				Msg("vessel delayed, cargo did not fully unload")
		}
	}
}

// selectBlends ranks feasible recipes by margin against current tank
// inventory. A panic in the margin engine is recovered and treated as "no
// blends today" so one bad day never aborts the whole run.
func (s *Scheduler) selectBlends() (blends []blending.BlendAllocation) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().Interface("panic", r).Msg("blend selection failed, continuing with no blends")
			blends = nil
		}
	}()

	tankSnapshot := make(map[string]*types.Tank, s.tankManager.Len())
	for _, t := range s.tankManager.Tanks() {
		tankSnapshot[t.Name] = t
	}
	return blending.FindOptimalBlends(s.recipes, s.crudes, tankSnapshot, s.maxRate)
}

// createDailyPlan realizes the chosen blends by withdrawing crude from
// tanks, then snapshots the resulting state into an immutable DailyPlan.
func (s *Scheduler) createDailyPlan(day int, blends []blending.BlendAllocation) *types.DailyPlan {
	processingRates := make(map[string]float64, len(blends))
	recipes := make([]types.BlendingRecipe, 0, len(blends))

	for _, b := range blends {
		processingRates[b.Recipe.Name] = b.Rate
		recipes = append(recipes, b.Recipe)

		primaryVolume := b.Rate * b.Recipe.PrimaryFraction
		s.tankManager.WithdrawGrade(b.Recipe.PrimaryGrade, primaryVolume)

		if b.Recipe.HasSecondary() {
			secondaryVolume := b.Rate * b.Recipe.SecondaryFraction()
			s.tankManager.WithdrawGrade(b.Recipe.SecondaryGrade, secondaryVolume)
		}
	}

	margin := 0.0
	for _, b := range blends {
		margin += b.Margin * b.Rate
	}

	return &types.DailyPlan{
		Day:              day,
		ProcessingRates:  processingRates,
		BlendingDetails:  recipes,
		Inventory:        s.tankManager.TotalInventory(),
		InventoryByGrade: s.tankManager.InventoryByGrade(),
		Tanks:            s.tankManager.Snapshot(),
		DailyMargin:      margin,
	}
}

func (s *Scheduler) sortedPlans() []*types.DailyPlan {
	days := make([]int, 0, len(s.dailyPlans))
	for d := range s.dailyPlans {
		days = append(days, d)
	}
	sort.Ints(days)

	plans := make([]*types.DailyPlan, 0, len(days))
	for _, d := range days {
		plans = append(plans, s.dailyPlans[d])
	}
	return plans
}
