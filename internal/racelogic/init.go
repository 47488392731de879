// Package racelogic implements the RaceLogicSystem of §4.6: race
// initialization, the safety-car/incident model, the pit-stop state
// machine, DRS gating, the overtake resolver, position/gap computation,
// spatial awareness and morale/concentration drift.
package racelogic

import (
	"sort"

	"github.com/ljlleo7-prog/Box-This-Lap/internal/domain"
	"github.com/ljlleo7-prog/Box-This-Lap/internal/rng"
)

const gridSpacing = 16.0

// Initialize runs the seed-derived qualifying simulation, places the grid,
// and seeds per-vehicle condition, tyres and sector conditions. Drivers are
// consumed in the given slice order, which is part of the RNG consumption
// contract: callers must never reorder drivers between runs of the same
// seed.
func Initialize(race *domain.RaceState, track domain.Track, drivers []domain.Driver, r *rng.RNG) []*domain.VehicleState {
	type qualyResult struct {
		driver  domain.Driver
		lapTime float64
	}

	results := make([]qualyResult, len(drivers))
	for i, d := range drivers {
		lapTime := d.BasePace + (100-d.Skills.Consistency)*0.005 + r.Range(-0.4, 0.4)
		results[i] = qualyResult{driver: d, lapTime: lapTime}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].lapTime < results[j].lapTime
	})

	race.SectorConditions = make([]domain.SectorConditions, len(track.Sectors))
	for i := range race.SectorConditions {
		race.SectorConditions[i] = domain.SectorConditions{WaterDepth: 0, RubberLevel: 50}
	}
	race.RubberLevel = 50

	vehicles := make([]*domain.VehicleState, len(results))
	for i, res := range results {
		gridDistance := track.TotalDistance - float64(i+1)*gridSpacing + r.Range(-1, 1)
		condition := r.Range(0.99, 1.01)
		compound := initialCompound(res.driver, race.RainIntensityLevel, r)

		vehicles[i] = &domain.VehicleState{
			DriverID:       res.driver.ID,
			DistanceOnLap:  gridDistance,
			CurrentSector:  1,
			Condition:      condition,
			TyreCompound:   compound,
			FuelLoad:       100,
			ERSLevel:       50,
			ERSMode:        domain.ERSModeBalanced,
			PaceMode:       domain.PaceModeBalanced,
			Morale:         res.driver.StartingMorale,
			Concentration:  100,
			Position:       i + 1,
			LastPosition:   i + 1,
		}
	}

	race.Vehicles = vehicles
	return vehicles
}

// initialCompound picks a vehicle's starting tyre: rain-driven if the
// initial weather draw already shows significant rain, otherwise an
// aggression-weighted pick among the three slick compounds.
func initialCompound(driver domain.Driver, rainIntensity float64, r *rng.RNG) domain.TyreCompound {
	switch {
	case rainIntensity > 60:
		return domain.CompoundWet
	case rainIntensity > 10:
		return domain.CompoundIntermediate
	}

	p := driver.Personality.Aggression / 100
	softWeight := 0.2 + 0.6*p
	mediumWeight := 0.5
	hardWeight := 0.2 + 0.6*(1-p)
	total := softWeight + mediumWeight + hardWeight

	draw := r.Next() * total
	switch {
	case draw < softWeight:
		return domain.CompoundSoft
	case draw < softWeight+mediumWeight:
		return domain.CompoundMedium
	default:
		return domain.CompoundHard
	}
}
