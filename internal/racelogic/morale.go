package racelogic

import "github.com/ljlleo7-prog/Box-This-Lap/internal/domain"

// UpdateMoraleConcentration drifts morale toward its 80 baseline and
// recovers or drains concentration per §4.6's tick rules.
func UpdateMoraleConcentration(race *domain.RaceState, dt float64) {
	for _, v := range race.Vehicles {
		v.Morale += 0.01 * dt * (80 - v.Morale)
		if v.InDirtyAir {
			v.Morale -= 0.5 * dt
		}
		if v.PhysicalGapBehind < 0.5 {
			v.Morale += 0.2 * dt
		}
		v.Morale = clamp(v.Morale, 0, 100)

		concDelta := 5 * dt
		if v.LapCount == 0 && v.CurrentSector == 1 {
			concDelta = -10 * dt
		}
		if v.IsBattling {
			concDelta -= 2 * dt
		}
		if v.InDirtyAir {
			concDelta -= 1 * dt
		}
		v.Concentration += concDelta
		v.Concentration = clamp(v.Concentration, 0, 100)
	}
}
