package racelogic

import "github.com/ljlleo7-prog/Box-This-Lap/internal/domain"

// UpdateDRS gates drsOpen per §4.6: available from lap 3 in dry weather
// without a safety car, and only for a vehicle inside an activation zone,
// not leading, and within a second of the car ahead.
func UpdateDRS(race *domain.RaceState, track domain.Track) {
	eligible := race.Weather == domain.WeatherDry && race.SafetyCar == domain.SafetyCarNone

	for _, v := range race.Vehicles {
		if !eligible || v.LapCount+1 < 3 || v.Position == 1 || v.GapToAhead >= 1.0 {
			v.DRSOpen = false
			continue
		}
		v.DRSOpen = inAnyDRSZone(v.DistanceOnLap, track.DRSZones)
	}
}

func inAnyDRSZone(distance float64, zones []domain.DRSZone) bool {
	for _, z := range zones {
		if distance >= z.ActivationDistance && distance <= z.EndDistance {
			return true
		}
	}
	return false
}
