package racelogic

import "github.com/ljlleo7-prog/Box-This-Lap/internal/domain"

// UpdateFinish raises the checkered flag once the race leader crosses the
// final lap, records the winner, and transitions the race to finished once
// every car still running (damage below the retirement threshold) has
// crossed the line itself, per §4.6.
func UpdateFinish(race *domain.RaceState, totalLaps int) {
	if !race.CheckeredFlag {
		for _, v := range race.Vehicles {
			if v.Position == 1 && v.LapCount >= totalLaps {
				race.CheckeredFlag = true
				race.WinnerID = v.DriverID
				break
			}
		}
	}

	if !race.CheckeredFlag {
		return
	}

	for _, v := range race.Vehicles {
		if v.Damage >= 100 {
			continue
		}
		if !v.HasFinished {
			return
		}
	}
	race.Status = domain.StatusFinished
}
