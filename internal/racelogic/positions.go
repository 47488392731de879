package racelogic

import (
	"sort"

	"github.com/ljlleo7-prog/Box-This-Lap/internal/domain"
)

// UpdatePositions recomputes race position and the leader/ahead gaps for
// every vehicle, per §4.6. The underlying Vehicles slice order is never
// touched — only a local copy is sorted to derive Position. Once the
// checkered flag has fallen, the recorded winner is pinned to position 1
// regardless of what happens behind it, per §8's "no new vehicle can become
// position=1 except the current winnerId" invariant.
func UpdatePositions(race *domain.RaceState, track domain.Track) {
	ordered := make([]*domain.VehicleState, len(race.Vehicles))
	copy(ordered, race.Vehicles)

	sort.SliceStable(ordered, func(i, j int) bool {
		if race.CheckeredFlag && race.WinnerID != "" {
			iWins := ordered[i].DriverID == race.WinnerID
			jWins := ordered[j].DriverID == race.WinnerID
			if iWins != jWins {
				return iWins
			}
		}
		if ordered[i].LapCount != ordered[j].LapCount {
			return ordered[i].LapCount > ordered[j].LapCount
		}
		return ordered[i].DistanceOnLap > ordered[j].DistanceOnLap
	})

	for i, v := range ordered {
		prev := v.Position
		v.LastPosition = prev
		v.Position = i + 1
		if prev != 0 && v.Position != prev {
			applyPositionChange(v, v.Position < prev)
		}
	}

	if len(ordered) == 0 {
		return
	}
	leader := ordered[0]
	leaderDist := leader.RaceDistance(track.TotalDistance)

	for i, v := range ordered {
		if i == 0 {
			v.GapToAhead = 0
			v.GapToLeader = 0
			continue
		}
		ahead := ordered[i-1]
		denom := v.Speed
		if denom < 20 {
			denom = 20
		}
		vDist := v.RaceDistance(track.TotalDistance)
		v.GapToAhead = (ahead.RaceDistance(track.TotalDistance) - vDist) / denom
		v.GapToLeader = (leaderDist - vDist) / denom
	}
}

// applyPositionChange applies the morale and concentration deltas of §4.6
// on a position change: gaining a spot lifts morale and costs a little
// concentration; losing one does both harder.
func applyPositionChange(v *domain.VehicleState, gained bool) {
	if gained {
		v.Morale += 10
		v.Concentration -= 5
	} else {
		v.Morale -= 10
		v.Concentration -= 10
	}
	v.Morale = clamp(v.Morale, 0, 100)
	v.Concentration = clamp(v.Concentration, 0, 100)
}
