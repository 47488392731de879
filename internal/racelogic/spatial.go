package racelogic

import (
	"sort"

	"github.com/ljlleo7-prog/Box-This-Lap/internal/domain"
)

const (
	dirtyAirThreshold = 1.5
	battlingThreshold = 0.4
	blueFlagThreshold = 1.2
)

// UpdateSpatialAwareness computes the purely physical, lap-agnostic gap to
// the car immediately ahead on the circular track for every vehicle, and
// derives dirty air, battling and blue-flag state from it, per §4.6.
func UpdateSpatialAwareness(race *domain.RaceState, track domain.Track) {
	n := len(race.Vehicles)
	if n == 0 {
		return
	}

	ordered := make([]*domain.VehicleState, n)
	copy(ordered, race.Vehicles)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].DistanceOnLap > ordered[j].DistanceOnLap
	})

	for i, v := range ordered {
		aheadIdx := (i - 1 + n) % n
		ahead := ordered[aheadIdx]

		gapDistance := ahead.DistanceOnLap - v.DistanceOnLap
		if i == 0 {
			gapDistance = track.TotalDistance - v.DistanceOnLap + ahead.DistanceOnLap
		}

		speed := v.Speed
		if speed < 1 {
			speed = 1
		}
		gapTime := gapDistance / speed

		v.PhysicalGapAhead = gapTime
		v.AheadDriverID = ahead.DriverID
		v.InDirtyAir = gapTime < dirtyAirThreshold
		v.IsBattling = gapTime < battlingThreshold
	}

	for i, v := range ordered {
		behindIdx := (i + 1) % n
		behind := ordered[behindIdx]

		gapDistance := v.DistanceOnLap - behind.DistanceOnLap
		if i == n-1 {
			gapDistance = track.TotalDistance - behind.DistanceOnLap + v.DistanceOnLap
		}

		speed := behind.Speed
		if speed < 1 {
			speed = 1
		}
		gapTime := gapDistance / speed

		v.PhysicalGapBehind = gapTime
		v.BlueFlag = behind.LapCount > v.LapCount && gapTime < blueFlagThreshold
	}
}
