package racelogic

import (
	"github.com/ljlleo7-prog/Box-This-Lap/internal/domain"
	"github.com/ljlleo7-prog/Box-This-Lap/internal/rng"
	"github.com/ljlleo7-prog/Box-This-Lap/internal/strategy"
)

// UpdatePitStop advances one vehicle through the pit-stop state machine of
// §4.6. It is only ever called while v.IsInPit; the physics system detects
// entry and the engine's dispatch routes pit vehicles here instead of
// physics.Update.
func UpdatePitStop(v *domain.VehicleState, race *domain.RaceState, track domain.Track, totalLaps int, r *rng.RNG, dt float64) {
	switch v.PitPhase {
	case domain.PitPhaseDrivingIn:
		if v.PitPhaseDuration == 0 {
			v.PitPhaseDuration = track.PitLane.LaneTime() / 2
		}
		v.Speed = track.PitLane.SpeedLimit
		advancePitPath(v, race, track, dt)
		v.PitPhaseElapsed += dt
		if v.PitPhaseElapsed >= v.PitPhaseDuration {
			enterStopped(v, r)
		}
	case domain.PitPhaseStopped:
		v.Speed = 0
		v.PitPhaseElapsed += dt
		if v.PitPhaseElapsed >= v.PitPhaseDuration {
			v.PitPhase = domain.PitPhaseDrivingOut
			v.PitPhaseElapsed = 0
			v.PitPhaseDuration = track.PitLane.LaneTime() / 2
		}
	case domain.PitPhaseDrivingOut:
		v.Speed = track.PitLane.SpeedLimit
		advancePitPath(v, race, track, dt)
		v.PitPhaseElapsed += dt
		if v.PitPhaseElapsed >= v.PitPhaseDuration {
			v.PitPhase = domain.PitPhaseReleased
		}
	case domain.PitPhaseReleased:
		release(v, race, track, totalLaps)
	default:
		v.PitPhase = domain.PitPhaseDrivingIn
		v.PitPhaseElapsed = 0
		v.PitPhaseDuration = 0
	}
}

// enterStopped samples the stationary dwell time: a base 2.0-2.8s, a rare
// 1% chance of a botched 4-10s stop, and a further +10s penalty for a
// damaged car.
func enterStopped(v *domain.VehicleState, r *rng.RNG) {
	v.PitPhase = domain.PitPhaseStopped
	v.PitPhaseElapsed = 0
	v.Speed = 0

	dwell := r.Range(2.0, 2.8)
	if r.Chance(0.01) {
		dwell = r.Range(4, 10)
	}
	if v.Damage > 10 {
		dwell += 10
	}
	v.PitPhaseDuration = dwell
}

// advancePitPath moves a vehicle along its ordinary on-track coordinate
// while transiting the pit lane, so it renders continuously through the
// entry/exit geometry, wrapping through the finish line and the lap
// counter exactly as normal racing does.
func advancePitPath(v *domain.VehicleState, race *domain.RaceState, track domain.Track, dt float64) {
	delta := v.Speed * dt
	v.DistanceOnLap += delta
	v.TotalDistance += delta
	for v.DistanceOnLap >= track.TotalDistance {
		v.DistanceOnLap -= track.TotalDistance
		v.LapCount++
		if race.CheckeredFlag {
			v.HasFinished = true
		}
	}
	v.CurrentSector = track.SectorAt(v.DistanceOnLap)
}

// release snaps a vehicle out of the pit lane: resets consumables, advances
// the strategy plan and picks the next compound, per §4.6.
func release(v *domain.VehicleState, race *domain.RaceState, track domain.Track, totalLaps int) {
	v.DistanceOnLap = track.PitLane.ExitDistance
	v.CurrentSector = track.SectorAt(v.DistanceOnLap)

	v.PitStopCount++
	v.BoxThisLap = false
	v.TyreWear = 0
	v.TyreAgeLaps = 0
	v.Damage = 0
	v.TyreCompound = strategy.ChooseReleaseCompound(v, race, totalLaps)
	v.StintIndex++

	v.IsInPit = false
	v.PitPhase = domain.PitPhaseNone
	v.PitPhaseElapsed = 0
	v.PitPhaseDuration = 0
}
