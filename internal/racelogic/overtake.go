package racelogic

import (
	"github.com/ljlleo7-prog/Box-This-Lap/internal/domain"
	"github.com/ljlleo7-prog/Box-This-Lap/internal/rng"
)

// UpdateOvertakes resolves the overtake dice for every battling pair that is
// within striking range, per §4.6. It consumes the shared RNG in fixed
// vehicle order.
func UpdateOvertakes(race *domain.RaceState, track domain.Track, drivers map[string]domain.Driver, r *rng.RNG) {
	for _, v := range race.Vehicles {
		if !v.IsBattling || v.GapToAhead > 0.2 {
			continue
		}
		ahead := raceAhead(race, v)
		if ahead == nil {
			continue
		}
		resolveOvertake(v, ahead, drivers[v.DriverID], drivers[ahead.DriverID], track, r)
	}
}

func raceAhead(race *domain.RaceState, v *domain.VehicleState) *domain.VehicleState {
	for _, other := range race.Vehicles {
		if other.Position == v.Position-1 {
			return other
		}
	}
	return nil
}

func resolveOvertake(attacker, defender *domain.VehicleState, attackerDriver, defenderDriver domain.Driver, track domain.Track, r *rng.RNG) {
	skillDelta := attackerDriver.Skills.Racecraft - defenderDriver.Skills.Racecraft
	speedDelta := attacker.Speed - defender.Speed
	tyreAgeDelta := float64(defender.TyreAgeLaps - attacker.TyreAgeLaps)

	score := 20 + 0.5*skillDelta + 2*speedDelta + 1.5*tyreAgeDelta - 20*track.OvertakingDifficulty
	if attacker.DRSOpen {
		score += 30
	}

	prob := clamp(0.20+0.5*score/100, 0.05, 0.95)
	if r.Chance(0.3) {
		prob = 0.5
	}

	frameProb := prob * 0.1
	if r.Chance(frameProb) {
		attacker.Speed += 5
		attacker.IsBattling = false
		defender.IsBattling = false
		return
	}

	if r.Chance(0.1) {
		attacker.Speed *= 0.95
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
