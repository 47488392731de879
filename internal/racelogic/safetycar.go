package racelogic

import (
	"sort"

	"github.com/ljlleo7-prog/Box-This-Lap/internal/domain"
	"github.com/ljlleo7-prog/Box-This-Lap/internal/rng"
)

// UpdateSafetyCar advances the safety-car/incident model by dt: while a
// neutralization is active it counts down the timer and, on expiry, either
// lifts the regime or runs the red-flag restart; otherwise it samples for a
// new incident across the field, per §4.6.
func UpdateSafetyCar(race *domain.RaceState, track domain.Track, drivers map[string]domain.Driver, r *rng.RNG, dt float64) {
	if race.SafetyCar != domain.SafetyCarNone {
		race.SafetyCarTimer -= dt
		if race.SafetyCarTimer <= 0 {
			wasRedFlag := race.SafetyCar == domain.SafetyCarRedFlag
			race.SafetyCar = domain.SafetyCarNone
			race.SafetyCarTimer = 0
			if wasRedFlag {
				restartGrid(race, track)
			}
		}
		return
	}

	sampleIncidents(race, track, drivers, r, dt)
}

// sampleIncidents draws one risk roll per active vehicle, in fixed vehicle
// order, and dispatches at most one incident this tick.
func sampleIncidents(race *domain.RaceState, track domain.Track, drivers map[string]domain.Driver, r *rng.RNG, dt float64) {
	triggered := false
	for _, v := range race.Vehicles {
		if v.IsDNF() || v.HasFinished {
			continue
		}
		risk := incidentRisk(v, drivers[v.DriverID], track, race.RainIntensityLevel, dt)
		if r.Chance(risk) && !triggered {
			triggered = true
			dispatchIncident(race, track, v, r)
		}
	}
}

// incidentRisk computes the per-tick incident probability for one vehicle
// from the base rate and the full context-factor stack of §4.6.
func incidentRisk(v *domain.VehicleState, driver domain.Driver, track domain.Track, rainIntensity, dt float64) float64 {
	risk := 1e-5 * dt

	risk *= 1 + 9*(100-v.Concentration)/100
	if v.IsBattling {
		risk *= 4
		if driver.Personality.Aggression > 60 {
			risk *= 1.5
		}
	}
	if v.InDirtyAir {
		risk *= 1.5
	}
	if v.TyreWear > 70 {
		risk *= 1 + (v.TyreWear-70)/30
	}

	isSlick := v.TyreCompound == domain.CompoundSoft || v.TyreCompound == domain.CompoundMedium || v.TyreCompound == domain.CompoundHard
	isRainTyre := v.TyreCompound == domain.CompoundIntermediate || v.TyreCompound == domain.CompoundWet
	if (isSlick && rainIntensity > 10) || (isRainTyre && rainIntensity < 10) {
		risk *= 10
	}
	if rainIntensity > 50 {
		risk *= 2
	}

	risk *= 1 + 3*(100-driver.Skills.Consistency)/100
	risk *= 1 + 2*(v.Stress/100)*(1-driver.Personality.StressResistance/100)
	risk *= 1 + 0.5*track.TrackDifficulty

	return risk
}

// dispatchIncident derives a severity score and applies its effects to v.
func dispatchIncident(race *domain.RaceState, track domain.Track, v *domain.VehicleState, r *rng.RNG) {
	severity := severityScore(v, track, r)

	switch {
	case severity > 80:
		v.Damage = 100
		race.SafetyCar = domain.SafetyCarRedFlag
		race.SafetyCarTimer = r.Range(15, 45)
		logIncident(race, domain.RaceCtrlCategoryFlag, "red flag")
	case severity > 50:
		if r.Chance(0.7) {
			v.Damage = 100
		} else {
			v.Damage += r.Range(30, 60)
			clampDamage(v)
		}
		race.SafetyCar = domain.SafetyCarSC
		race.SafetyCarTimer = r.Range(180, 400)
		logIncident(race, domain.RaceCtrlCategorySafetyCar, "safety car deployed")
	default:
		v.Damage += r.Range(5, 20)
		clampDamage(v)
		v.Speed *= 0.3
		race.SafetyCar = domain.SafetyCarVSC
		race.SafetyCarTimer = r.Range(45, 120)
		logIncident(race, domain.RaceCtrlCategorySafetyCar, "virtual safety car deployed")
	}
}

func clampDamage(v *domain.VehicleState) {
	if v.Damage > 100 {
		v.Damage = 100
	}
}

// severityScore derives an incident's severity from current speed, sector
// type and a random component.
func severityScore(v *domain.VehicleState, track domain.Track, r *rng.RNG) float64 {
	speedTerm := (v.Speed / 150) * 40
	return speedTerm + sectorSeverityWeight(v, track) + r.Range(0, 30)
}

func sectorSeverityWeight(v *domain.VehicleState, track domain.Track) float64 {
	idx := v.CurrentSector - 1
	if idx < 0 || idx >= len(track.Sectors) {
		return 5
	}
	switch track.Sectors[idx].Type {
	case domain.SectorCornerHighSpeed:
		return 35
	case domain.SectorCornerMediumSpeed:
		return 20
	case domain.SectorCornerLowSpeed:
		return 10
	default:
		return 5
	}
}

func logIncident(race *domain.RaceState, category, body string) {
	race.RaceCtrlMsgs = append(race.RaceCtrlMsgs, domain.RaceCtrlMsg{
		Lap:        race.CurrentLap,
		ElapsedSec: race.ElapsedTime,
		Category:   category,
		Body:       body,
	})
}

// restartGrid re-grids active vehicles by current position at gridSpacing
// just before the finish line, unlaps them to the leader's lap count, and
// resets speed, gaps and transient flags, per §4.6's red-flag restart.
func restartGrid(race *domain.RaceState, track domain.Track) {
	active := make([]*domain.VehicleState, 0, len(race.Vehicles))
	for _, v := range race.Vehicles {
		if !v.IsDNF() {
			active = append(active, v)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].Position < active[j].Position
	})

	leaderLap := 0
	for _, v := range active {
		if v.LapCount > leaderLap {
			leaderLap = v.LapCount
		}
	}

	for i, v := range active {
		v.LapCount = leaderLap
		v.DistanceOnLap = track.TotalDistance - float64(i+1)*gridSpacing
		v.Speed = 0
		v.GapToAhead = 0
		v.GapToLeader = 0
		v.DRSOpen = false
		v.InDirtyAir = false
		v.IsBattling = false
		v.BlueFlag = false
	}
}
