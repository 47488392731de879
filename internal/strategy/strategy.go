// Package strategy implements the StrategySystem of §4.5: pre-race stint
// planning, the in-race pit-window decision, and compound selection on
// release from the pit lane.
package strategy

import (
	"math"

	"github.com/ljlleo7-prog/Box-This-Lap/internal/domain"
	"github.com/ljlleo7-prog/Box-This-Lap/internal/rng"
)

const (
	pitWindowFar  = 1000.0 // meters before pit entry the decision window opens
	pitWindowNear = 50.0   // meters before pit entry the decision window closes
	forecastLookaheadSeconds = 300.0
)

var baseLife = map[domain.TyreCompound]float64{
	domain.CompoundSoft:   15,
	domain.CompoundMedium: 25,
	domain.CompoundHard:   40,
}

type stintPlan struct {
	sequence []domain.TyreCompound
}

var aggressivePlans = []stintPlan{
	{sequence: []domain.TyreCompound{domain.CompoundSoft, domain.CompoundHard}},
	{sequence: []domain.TyreCompound{domain.CompoundSoft, domain.CompoundMedium, domain.CompoundSoft}},
}

var conservativePlans = []stintPlan{
	{sequence: []domain.TyreCompound{domain.CompoundMedium, domain.CompoundHard}},
	{sequence: []domain.TyreCompound{domain.CompoundSoft, domain.CompoundMedium, domain.CompoundMedium}},
}

// PlanRace builds a pre-race stint plan for one driver, per §4.5. When the
// track's rain probability exceeds 0.6 it plans a wet-weather two-stint
// strategy directly; otherwise it enumerates candidate slick sequences,
// weights the pick by the driver's aggression, and jitters the stop laps.
func PlanRace(driver domain.Driver, track domain.Track, totalLaps int, r *rng.RNG) []domain.StrategyStint {
	if track.WeatherParams.RainProbability > 0.6 {
		split := int(math.Round(0.4 * float64(totalLaps)))
		if split < 1 {
			split = 1
		}
		if split >= totalLaps {
			split = totalLaps - 1
		}
		return []domain.StrategyStint{
			{Compound: domain.CompoundWet, StartLap: 0, EndLap: split},
			{Compound: domain.CompoundIntermediate, StartLap: split + 1, EndLap: totalLaps},
		}
	}

	life := effectiveLives(driver, track, r)

	pAggressive := 0.5
	switch {
	case driver.Personality.Aggression >= 60:
		pAggressive = 0.6
	case driver.Personality.Aggression <= 40:
		pAggressive = 0.4
	}

	var group []stintPlan
	if r.Chance(pAggressive) {
		group = aggressivePlans
	} else {
		group = conservativePlans
	}
	chosen := group[r.RangeInt(0, len(group)-1)]

	stints := buildStints(chosen.sequence, life, totalLaps, r)
	jitterAndClamp(stints, totalLaps, r)
	return stints
}

// effectiveLives derives per-compound stint life in laps from the reference
// table, the track's degradation factor, the driver's tyre-management skill
// and a per-compound random jitter, per §4.5.
func effectiveLives(driver domain.Driver, track domain.Track, r *rng.RNG) map[domain.TyreCompound]float64 {
	mgmtFactor := 1 - (driver.Skills.TyreManagement-50)/200
	lives := make(map[domain.TyreCompound]float64, len(baseLife))
	// Fixed compound order: ranging over the map would make the RNG draw
	// each compound receives differ from run to run.
	for _, compound := range []domain.TyreCompound{domain.CompoundSoft, domain.CompoundMedium, domain.CompoundHard} {
		base := baseLife[compound]
		jitter := r.Range(0.9, 1.1)
		lives[compound] = base / (track.TireDegradationFactor * mgmtFactor * jitter)
	}
	return lives
}

// buildStints lays out stop laps at 80-90% of each compound's effective
// life, letting the final stint run to the end of the race.
func buildStints(sequence []domain.TyreCompound, life map[domain.TyreCompound]float64, totalLaps int, r *rng.RNG) []domain.StrategyStint {
	stints := make([]domain.StrategyStint, 0, len(sequence))
	startLap := 0
	for i, compound := range sequence {
		var endLap int
		if i == len(sequence)-1 {
			endLap = totalLaps
		} else {
			stintLen := int(math.Round(life[compound] * r.Range(0.8, 0.9)))
			endLap = startLap + stintLen
			if endLap >= totalLaps {
				endLap = totalLaps - 1
			}
		}
		stints = append(stints, domain.StrategyStint{
			Compound: compound,
			StartLap: startLap,
			EndLap:   endLap,
		})
		startLap = endLap + 1
	}
	return stints
}

// jitterAndClamp adds a small random offset to every non-final stop lap and
// re-enforces the monotonic, in-range ordering that a naive jitter could
// break.
func jitterAndClamp(stints []domain.StrategyStint, totalLaps int, r *rng.RNG) {
	for i := 0; i < len(stints)-1; i++ {
		stints[i].EndLap += r.RangeInt(-2, 2)
	}
	prevEnd := -1
	for i := range stints {
		if stints[i].StartLap <= prevEnd {
			stints[i].StartLap = prevEnd + 1
		}
		if i == len(stints)-1 {
			stints[i].EndLap = totalLaps
		} else if stints[i].EndLap <= stints[i].StartLap {
			stints[i].EndLap = stints[i].StartLap + 1
		}
		if stints[i].EndLap >= totalLaps {
			stints[i].EndLap = totalLaps
		}
		prevEnd = stints[i].EndLap
		if i+1 < len(stints) {
			stints[i+1].StartLap = prevEnd + 1
		}
	}
}

// DecidePitIntent evaluates the in-race pit trigger of §4.5 for one vehicle
// while it is within the 50-1000m decision window before pit entry, and
// applies the forecast-override veto.
func DecidePitIntent(v *domain.VehicleState, driver domain.Driver, race *domain.RaceState, track domain.Track, totalLaps int, r *rng.RNG) {
	if v.IsInPit || v.BoxThisLap {
		return
	}
	toEntry := track.Mod(track.PitLane.EntryDistance - v.DistanceOnLap)
	if toEntry < pitWindowNear || toEntry > pitWindowFar {
		return
	}

	rain := race.RainIntensityLevel
	mismatch := (isSlick(v.TyreCompound) && rain > 10) || (isRainCompound(v.TyreCompound) && rain < 10)
	damageTrigger := v.Damage > 15
	wearTrigger := v.TyreWear > 85

	windowTrigger := false
	if stint := v.CurrentStint(); stint != nil {
		delta := v.LapCount - stint.EndLap
		if delta < 0 {
			delta = -delta
		}
		if delta <= 2 {
			proximity := 1 - float64(delta)/3.0
			prob := 0.15*proximity + 0.005*v.TyreWear
			if driver.Personality.Aggression > 60 {
				prob += 0.3
			}
			windowTrigger = r.Chance(prob)
		}
	}

	if !(mismatch || damageTrigger || wearTrigger || windowTrigger) {
		return
	}

	if forecastVetoesStop(v, race) {
		return
	}

	v.BoxThisLap = true
}

// forecastVetoesStop implements the §4.5 forecast override: if the current
// compound already matches the ideal compound for conditions 300 seconds
// out, the vehicle stays out unless it is on slicks in genuinely heavy rain.
func forecastVetoesStop(v *domain.VehicleState, race *domain.RaceState) bool {
	futureRain := interpolateForecastRain(race, race.ElapsedTime+forecastLookaheadSeconds)
	ideal := idealWetCompound(futureRain)

	var matches bool
	if ideal == "" {
		matches = isSlick(v.TyreCompound)
	} else {
		matches = v.TyreCompound == ideal
	}
	if !matches {
		return false
	}
	if isSlick(v.TyreCompound) && race.RainIntensityLevel > 40 {
		return false
	}
	return true
}

// idealWetCompound returns the rain-driven ideal compound for a given rain
// intensity reading, or "" when dry conditions call for any slick.
func idealWetCompound(rain float64) domain.TyreCompound {
	switch {
	case rain > 60:
		return domain.CompoundWet
	case rain > 10:
		return domain.CompoundIntermediate
	default:
		return ""
	}
}

// interpolateForecastRain linearly interpolates the rain-intensity reading
// at an absolute elapsed-time offset from the vehicle's race forecast,
// clamping to the nearest node outside the forecast's covered range.
func interpolateForecastRain(race *domain.RaceState, t float64) float64 {
	nodes := race.WeatherForecast
	if len(nodes) == 0 {
		return race.RainIntensityLevel
	}
	if t <= nodes[0].TimeOffset {
		return nodes[0].RainIntensity
	}
	last := nodes[len(nodes)-1]
	if t >= last.TimeOffset {
		return last.RainIntensity
	}
	for i := 0; i < len(nodes)-1; i++ {
		a, b := nodes[i], nodes[i+1]
		if t >= a.TimeOffset && t <= b.TimeOffset {
			frac := 0.0
			if b.TimeOffset != a.TimeOffset {
				frac = (t - a.TimeOffset) / (b.TimeOffset - a.TimeOffset)
			}
			return a.RainIntensity + frac*(b.RainIntensity-a.RainIntensity)
		}
	}
	return last.RainIntensity
}

// ChooseReleaseCompound picks the compound to fit on release from the pit
// lane, per §4.5: rain-driven choice first, then the next planned stint,
// then a laps-remaining fallback.
func ChooseReleaseCompound(v *domain.VehicleState, race *domain.RaceState, totalLaps int) domain.TyreCompound {
	rain := race.RainIntensityLevel
	if rain > 60 {
		return domain.CompoundWet
	}
	if rain > 10 {
		return domain.CompoundIntermediate
	}
	if next := v.StintIndex + 1; next < len(v.Plan) {
		return v.Plan[next].Compound
	}

	lapsRemaining := totalLaps - v.LapCount
	switch {
	case lapsRemaining < 15:
		return domain.CompoundSoft
	case lapsRemaining < 30:
		return domain.CompoundMedium
	default:
		return domain.CompoundHard
	}
}

func isSlick(c domain.TyreCompound) bool {
	return c == domain.CompoundSoft || c == domain.CompoundMedium || c == domain.CompoundHard
}

func isRainCompound(c domain.TyreCompound) bool {
	return c == domain.CompoundIntermediate || c == domain.CompoundWet
}
