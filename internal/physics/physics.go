// Package physics implements the PhysicsSystem of §4.4: per-vehicle target
// speed assembly, longitudinal dynamics, motion integration, pit-entry
// detection and resource consumption. It is the only system that advances a
// vehicle's position on track.
package physics

import (
	"math"

	"github.com/ljlleo7-prog/Box-This-Lap/internal/domain"
	"github.com/ljlleo7-prog/Box-This-Lap/internal/rng"
	"github.com/ljlleo7-prog/Box-This-Lap/internal/tyremodel"
)

const (
	enginePower = 750000.0 // watts
	mass        = 800.0    // kg
	gravity     = 9.81
	airDensity  = 1.225
	dragCoeff   = 1.6 // Cd*A
	rollingResistance = 0.1 // m/s^2

	pitEntryWindow = 50.0 // meters past the entry point the box decision still latches
)

// Update advances one vehicle by dt seconds: it assembles a target speed,
// integrates longitudinal dynamics toward it, moves the vehicle along the
// lap, samples telemetry, burns resources and detects pit-lane entry. It is
// never called for a vehicle that is already in the pit lane, finished or
// DNF'd; the caller (the engine's per-tick dispatch) is responsible for that
// gating.
func Update(v *domain.VehicleState, driver domain.Driver, race *domain.RaceState, track domain.Track, r *rng.RNG, dt float64) {
	sector := track.Sectors[v.CurrentSector-1]
	target := targetSpeed(v, driver, race, track, r)
	integrateLongitudinal(v, target, waterDepthAt(v, race), slipstreamDragReduction(v, sector.Type), dt)
	integrateMotion(v, race, track, dt)
	consumeResources(v, track, dt)
	detectPitEntry(v, track)
}

// slipstreamDragReduction returns the fractional drag reduction from
// following a car on a straight within 1s, per §4.4: up to 15%, or 8% with
// DRS open (DRS's own aero configuration partly defeats the tow).
func slipstreamDragReduction(v *domain.VehicleState, sectorType domain.SectorType) float64 {
	if sectorType != domain.SectorStraight || v.AheadDriverID == "" || v.PhysicalGapAhead >= 1.0 {
		return 0
	}
	maxReduction := 0.15
	if v.DRSOpen {
		maxReduction = 0.08
	}
	return maxReduction * (1 - v.PhysicalGapAhead)
}

// waterDepthAt resolves the standing-water depth for a vehicle's current
// sector, falling back to the track-wide reading when sector conditions
// aren't tracked.
func waterDepthAt(v *domain.VehicleState, race *domain.RaceState) float64 {
	idx := v.CurrentSector - 1
	if idx >= 0 && idx < len(race.SectorConditions) {
		return race.SectorConditions[idx].WaterDepth
	}
	return race.TrackWaterDepth
}

// targetSpeed assembles the desired instantaneous speed from the
// multiplicative factor chain of §4.4, then applies the battling blend,
// blue-flag compliance, per-tick noise and safety-regime caps.
func targetSpeed(v *domain.VehicleState, driver domain.Driver, race *domain.RaceState, track domain.Track, r *rng.RNG) float64 {
	if race.SafetyCar == domain.SafetyCarRedFlag {
		return 0
	}

	sector := track.Sectors[v.CurrentSector-1]
	speed := sector.BaseSpeed()

	speed *= sectorPerformanceFactor(driver, sector.Type)
	speed *= 1 + (88.0-driver.BasePace)*0.0008
	speed *= 1 + (v.Morale-80)*0.0005
	speed *= v.Condition
	speed *= 1 - temperaturePenalty(driver, race.TrackTemp)
	speed *= 1 - track.TrackDifficulty*0.08*(1-driver.Skills.Consistency/100)
	speed *= tyremodel.GripFactor(v.TyreCompound, v.TyreWear, 0)
	speed *= 1 - (v.FuelLoad/100)*0.033
	speed *= paceModeFactor(v.PaceMode)
	speed *= ersModeFactor(v.ERSMode)
	if v.DRSOpen {
		speed *= 1.05
	}
	speed *= aeroFactor(v, sector.Type)

	if v.IsBattling {
		speed = battlingBlend(v, driver, race, sector.Type, speed)
	}

	if v.BlueFlag {
		compliance := (driver.Personality.TeamPlayer + (100 - driver.Personality.Aggression)) / 200
		speed *= 1 - 0.2*compliance
	}

	speed *= 1 + noiseFactor(driver, sector.Type, race.SafetyCar, r)

	speed = applySafetyCarCap(v, race, speed)

	if speed < 0 {
		speed = 0
	}
	return speed
}

// sectorPerformanceFactor reads the driver's matching per-discipline
// performance score (0-100, 90 is reference) for the sector type underfoot.
func sectorPerformanceFactor(driver domain.Driver, sectorType domain.SectorType) float64 {
	var score float64
	switch sectorType {
	case domain.SectorStraight:
		score = driver.Performance.Straight
	case domain.SectorCornerHighSpeed:
		score = driver.Performance.CorneringHigh
	case domain.SectorCornerMediumSpeed:
		score = driver.Performance.CorneringMedium
	case domain.SectorCornerLowSpeed:
		score = driver.Performance.CorneringLow
	}
	return 1 + (score-90)*0.0005
}

// temperaturePenalty returns the fractional speed loss from running a
// driver's temperature-adaptability score outside the reference window
// around 25C track temperature.
func temperaturePenalty(driver domain.Driver, trackTemp float64) float64 {
	delta := trackTemp - 25
	if delta < 0 {
		delta = -delta
	}
	return delta * 0.005 * (1 - driver.Performance.TemperatureAdaptability/100)
}

func paceModeFactor(p domain.PaceMode) float64 {
	switch p {
	case domain.PaceModeAggressive:
		return 1.015
	case domain.PaceModeConservative:
		return 0.985
	default:
		return 1.0
	}
}

func ersModeFactor(m domain.ERSMode) float64 {
	switch m {
	case domain.ERSModeDeploy:
		return 1.02
	case domain.ERSModeHarvest:
		return 0.98
	default:
		return 1.0
	}
}

// aeroFactor applies a straight-line slipstream boost or a cornering
// dirty-air penalty based on the physical (lap-agnostic) gap to the car
// ahead. It is a no-op for the race leader (no car ahead) and during lap 1.
func aeroFactor(v *domain.VehicleState, sectorType domain.SectorType) float64 {
	if v.AheadDriverID == "" || v.LapCount < 1 {
		return 1.0
	}
	gap := v.PhysicalGapAhead

	if sectorType == domain.SectorStraight {
		if gap >= 1.5 {
			return 1.0
		}
		boost := 0.05 * (1 - gap/1.5)
		if boost < 0 {
			boost = 0
		}
		return 1 + boost
	}

	var maxPenalty float64
	switch sectorType {
	case domain.SectorCornerHighSpeed:
		maxPenalty = 0.05
	case domain.SectorCornerMediumSpeed:
		maxPenalty = 0.03
	case domain.SectorCornerLowSpeed:
		maxPenalty = 0.01
	}
	if gap >= 2.0 {
		return 1.0
	}
	penalty := maxPenalty * (1 - gap/2.0)
	if penalty < 0 {
		penalty = 0
	}
	return 1 - penalty
}

// battlingBlend mixes a "stuck behind" speed (the car ahead's own speed,
// allowing for a small margin) with a "free" speed (this vehicle's own
// target, discounted for running an off-line defensive/attacking move in
// corners) using a sigmoid weight driven by pace delta, aggression and
// racecraft, per §4.4.
func battlingBlend(v *domain.VehicleState, driver domain.Driver, race *domain.RaceState, sectorType domain.SectorType, ownTarget float64) float64 {
	ahead := race.VehicleByDriver(v.AheadDriverID)
	stuckSpeed := ownTarget
	var paceDelta float64
	if ahead != nil {
		stuckSpeed = ahead.Speed * 0.98
		// Positive when this vehicle's natural pace outruns the car ahead's
		// current speed, pushing the blend weight toward the free term.
		paceDelta = (ownTarget - stuckSpeed) / 5.0
	}

	x := paceDelta + 2.5*(driver.Personality.Aggression/100) + 1.5*(driver.Skills.Racecraft/100) - 3.0
	weight := sigmoid(x)

	free := ownTarget
	if sectorType != domain.SectorStraight {
		free = ownTarget * (1 - 0.05*weight)
	}

	return stuckSpeed*(1-weight) + free*weight
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// noiseFactor samples symmetric per-tick speed noise: baseline amplitude
// scales inversely with consistency, triples in low-speed corners and is
// damped to 10% of its value under a safety-car or virtual-safety-car
// regime.
func noiseFactor(driver domain.Driver, sectorType domain.SectorType, sc domain.SafetyCarStatus, r *rng.RNG) float64 {
	amplitude := 0.05 * (1 - driver.Skills.Consistency/100 + 0.3)
	if sectorType == domain.SectorCornerLowSpeed {
		amplitude *= 3
	}
	if sc == domain.SafetyCarSC || sc == domain.SafetyCarVSC {
		amplitude *= 0.1
	}
	return r.Range(-amplitude, amplitude)
}

// applySafetyCarCap overrides the assembled target speed with the
// neutralized-race pace caps of §4.5 when a VSC or full safety car is
// deployed.
func applySafetyCarCap(v *domain.VehicleState, race *domain.RaceState, target float64) float64 {
	switch race.SafetyCar {
	case domain.SafetyCarVSC:
		capped := target * 0.7
		if capped > 44 {
			capped = 44
		}
		return capped
	case domain.SafetyCarSC:
		const scPace = 35.0
		switch {
		case v.GapToAhead > 0.5:
			if target > scPace*1.6 {
				return scPace * 1.6
			}
			return target
		case v.GapToAhead < 0.3 && v.GapToAhead > 0:
			return scPace * 0.8
		default:
			return scPace
		}
	default:
		return target
	}
}

// integrateLongitudinal steps v.Speed toward target using engine-power- and
// traction-limited acceleration, or grip-scaled braking, per §4.4.
func integrateLongitudinal(v *domain.VehicleState, target, waterDepth, slipstreamReduction, dt float64) {
	speed := v.Speed
	grip := tyremodel.GripFactor(v.TyreCompound, v.TyreWear, waterDepth)

	if speed < target {
		vEff := speed
		if vEff < 10 {
			vEff = 10
		}
		accel := enginePower / (mass * vEff)
		tractionLimit := gravity * 1.3
		if accel > tractionLimit {
			accel = tractionLimit
		}

		drag := 0.5 * airDensity * dragCoeff * speed * speed
		if v.DRSOpen {
			drag *= 0.75
		}
		drag *= 1 - slipstreamReduction
		accel -= drag / mass
		accel -= rollingResistance

		speed += accel * dt
		if speed > target {
			speed = target
		}
	} else if speed > target {
		brake := 15.0 + 0.005*speed*speed
		brake *= grip
		speed -= brake * dt
		if speed < target {
			speed = target
		}
	}

	if math.IsNaN(speed) || speed < 0 {
		speed = 0
	}
	if speed > 150 {
		speed = 150
	}
	v.Speed = speed
}

// integrateMotion advances distance, lap count, sector, telemetry and
// finish state from the freshly integrated speed.
func integrateMotion(v *domain.VehicleState, race *domain.RaceState, track domain.Track, dt float64) {
	delta := v.Speed * dt
	v.DistanceOnLap += delta
	v.TotalDistance += delta
	v.CurrentLapTime += dt

	for v.DistanceOnLap >= track.TotalDistance {
		v.DistanceOnLap -= track.TotalDistance
		v.LapCount++
		v.LastLapTime = v.CurrentLapTime
		if v.BestLapTime == 0 || v.LastLapTime < v.BestLapTime {
			v.BestLapTime = v.LastLapTime
		}
		v.CurrentLapTime = 0
		v.TyreAgeLaps++
		v.RolloverLap()
		if race.CheckeredFlag {
			v.HasFinished = true
		}
	}

	v.CurrentSector = track.SectorAt(v.DistanceOnLap)
	v.SampleTelemetry(v.DistanceOnLap, v.Speed)
}

// consumeResources burns tyre wear, fuel and ERS charge for the tick.
func consumeResources(v *domain.VehicleState, track domain.Track, dt float64) {
	v.TyreWear += tyremodel.WearRate(v.TyreCompound, track, v.PaceMode, v.TyreWear) * dt
	if v.TyreWear > 100 {
		v.TyreWear = 100
	}

	fuelRate := 0.016
	switch v.PaceMode {
	case domain.PaceModeAggressive:
		fuelRate *= 1.3
	case domain.PaceModeConservative:
		fuelRate *= 0.7
	}
	v.FuelLoad -= fuelRate * dt
	if v.FuelLoad < 0 {
		v.FuelLoad = 0
	}

	switch v.ERSMode {
	case domain.ERSModeDeploy:
		v.ERSLevel -= 2.0 * dt
	case domain.ERSModeHarvest:
		v.ERSLevel += 1.5 * dt
	default:
		v.ERSLevel += 0.1 * dt
	}
	if v.ERSLevel < 0 {
		v.ERSLevel = 0
		if v.ERSMode == domain.ERSModeDeploy {
			v.ERSMode = domain.ERSModeBalanced
		}
	}
	if v.ERSLevel > 100 {
		v.ERSLevel = 100
	}
}

// detectPitEntry flips IsInPit once a vehicle carrying BoxThisLap crosses
// into the pit-entry window; the pit-stop state machine (§4.6) takes over
// movement from the following tick.
func detectPitEntry(v *domain.VehicleState, track domain.Track) {
	if v.IsInPit || !v.BoxThisLap {
		return
	}
	entry := track.PitLane.EntryDistance
	if v.DistanceOnLap >= entry && v.DistanceOnLap <= entry+pitEntryWindow {
		v.IsInPit = true
		v.PitPhase = domain.PitPhaseDrivingIn
		v.PitPhaseElapsed = 0
	}
}
