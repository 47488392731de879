// Package tyremodel holds the static compound table and the pure wear/grip
// functions used by the physics system. Nothing here is
// stateful or time-dependent beyond the arguments passed in, so it needs no
// RNG and consumes none of the shared deterministic stream.
package tyremodel

import (
	"math"

	"github.com/ljlleo7-prog/Box-This-Lap/internal/domain"
)

// CompoundProfile is the static per-compound reference table.
type CompoundProfile struct {
	// BasePaceDelta is the reference lap-time delta in seconds versus the
	// fastest (soft) compound, informational for strategy comparisons.
	BasePaceDelta float64
	// BaseWearRate is the nominal wear accrued per second of full-pace
	// running, in percentage points.
	BaseWearRate float64
	// Grip is the dry-track reference grip factor.
	Grip float64
	// OptimalTempMin/Max bound the track-temperature window (degrees C)
	// in which the compound performs as tabulated.
	OptimalTempMin float64
	OptimalTempMax float64
	// RainPerformance is a descriptive 0-1 rating of how well the compound
	// is suited to wet conditions.
	RainPerformance float64
}

// Table is the static compound reference table of §4.2.
var Table = map[domain.TyreCompound]CompoundProfile{
	domain.CompoundSoft: {
		BasePaceDelta: 0.0, BaseWearRate: 0.0784, Grip: 1.00,
		OptimalTempMin: 90, OptimalTempMax: 110, RainPerformance: 0.30,
	},
	domain.CompoundMedium: {
		BasePaceDelta: 0.35, BaseWearRate: 0.0449, Grip: 0.97,
		OptimalTempMin: 80, OptimalTempMax: 100, RainPerformance: 0.35,
	},
	domain.CompoundHard: {
		BasePaceDelta: 0.70, BaseWearRate: 0.0281, Grip: 0.94,
		OptimalTempMin: 70, OptimalTempMax: 90, RainPerformance: 0.40,
	},
	domain.CompoundIntermediate: {
		BasePaceDelta: 1.80, BaseWearRate: 0.0350, Grip: 0.85,
		OptimalTempMin: 15, OptimalTempMax: 35, RainPerformance: 0.85,
	},
	domain.CompoundWet: {
		BasePaceDelta: 2.60, BaseWearRate: 0.0300, Grip: 0.80,
		OptimalTempMin: 10, OptimalTempMax: 25, RainPerformance: 0.95,
	},
}

// WearRate returns the instantaneous wear-accrual rate (percentage points
// per second) for a compound under the given track, pace mode and current
// wear level, per §4.2.
func WearRate(compound domain.TyreCompound, track domain.Track, pace domain.PaceMode, currentWear float64) float64 {
	profile := Table[compound]
	rate := profile.BaseWearRate * track.TireDegradationFactor

	switch pace {
	case domain.PaceModeAggressive:
		rate *= 1.3
	case domain.PaceModeConservative:
		rate *= 0.7
	}

	if currentWear > 60 {
		rate *= 1.1
	}
	if currentWear > 80 {
		rate *= 1.2
	}

	return rate
}

// GripFactor returns the current grip multiplier for a compound given wear
// and water depth, per §4.2's three-piece wear curve and compound-specific
// water response, floored at 0.1.
func GripFactor(compound domain.TyreCompound, wear, waterDepthMM float64) float64 {
	profile := Table[compound]
	grip := profile.Grip * wearPenalty(wear) * waterMultiplier(compound, waterDepthMM)
	if grip < 0.1 {
		grip = 0.1
	}
	return grip
}

// wearPenalty implements the three-piece non-linear wear curve: up to 2%
// cumulative loss across 0-40% wear, up to 7% across 40-70%, and a 22%
// "cliff" across 70-100%.
func wearPenalty(wear float64) float64 {
	switch {
	case wear <= 40:
		return 1 - 0.02*(wear/40)
	case wear <= 70:
		return 1 - (0.02 + 0.05*((wear-40)/30))
	default:
		w := wear
		if w > 100 {
			w = 100
		}
		return 1 - (0.07 + 0.15*((w-70)/30))
	}
}

// waterMultiplier applies the compound-specific response to standing water:
// slicks decay exponentially, intermediates peak in a bell curve around
// 1.5mm (optimal window 0.5-2.5mm), and wets are a sigmoid plateau that
// punishes dry running.
func waterMultiplier(compound domain.TyreCompound, waterDepthMM float64) float64 {
	switch compound {
	case domain.CompoundIntermediate:
		const center, sigma = 1.5, 0.6
		d := waterDepthMM - center
		return math.Exp(-(d * d) / (2 * sigma * sigma))
	case domain.CompoundWet:
		return 1 / (1 + math.Exp(-3*(waterDepthMM-1.0)))
	default: // slicks: soft, medium, hard
		return math.Exp(-1.5 * waterDepthMM)
	}
}
