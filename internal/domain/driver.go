package domain

import "github.com/google/uuid"

// SkillScores captures a driver's race-craft attributes, each on a 0-100
// scale.
type SkillScores struct {
	Racecraft      float64
	Consistency    float64
	TyreManagement float64
	WetWeather     float64
}

// PerformanceScores captures a driver's per-discipline pace attributes, each
// on a 0-100 scale.
type PerformanceScores struct {
	CorneringHigh           float64
	CorneringMedium         float64
	CorneringLow            float64
	Straight                float64
	TemperatureAdaptability float64
}

// PersonalityScores captures a driver's behavioral attributes, each on a
// 0-100 scale.
type PersonalityScores struct {
	Aggression       float64
	StressResistance float64
	TeamPlayer       float64
}

// Driver is the static, per-race-weekend profile of a competitor. It does not
// change once the race has started; all mutable per-tick data lives on the
// corresponding VehicleState.
type Driver struct {
	ID       string
	Name     string
	Team     string
	Color    string
	BasePace float64 // reference lap time in seconds, lower is faster

	Skills      SkillScores
	Performance PerformanceScores
	Personality PersonalityScores

	StartingMorale float64
	StartingTrust  float64
}

// NewDriver returns a Driver with a freshly generated identifier. Callers
// that need a stable id across process restarts (e.g. the config loader)
// should set Driver.ID directly instead.
func NewDriver(
	name, team, color string,
	basePace float64,
	skills SkillScores,
	performance PerformanceScores,
	personality PersonalityScores,
	startingMorale, startingTrust float64,
) Driver {
	return Driver{
		ID:             uuid.NewString(),
		Name:           name,
		Team:           team,
		Color:          color,
		BasePace:       basePace,
		Skills:         skills,
		Performance:    performance,
		Personality:    personality,
		StartingMorale: startingMorale,
		StartingTrust:  startingTrust,
	}
}
