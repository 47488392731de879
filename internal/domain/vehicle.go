package domain

// TyreCompound is one of the slick or rain tyre formulations.
type TyreCompound string

const (
	CompoundSoft         TyreCompound = "soft"
	CompoundMedium       TyreCompound = "medium"
	CompoundHard         TyreCompound = "hard"
	CompoundIntermediate TyreCompound = "intermediate"
	CompoundWet          TyreCompound = "wet"
)

// ERSMode selects how a vehicle manages its energy recovery system.
type ERSMode string

const (
	ERSModeHarvest  ERSMode = "harvest"
	ERSModeBalanced ERSMode = "balanced"
	ERSModeDeploy   ERSMode = "deploy"
)

// PaceMode selects a vehicle's overall driving intent.
type PaceMode string

const (
	PaceModeConservative PaceMode = "conservative"
	PaceModeBalanced     PaceMode = "balanced"
	PaceModeAggressive   PaceMode = "aggressive"
)

// PitPhase is the vehicle's position within the pit-stop state machine of
// §4.6; it is the zero value (PitPhaseNone) whenever IsInPit is false.
type PitPhase string

const (
	PitPhaseNone       PitPhase = ""
	PitPhaseDrivingIn  PitPhase = "driving_in"
	PitPhaseStopped    PitPhase = "stopped"
	PitPhaseDrivingOut PitPhase = "driving_out"
	PitPhaseReleased   PitPhase = "released"
)

// StrategyStint is one planned segment of a race strategy.
type StrategyStint struct {
	Compound  TyreCompound
	StartLap  int
	EndLap    int
	PaceMode  *PaceMode // optional override for this stint
}

// SpeedTracePoint is a single telemetry sample along a lap.
type SpeedTracePoint struct {
	Distance float64
	Speed    float64
}

// VehicleState is the complete mutable per-tick state of one competitor.
// Ownership of each region is split by sub-system per §3's lifecycle rule:
// weather fields are not here at all (they live on RaceState), race/flag
// fields are owned by the race-logic system, and kinematic/resource fields
// are owned by the physics system.
type VehicleState struct {
	DriverID string

	// Kinematic
	DistanceOnLap  float64 // [0, track.TotalDistance), may be negative pre-start
	TotalDistance  float64 // monotonically increasing odometer
	Speed          float64 // m/s, >= 0
	LapCount       int
	CurrentSector  int // 1-indexed
	CurrentLapTime float64
	LastLapTime    float64
	BestLapTime    float64

	// Race
	Position     int
	LastPosition int
	GapToLeader  float64 // seconds
	GapToAhead   float64 // seconds
	IsInPit      bool
	PitStopCount int
	BoxThisLap   bool
	PitPhase        PitPhase
	PitPhaseElapsed float64
	// PitPhaseDuration is the sampled length of the current pit phase,
	// drawn once on entry (e.g. the stationary "stopped" dwell time).
	PitPhaseDuration float64

	// Consumables
	TyreCompound TyreCompound
	TyreWear     float64 // [0,100]
	TyreAgeLaps  int
	FuelLoad     float64 // kg, [0,100]
	ERSLevel     float64 // [0,100]
	ERSMode      ERSMode
	PaceMode     PaceMode

	// Dynamic
	Condition     float64 // [0.99,1.01], fixed at init
	Damage        float64 // [0,100]
	Stress        float64
	Morale        float64
	Concentration float64
	DRSOpen       bool
	InDirtyAir    bool
	IsBattling    bool
	BlueFlag      bool
	HasFinished   bool
	// PhysicalGapAhead is the time gap, in seconds, to the car immediately
	// physically ahead on the circular track (lap-agnostic); computed by
	// the race-logic spatial-awareness pass and consumed by the physics
	// system's slipstream/dirty-air/battling model.
	PhysicalGapAhead float64
	// AheadDriverID is the driver id of the car immediately physically
	// ahead, or "" if none (single-car field).
	AheadDriverID string
	// PhysicalGapBehind is the time gap, in seconds, to the car immediately
	// physically behind on the circular track; computed alongside
	// PhysicalGapAhead by the spatial-awareness pass.
	PhysicalGapBehind float64

	// Plan
	Plan      []StrategyStint
	StintIndex int

	// Telemetry
	CurrentLapTrace    []SpeedTracePoint
	LastLapTrace       []SpeedTracePoint
	lastSampledDistance float64
}

// IsDNF reports whether a vehicle has retired due to terminal damage.
func (v *VehicleState) IsDNF() bool {
	return v.Damage >= 100
}

// RaceDistance is the vehicle's total race progress used for gap math:
// laps completed times lap length, plus progress into the current lap.
func (v *VehicleState) RaceDistance(totalDistance float64) float64 {
	return float64(v.LapCount)*totalDistance + v.DistanceOnLap
}

// SampleTelemetry appends a speed-trace point to the current lap if more
// than 50m have passed since the last sample, per §4.4.
func (v *VehicleState) SampleTelemetry(distance, speed float64) {
	if distance-v.lastSampledDistance > 50 {
		v.CurrentLapTrace = append(v.CurrentLapTrace, SpeedTracePoint{Distance: distance, Speed: speed})
		v.lastSampledDistance = distance
	}
}

// RolloverLap snapshot-swaps the telemetry trace and resets the per-lap
// sampling cursor; called by the physics system when a vehicle crosses the
// line.
func (v *VehicleState) RolloverLap() {
	v.LastLapTrace = v.CurrentLapTrace
	v.CurrentLapTrace = make([]SpeedTracePoint, 0, 32)
	v.lastSampledDistance = 0
}

// CurrentStint returns the strategy stint the vehicle is presently on, or
// nil if the plan is empty or exhausted (the "missing strategy stint"
// condition of §7, handled by a laps-remaining fallback in the strategy
// system).
func (v *VehicleState) CurrentStint() *StrategyStint {
	if v.StintIndex < 0 || v.StintIndex >= len(v.Plan) {
		return nil
	}
	return &v.Plan[v.StintIndex]
}
