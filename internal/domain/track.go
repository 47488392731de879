package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// SectorType classifies a sector of track by the kind of speed it rewards,
// which feeds directly into the physics system's base target speed.
type SectorType string

const (
	SectorStraight           SectorType = "straight"
	SectorCornerHighSpeed    SectorType = "corner_high_speed"
	SectorCornerMediumSpeed  SectorType = "corner_medium_speed"
	SectorCornerLowSpeed     SectorType = "corner_low_speed"
)

// Sector is a contiguous slice of the lap, [StartDistance, EndDistance).
type Sector struct {
	ID            int
	Name          string
	StartDistance float64
	EndDistance   float64
	Type          SectorType
	Difficulty    float64
	MaxSpeed      *float64 // optional override of the sector-type base speed, m/s
}

// DRSZone is a single drag-reduction-system activation window on the lap.
type DRSZone struct {
	DetectionDistance  float64
	ActivationDistance float64
	EndDistance        float64
}

// PitLane describes the geometry and rules of the pit lane.
type PitLane struct {
	EntryDistance float64
	ExitDistance  float64
	SpeedLimit    float64 // m/s
	StopTime      float64 // seconds, 0 means "derive from lane length and speed limit"
}

// WeatherParams seeds the weather system's forecast generation for a track.
type WeatherParams struct {
	Volatility      float64 // 0-1
	RainProbability float64 // 0-1
}

// GeoCoordinates is an optional real-world location for a track.
type GeoCoordinates struct {
	Latitude  float64
	Longitude float64
}

// Track is the static definition of a circuit.
type Track struct {
	ID                    string
	TotalDistance         float64 // meters
	DefaultTotalLaps      int
	TireDegradationFactor float64 // 1.0 is standard
	OvertakingDifficulty  float64 // 0-1
	TrackDifficulty       float64 // 0-1
	BaseTemperature       float64 // degrees C
	Geo                   *GeoCoordinates
	WeatherParams         WeatherParams
	Sectors               []Sector // ordered, contiguous, covering [0, TotalDistance)
	DRSZones              []DRSZone
	PitLane               PitLane
}

// NewTrack validates and returns a Track, assigning a fresh id if none is
// given by the caller.
func NewTrack(
	id string,
	totalDistance float64,
	defaultTotalLaps int,
	tireDegradationFactor, overtakingDifficulty, trackDifficulty, baseTemperature float64,
	weatherParams WeatherParams,
	sectors []Sector,
	drsZones []DRSZone,
	pitLane PitLane,
) (Track, error) {
	if id == "" {
		id = uuid.NewString()
	}
	t := Track{
		ID:                    id,
		TotalDistance:         totalDistance,
		DefaultTotalLaps:      defaultTotalLaps,
		TireDegradationFactor: tireDegradationFactor,
		OvertakingDifficulty:  overtakingDifficulty,
		TrackDifficulty:       trackDifficulty,
		BaseTemperature:       baseTemperature,
		WeatherParams:         weatherParams,
		Sectors:               sectors,
		DRSZones:              drsZones,
		PitLane:               pitLane,
	}
	if err := t.Validate(); err != nil {
		return Track{}, err
	}
	return t, nil
}

// Validate checks the structural invariants of §3: total distance is
// positive, sectors contiguously cover [0, totalDistance), and the pit lane
// speed limit is positive.
func (t Track) Validate() error {
	if t.TotalDistance <= 0 {
		return ErrInvalidDistance
	}
	if len(t.Sectors) == 0 {
		return ErrNoSectors
	}
	if t.PitLane.SpeedLimit <= 0 {
		return ErrInvalidPitLane
	}
	expected := 0.0
	for _, s := range t.Sectors {
		if s.StartDistance != expected {
			return fmt.Errorf("%w: sector %d starts at %.2f, expected %.2f", ErrSectorGap, s.ID, s.StartDistance, expected)
		}
		if s.EndDistance <= s.StartDistance {
			return fmt.Errorf("%w: sector %d has non-positive length", ErrSectorGap, s.ID)
		}
		expected = s.EndDistance
	}
	if expected != t.TotalDistance {
		return fmt.Errorf("%w: sectors cover %.2f, expected %.2f", ErrSectorGap, expected, t.TotalDistance)
	}
	return nil
}

// Mod returns distance normalized into [0, TotalDistance).
func (t Track) Mod(distance float64) float64 {
	d := distance
	td := t.TotalDistance
	for d < 0 {
		d += td
	}
	for d >= td {
		d -= td
	}
	return d
}

// SectorAt returns the 1-indexed sector containing the given on-lap
// distance.
func (t Track) SectorAt(distanceOnLap float64) int {
	d := t.Mod(distanceOnLap)
	for i, s := range t.Sectors {
		if d >= s.StartDistance && d < s.EndDistance {
			return i + 1
		}
	}
	return len(t.Sectors)
}

// BaseSpeed returns the sector-type base target speed used by the physics
// system, honoring a sector's MaxSpeed override when present.
func (s Sector) BaseSpeed() float64 {
	if s.MaxSpeed != nil {
		return *s.MaxSpeed
	}
	switch s.Type {
	case SectorStraight:
		return 105
	case SectorCornerHighSpeed:
		return 72
	case SectorCornerMediumSpeed:
		return 50
	case SectorCornerLowSpeed:
		return 25
	default:
		return 50
	}
}

// LaneTime returns the configured pit-stop lane traversal time, falling back
// to distance/speed-limit (floored at 5s) when not explicitly configured.
func (p PitLane) LaneTime() float64 {
	if p.StopTime > 0 {
		return p.StopTime
	}
	laneLength := p.ExitDistance - p.EntryDistance
	if laneLength < 0 {
		laneLength = -laneLength
	}
	t := laneLength / p.SpeedLimit
	if t < 5 {
		t = 5
	}
	return t
}
