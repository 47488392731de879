// Package engine implements §4.7: it owns the RaceState and every
// sub-system, and dispatches one deterministic tick at a time. It is the
// only package a caller needs to drive a race.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/ljlleo7-prog/Box-This-Lap/internal/domain"
	"github.com/ljlleo7-prog/Box-This-Lap/internal/physics"
	"github.com/ljlleo7-prog/Box-This-Lap/internal/racelogic"
	"github.com/ljlleo7-prog/Box-This-Lap/internal/rng"
	"github.com/ljlleo7-prog/Box-This-Lap/internal/strategy"
	"github.com/ljlleo7-prog/Box-This-Lap/internal/weather"
)

// maxSubstep is the integrator step the fixed-timestep discipline of §5
// assumes; callers that violate the 2.0 s clamp still get decomposed here so
// the core stays numerically stable.
const maxSubstep = 0.1

// Engine owns one race's complete state and drives it tick by tick. It is
// not safe for concurrent use; callers that need multiple concurrent races
// hold one Engine per race (see internal/sessionstore).
type Engine struct {
	race    *domain.RaceState
	track   domain.Track
	drivers map[string]domain.Driver
	order   []string // driver ids in the fixed grid/insertion order
	rng     *rng.RNG
	log     *slog.Logger
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithLogger overrides the default slog.Default() logger, mirroring the
// teacher's WithLogger client option.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// New builds an Engine in the pre-race state: it runs the qualifying
// simulation, places the grid, seeds tyres/conditions, builds the initial
// weather forecast and generates every driver's starting strategy plan, in
// that order — which is also the RNG consumption order the deterministic
// replay contract depends on.
func New(track domain.Track, drivers []domain.Driver, seed uint32, opts ...Option) (*Engine, error) {
	if len(drivers) == 0 {
		return nil, domain.ErrNoDrivers
	}
	seen := make(map[string]struct{}, len(drivers))
	driverMap := make(map[string]domain.Driver, len(drivers))
	order := make([]string, len(drivers))
	for i, d := range drivers {
		if _, dup := seen[d.ID]; dup {
			return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateDriver, d.ID)
		}
		seen[d.ID] = struct{}{}
		driverMap[d.ID] = d
		order[i] = d.ID
	}
	if err := track.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		track:   track,
		drivers: driverMap,
		order:   order,
		rng:     rng.New(seed),
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.race = &domain.RaceState{
		TrackID:     track.ID,
		TotalLaps:   track.DefaultTotalLaps,
		Status:      domain.StatusPreRace,
		WeatherMode: domain.WeatherModeSimulation,
	}

	racelogic.Initialize(e.race, track, drivers, e.rng)
	weather.InitializeForecast(e.race, track, e.rng)

	for _, v := range e.race.Vehicles {
		driver := e.drivers[v.DriverID]
		v.Plan = strategy.PlanRace(driver, track, e.race.TotalLaps, e.rng)
	}

	e.log.Debug("engine initialized", "drivers", len(drivers), "seed", seed)
	return e, nil
}

// StartRace transitions the race from pre-race to racing. A no-op if the
// race has already started or finished.
func (e *Engine) StartRace() {
	if e.race.Status != domain.StatusPreRace {
		return
	}
	e.race.Status = domain.StatusRacing
	e.log.Debug("race started")
}

// Update advances the race by dt seconds, decomposed into substeps of at
// most 0.1 s. It is a no-op unless the race is currently racing. Callers are
// responsible for clamping dt to 2.0 s per §5; Update enforces only the
// substep decomposition, not the outer clamp.
func (e *Engine) Update(dt float64) domain.RaceState {
	if e.race.Status == domain.StatusRacing {
		remaining := dt
		for remaining > 0 {
			step := remaining
			if step > maxSubstep {
				step = maxSubstep
			}
			e.tick(step)
			remaining -= step
		}
	}
	return Snapshot(e.race)
}

// tick runs exactly one ≤0.1s substep: weather, then per-vehicle physics
// (or the pit-stop machine for vehicles already in the pits), then
// per-vehicle strategy, then the race-logic pass, in that fixed order.
func (e *Engine) tick(dt float64) {
	weather.Update(e.race, e.track, e.rng, dt)

	for _, driverID := range e.order {
		v := e.race.VehicleByDriver(driverID)
		if v == nil || v.IsDNF() || v.HasFinished {
			continue
		}
		if v.IsInPit {
			racelogic.UpdatePitStop(v, e.race, e.track, e.race.TotalLaps, e.rng, dt)
			continue
		}
		physics.Update(v, e.drivers[driverID], e.race, e.track, e.rng, dt)
	}

	for _, driverID := range e.order {
		v := e.race.VehicleByDriver(driverID)
		if v == nil || v.IsDNF() || v.HasFinished || v.IsInPit {
			continue
		}
		strategy.DecidePitIntent(v, e.drivers[driverID], e.race, e.track, e.race.TotalLaps, e.rng)
	}

	racelogic.UpdateSafetyCar(e.race, e.track, e.drivers, e.rng, dt)
	racelogic.UpdatePositions(e.race, e.track)
	racelogic.UpdateSpatialAwareness(e.race, e.track)
	racelogic.UpdateDRS(e.race, e.track)
	racelogic.UpdateOvertakes(e.race, e.track, e.drivers, e.rng)
	racelogic.UpdateMoraleConcentration(e.race, dt)
	racelogic.UpdateFinish(e.race, e.race.TotalLaps)
}

// GetState returns the current published snapshot without advancing time.
func (e *Engine) GetState() domain.RaceState {
	return Snapshot(e.race)
}

// UpdateStrategy applies a driver-directed strategy change on one of the
// three channels the external interface defines: pace, ers or pit.
func (e *Engine) UpdateStrategy(driverID string, channel string, value string) error {
	v := e.race.VehicleByDriver(driverID)
	if v == nil {
		return fmt.Errorf("%w: %s", domain.ErrUnknownDriver, driverID)
	}
	switch channel {
	case "pace":
		v.PaceMode = domain.PaceMode(value)
	case "ers":
		v.ERSMode = domain.ERSMode(value)
	case "pit":
		v.BoxThisLap = value == "true"
	default:
		return fmt.Errorf("engine: unknown strategy channel %q", channel)
	}
	return nil
}

// SetWeatherMode switches between simulation-generated and externally
// pushed weather. Setting the same mode twice is a no-op per §8.
func (e *Engine) SetWeatherMode(mode domain.WeatherMode) {
	if e.race.WeatherMode == mode {
		return
	}
	e.race.WeatherMode = mode
}

// SetRealWeatherData stages an external weather payload; it is silently
// ignored unless the engine is currently in real weather mode, per §6/§7.
func (e *Engine) SetRealWeatherData(data domain.RealWeatherData) {
	e.race.PushRealWeather(data)
}
