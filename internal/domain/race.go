package domain

// WeatherCondition is the discrete weather reading derived from the current
// interpolated rain intensity.
type WeatherCondition string

const (
	WeatherDry       WeatherCondition = "dry"
	WeatherLightRain WeatherCondition = "light-rain"
	WeatherHeavyRain WeatherCondition = "heavy-rain"
)

// WeatherMode selects whether the weather system generates its own forecast
// or is driven by externally pushed real-world data.
type WeatherMode string

const (
	WeatherModeSimulation WeatherMode = "simulation"
	WeatherModeReal       WeatherMode = "real"
)

// SafetyCarStatus is the current race-neutralization regime.
type SafetyCarStatus string

const (
	SafetyCarNone     SafetyCarStatus = "none"
	SafetyCarVSC      SafetyCarStatus = "vsc"
	SafetyCarSC       SafetyCarStatus = "sc"
	SafetyCarRedFlag  SafetyCarStatus = "red-flag"
)

// RaceStatus is the overall lifecycle state of a race.
type RaceStatus string

const (
	StatusPreRace  RaceStatus = "pre-race"
	StatusRacing   RaceStatus = "racing"
	StatusFinished RaceStatus = "finished"
)

// ForecastNode is one point of the rolling weather forecast.
type ForecastNode struct {
	TimeOffset    float64 // seconds, elapsed-time coordinate
	CloudCover    float64 // [0,100]
	RainIntensity float64 // [0,100]
}

// SectorConditions is the per-sector evolving track-surface state.
type SectorConditions struct {
	WaterDepth  float64 // mm
	RubberLevel float64 // [0,100]
}

// RealWeatherData is the externally supplied weather payload consumed in
// WeatherModeReal; its shape is the only contract the core defines for the
// external weather-API fetcher collaborator.
type RealWeatherData struct {
	CloudCover      float64 // [0,100]
	WindSpeed       float64
	WindDirection   float64 // [0,360)
	Temp            float64 // degrees C
	Precipitation   float64 // mm/h
}

// RaceState is the complete, mutable simulation state for one race. Fields
// are grouped by owning sub-system per §3's lifecycle rule; nothing is
// destroyed until the engine itself is discarded.
type RaceState struct {
	ID      string
	TrackID string

	CurrentLap int
	TotalLaps  int

	// Weather (owned by WeatherSystem)
	Weather            WeatherCondition
	WeatherMode        WeatherMode
	WeatherForecast    []ForecastNode
	CloudCover         float64
	RainIntensityLevel float64
	WindSpeed          float64
	WindDirection      float64
	TrackTemp          float64
	AirTemp            float64
	RubberLevel        float64
	SectorConditions   []SectorConditions
	TrackWaterDepth    float64
	pendingRealWeather *RealWeatherData
	// ForecastLastMaintenance is the elapsed time at which the forecast
	// horizon was last pruned/extended; internal bookkeeping for the
	// weather system's 60-second maintenance cadence.
	ForecastLastMaintenance float64

	// Race flags (owned by RaceLogicSystem)
	SafetyCar      SafetyCarStatus
	SafetyCarTimer float64

	// Vehicles, in fixed grid/insertion order. Iteration order over this
	// slice is part of the deterministic replay contract: never range over
	// a map when the result affects RNG consumption order or mutation.
	Vehicles []*VehicleState

	RaceCtrlMsgs []RaceCtrlMsg

	Status       RaceStatus
	CheckeredFlag bool
	WinnerID     string
	ElapsedTime  float64
}

// VehicleByDriver returns the vehicle state for a driver id, or nil.
func (r *RaceState) VehicleByDriver(driverID string) *VehicleState {
	for _, v := range r.Vehicles {
		if v.DriverID == driverID {
			return v
		}
	}
	return nil
}

// Leader returns the position-1 vehicle, or nil if there are no vehicles.
func (r *RaceState) Leader() *VehicleState {
	for _, v := range r.Vehicles {
		if v.Position == 1 {
			return v
		}
	}
	return nil
}

// PushRealWeather stages an externally supplied weather payload for the next
// WeatherSystem pass; it is a no-op unless WeatherMode is "real", per §7.
func (r *RaceState) PushRealWeather(data RealWeatherData) {
	if r.WeatherMode != WeatherModeReal {
		return
	}
	d := data
	r.pendingRealWeather = &d
}

// TakePendingRealWeather returns and clears the most recently pushed real
// weather payload, if any.
func (r *RaceState) TakePendingRealWeather() *RealWeatherData {
	d := r.pendingRealWeather
	r.pendingRealWeather = nil
	return d
}
