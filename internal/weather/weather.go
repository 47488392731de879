// Package weather implements the WeatherSystem of §4.3: it maintains a
// rolling forecast built from multi-frequency synthetic noise, interpolates
// the current cloud cover and rain intensity from it, and evolves sector
// water depth, wind and temperatures tick by tick.
package weather

import (
	"math"

	"github.com/ljlleo7-prog/Box-This-Lap/internal/domain"
	"github.com/ljlleo7-prog/Box-This-Lap/internal/rng"
)

const (
	macroPeriod  = 5000.0
	mesoPeriod   = 1000.0
	microPeriod  = 160.0
	nodeSpacing  = 120.0
	initialNodes = 16
	maintenanceInterval = 60.0
	forecastHorizon     = 1800.0
)

// InitializeForecast builds the initial 16-node, 120-second-spaced forecast
// and seeds RaceState's current weather reading from node zero. Must be
// called once during race initialization, after RNG consumption for
// qualifying so that forecast node-phase draws happen in the documented
// order (see engine.New).
func InitializeForecast(race *domain.RaceState, track domain.Track, r *rng.RNG) {
	race.WeatherForecast = make([]domain.ForecastNode, 0, initialNodes)
	for i := 0; i < initialNodes; i++ {
		t := float64(i) * nodeSpacing
		race.WeatherForecast = append(race.WeatherForecast, generateNode(t, track, r))
	}
	race.ForecastLastMaintenance = 0
	interpolateCurrent(race)
}

// Update advances the weather system by dt seconds of race time: it
// maintains the forecast horizon (simulation mode) or ingests a pushed
// real-weather payload (real mode), interpolates the current reading,
// derives temperatures, and evolves water depth and rubber.
func Update(race *domain.RaceState, track domain.Track, r *rng.RNG, dt float64) {
	race.ElapsedTime += dt

	if race.WeatherMode == domain.WeatherModeReal {
		applyRealWeather(race, track)
	} else {
		maintainForecast(race, track, r)
		interpolateCurrent(race)
		deriveTemperatures(race, track)
		driftWind(race, r, dt)
	}

	evolveWaterAndRubber(race, dt)
}

// generateNode synthesizes one forecast node at absolute time t from three
// sine waves: a slow macro trend, a medium-frequency meso wave with a
// phase randomized once per node, and fast micro noise.
func generateNode(t float64, track domain.Track, r *rng.RNG) domain.ForecastNode {
	volatility := track.WeatherParams.Volatility
	mesoPhase := r.Range(0, 2*math.Pi)

	macro := math.Sin(2 * math.Pi * t / macroPeriod)
	meso := math.Sin(2*math.Pi*t/mesoPeriod + mesoPhase)
	micro := math.Sin(2 * math.Pi * t / microPeriod)

	combined := 0.5*macro + 0.3*volatility*meso + 0.2*volatility*micro

	center := 30.0
	if track.WeatherParams.RainProbability > 0.5 {
		center = 60.0
	}

	cloud := clamp(center+50*combined, 0, 100)

	var rain float64
	if cloud > 70 {
		frac := (cloud - 70) / 30
		rain = frac * frac * 100
	}

	return domain.ForecastNode{TimeOffset: t, CloudCover: cloud, RainIntensity: rain}
}

// maintainForecast discards nodes more than one step in the past and
// extends the horizon so the forecast always reaches 1800s beyond the
// current time, running every 60 seconds of race time.
func maintainForecast(race *domain.RaceState, track domain.Track, r *rng.RNG) {
	if race.ElapsedTime-race.ForecastLastMaintenance < maintenanceInterval {
		return
	}
	race.ForecastLastMaintenance = race.ElapsedTime

	nodes := race.WeatherForecast
	keepFrom := 0
	for i := 0; i < len(nodes); i++ {
		if nodes[i].TimeOffset <= race.ElapsedTime {
			keepFrom = i
		} else {
			break
		}
	}
	if keepFrom > 0 {
		nodes = nodes[keepFrom:]
	}

	target := race.ElapsedTime + forecastHorizon
	for len(nodes) == 0 || nodes[len(nodes)-1].TimeOffset < target {
		var next float64
		if len(nodes) == 0 {
			next = race.ElapsedTime
		} else {
			next = nodes[len(nodes)-1].TimeOffset + nodeSpacing
		}
		nodes = append(nodes, generateNode(next, track, r))
	}

	race.WeatherForecast = nodes
}

// interpolateCurrent linearly interpolates the current cloud cover and rain
// intensity from the two forecast nodes bracketing ElapsedTime, and derives
// the discrete Weather reading.
func interpolateCurrent(race *domain.RaceState) {
	nodes := race.WeatherForecast
	if len(nodes) == 0 {
		return
	}
	t := race.ElapsedTime

	if t <= nodes[0].TimeOffset {
		race.CloudCover = nodes[0].CloudCover
		race.RainIntensityLevel = nodes[0].RainIntensity
	} else if t >= nodes[len(nodes)-1].TimeOffset {
		last := nodes[len(nodes)-1]
		race.CloudCover = last.CloudCover
		race.RainIntensityLevel = last.RainIntensity
	} else {
		for i := 0; i < len(nodes)-1; i++ {
			a, b := nodes[i], nodes[i+1]
			if t >= a.TimeOffset && t <= b.TimeOffset {
				frac := 0.0
				if b.TimeOffset != a.TimeOffset {
					frac = (t - a.TimeOffset) / (b.TimeOffset - a.TimeOffset)
				}
				race.CloudCover = a.CloudCover + frac*(b.CloudCover-a.CloudCover)
				race.RainIntensityLevel = a.RainIntensity + frac*(b.RainIntensity-a.RainIntensity)
				break
			}
		}
	}

	race.Weather = discretize(race.RainIntensityLevel)
}

func discretize(rain float64) domain.WeatherCondition {
	switch {
	case rain > 50:
		return domain.WeatherHeavyRain
	case rain > 5:
		return domain.WeatherLightRain
	default:
		return domain.WeatherDry
	}
}

// deriveTemperatures computes air and track temperature from the current
// cloud cover and rain intensity per §4.3.
func deriveTemperatures(race *domain.RaceState, track domain.Track) {
	rain := race.RainIntensityLevel
	cloud := race.CloudCover

	airTemp := track.BaseTemperature - 5*(rain/100) - 3*(cloud/100)
	trackTemp := airTemp + 15*(1-cloud/100)
	if rain > 5 {
		trackTemp = airTemp + 1
	}

	race.AirTemp = airTemp
	race.TrackTemp = trackTemp
}

// driftWind nudges wind speed and direction with a small bounded random
// walk in simulation mode, so "wind" is an evolving part of the weather
// system per §4.3 rather than a value only ever set from a real-weather
// push.
func driftWind(race *domain.RaceState, r *rng.RNG, dt float64) {
	race.WindSpeed += r.Range(-0.3, 0.3) * dt
	race.WindSpeed = clamp(race.WindSpeed, 0, 25)

	race.WindDirection += r.Range(-3, 3) * dt
	race.WindDirection = math.Mod(race.WindDirection, 360)
	if race.WindDirection < 0 {
		race.WindDirection += 360
	}
}

// applyRealWeather ingests the most recently pushed real-weather payload (if
// any) and derives the same current-reading fields that interpolateCurrent
// + deriveTemperatures would in simulation mode, per §4.3's real-mode rule.
func applyRealWeather(race *domain.RaceState, track domain.Track) {
	data := race.TakePendingRealWeather()
	if data == nil {
		return
	}

	race.CloudCover = clamp(data.CloudCover, 0, 100)
	race.WindSpeed = data.WindSpeed
	race.WindDirection = data.WindDirection
	race.RainIntensityLevel = math.Min(100, data.Precipitation/5*100)
	race.Weather = discretize(race.RainIntensityLevel)

	airTemp := data.Temp
	trackTemp := airTemp + 15*(1-race.CloudCover/100)
	if race.RainIntensityLevel > 5 {
		trackTemp = airTemp + 1
	}
	race.AirTemp = airTemp
	race.TrackTemp = trackTemp
}

// evolveWaterAndRubber integrates sector water depth from the current rain
// intensity and decays rubber once standing water builds up, per §4.3.
func evolveWaterAndRubber(race *domain.RaceState, dt float64) {
	rain := race.RainIntensityLevel
	raining := rain > 5

	accumulation := (rain / 100) * (10.0 / 3600.0)
	drainage := 2.0 / 3600.0
	evaporation := 0.5 / 3600.0
	if rain < 5 {
		evaporation *= 4
	}

	var net float64
	if raining {
		net = accumulation - drainage
	} else {
		net = -(drainage + evaporation)
	}
	net *= dt

	for i := range race.SectorConditions {
		sc := &race.SectorConditions[i]
		sc.WaterDepth += net
		if sc.WaterDepth < 0 {
			sc.WaterDepth = 0
		}
		if sc.WaterDepth > 0.5 {
			sc.RubberLevel -= 0.02 * dt
			if sc.RubberLevel < 0 {
				sc.RubberLevel = 0
			}
		}
	}

	race.TrackWaterDepth += net
	if race.TrackWaterDepth < 0 {
		race.TrackWaterDepth = 0
	}
	if race.TrackWaterDepth > 0.5 {
		race.RubberLevel -= 0.02 * dt
		if race.RubberLevel < 0 {
			race.RubberLevel = 0
		}
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
