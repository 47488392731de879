// Package config loads track and driver roster definitions from YAML/JSON
// files and engine tuning knobs from the environment, in the
// spf13/viper style the teacher's pack uses for its own process
// configuration.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/ljlleo7-prog/Box-This-Lap/internal/domain"
)

// EngineSettings are the process-level engine knobs; every field is
// overridable by environment variable. cmd/racesim applies only Seed:
// SubstepSeconds and WeatherMode are read but not passed to the engine,
// which always uses a 0.1 s substep and starts in simulation weather mode.
type EngineSettings struct {
	Seed           uint32
	SubstepSeconds float64
	WeatherMode    domain.WeatherMode
}

// LoadEngineSettings reads engine tuning knobs from the environment via an
// AutomaticEnv-bound viper instance, falling back to the documented
// defaults (seed 1, the 0.1 s substep of §5, simulation weather mode).
func LoadEngineSettings() EngineSettings {
	v := viper.New()
	v.SetDefault("SEED", 1)
	v.SetDefault("SUBSTEP_SECONDS", 0.1)
	v.SetDefault("WEATHER_MODE", string(domain.WeatherModeSimulation))
	v.AutomaticEnv()

	return EngineSettings{
		Seed:           uint32(v.GetInt64("SEED")),
		SubstepSeconds: v.GetFloat64("SUBSTEP_SECONDS"),
		WeatherMode:    domain.WeatherMode(v.GetString("WEATHER_MODE")),
	}
}

// ServerSettings are the process-level knobs for the `serve` subcommand.
type ServerSettings struct {
	Port int
}

// LoadServerSettings reads the HTTP listen port from the environment,
// defaulting to 6565 as the teacher's own server does.
func LoadServerSettings() ServerSettings {
	v := viper.New()
	v.SetDefault("PORT", 6565)
	v.AutomaticEnv()

	return ServerSettings{Port: v.GetInt("PORT")}
}

// trackFile mirrors the on-disk shape of a track definition; it is decoded
// by viper (YAML or JSON, by extension) and translated into a validated
// domain.Track.
type trackFile struct {
	ID                    string  `mapstructure:"id"`
	TotalDistance         float64 `mapstructure:"totalDistance"`
	DefaultTotalLaps      int     `mapstructure:"defaultTotalLaps"`
	TireDegradationFactor float64 `mapstructure:"tireDegradationFactor"`
	OvertakingDifficulty  float64 `mapstructure:"overtakingDifficulty"`
	TrackDifficulty       float64 `mapstructure:"trackDifficulty"`
	BaseTemperature       float64 `mapstructure:"baseTemperature"`
	WeatherParams         struct {
		Volatility      float64 `mapstructure:"volatility"`
		RainProbability float64 `mapstructure:"rainProbability"`
	} `mapstructure:"weatherParams"`
	Sectors []struct {
		ID            int     `mapstructure:"id"`
		Name          string  `mapstructure:"name"`
		StartDistance float64 `mapstructure:"startDistance"`
		EndDistance   float64 `mapstructure:"endDistance"`
		Type          string  `mapstructure:"type"`
		Difficulty    float64 `mapstructure:"difficulty"`
		MaxSpeed      *float64 `mapstructure:"maxSpeed"`
	} `mapstructure:"sectors"`
	DRSZones []struct {
		DetectionDistance  float64 `mapstructure:"detectionDistance"`
		ActivationDistance float64 `mapstructure:"activationDistance"`
		EndDistance        float64 `mapstructure:"endDistance"`
	} `mapstructure:"drsZones"`
	PitLane struct {
		EntryDistance float64 `mapstructure:"entryDistance"`
		ExitDistance  float64 `mapstructure:"exitDistance"`
		SpeedLimit    float64 `mapstructure:"speedLimit"`
		StopTime      float64 `mapstructure:"stopTime"`
	} `mapstructure:"pitLane"`
}

// LoadTrack reads a single track definition file and builds a validated
// domain.Track.
func LoadTrack(path string) (domain.Track, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return domain.Track{}, fmt.Errorf("config: read track file %s: %w", path, err)
	}

	var tf trackFile
	if err := v.Unmarshal(&tf); err != nil {
		return domain.Track{}, fmt.Errorf("config: decode track file %s: %w", path, err)
	}

	sectors := make([]domain.Sector, len(tf.Sectors))
	for i, s := range tf.Sectors {
		sectors[i] = domain.Sector{
			ID:            s.ID,
			Name:          s.Name,
			StartDistance: s.StartDistance,
			EndDistance:   s.EndDistance,
			Type:          domain.SectorType(s.Type),
			Difficulty:    s.Difficulty,
			MaxSpeed:      s.MaxSpeed,
		}
	}

	zones := make([]domain.DRSZone, len(tf.DRSZones))
	for i, z := range tf.DRSZones {
		zones[i] = domain.DRSZone{
			DetectionDistance:  z.DetectionDistance,
			ActivationDistance: z.ActivationDistance,
			EndDistance:        z.EndDistance,
		}
	}

	return domain.NewTrack(
		tf.ID,
		tf.TotalDistance,
		tf.DefaultTotalLaps,
		tf.TireDegradationFactor,
		tf.OvertakingDifficulty,
		tf.TrackDifficulty,
		tf.BaseTemperature,
		domain.WeatherParams{
			Volatility:      tf.WeatherParams.Volatility,
			RainProbability: tf.WeatherParams.RainProbability,
		},
		sectors,
		zones,
		domain.PitLane{
			EntryDistance: tf.PitLane.EntryDistance,
			ExitDistance:  tf.PitLane.ExitDistance,
			SpeedLimit:    tf.PitLane.SpeedLimit,
			StopTime:      tf.PitLane.StopTime,
		},
	)
}

// driverFile mirrors the on-disk shape of one driver entry.
type driverFile struct {
	ID       string  `mapstructure:"id"`
	Name     string  `mapstructure:"name"`
	Team     string  `mapstructure:"team"`
	Color    string  `mapstructure:"color"`
	BasePace float64 `mapstructure:"basePace"`
	Skills   struct {
		Racecraft      float64 `mapstructure:"racecraft"`
		Consistency    float64 `mapstructure:"consistency"`
		TyreManagement float64 `mapstructure:"tyreManagement"`
		WetWeather     float64 `mapstructure:"wetWeather"`
	} `mapstructure:"skills"`
	Performance struct {
		CorneringHigh           float64 `mapstructure:"corneringHigh"`
		CorneringMedium         float64 `mapstructure:"corneringMedium"`
		CorneringLow            float64 `mapstructure:"corneringLow"`
		Straight                float64 `mapstructure:"straight"`
		TemperatureAdaptability float64 `mapstructure:"temperatureAdaptability"`
	} `mapstructure:"performance"`
	Personality struct {
		Aggression       float64 `mapstructure:"aggression"`
		StressResistance float64 `mapstructure:"stressResistance"`
		TeamPlayer       float64 `mapstructure:"teamPlayer"`
	} `mapstructure:"personality"`
	StartingMorale float64 `mapstructure:"startingMorale"`
	StartingTrust  float64 `mapstructure:"startingTrust"`
}

// LoadDrivers reads a driver roster file and returns the driver set in file
// order, which callers must preserve verbatim: it becomes the RNG
// consumption order for qualifying.
func LoadDrivers(path string) ([]domain.Driver, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: read driver roster %s: %w", path, err)
	}

	var files []driverFile
	if err := v.UnmarshalKey("drivers", &files); err != nil {
		return nil, fmt.Errorf("config: decode driver roster %s: %w", path, err)
	}

	seen := make(map[string]struct{}, len(files))
	drivers := make([]domain.Driver, len(files))
	for i, df := range files {
		if df.ID != "" {
			if _, dup := seen[df.ID]; dup {
				return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateDriver, df.ID)
			}
			seen[df.ID] = struct{}{}
		}
		drivers[i] = domain.NewDriver(
			df.Name, df.Team, df.Color, df.BasePace,
			domain.SkillScores{
				Racecraft:      df.Skills.Racecraft,
				Consistency:    df.Skills.Consistency,
				TyreManagement: df.Skills.TyreManagement,
				WetWeather:     df.Skills.WetWeather,
			},
			domain.PerformanceScores{
				CorneringHigh:           df.Performance.CorneringHigh,
				CorneringMedium:         df.Performance.CorneringMedium,
				CorneringLow:            df.Performance.CorneringLow,
				Straight:                df.Performance.Straight,
				TemperatureAdaptability: df.Performance.TemperatureAdaptability,
			},
			domain.PersonalityScores{
				Aggression:       df.Personality.Aggression,
				StressResistance: df.Personality.StressResistance,
				TeamPlayer:       df.Personality.TeamPlayer,
			},
			df.StartingMorale, df.StartingTrust,
		)
		if df.ID != "" {
			drivers[i].ID = df.ID
		}
	}
	return drivers, nil
}
