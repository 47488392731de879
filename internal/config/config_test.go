package config

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ljlleo7-prog/Box-This-Lap/internal/domain"
)

func TestLoadTrackBuildsValidatedTrack(t *testing.T) {
	track, err := LoadTrack("testdata/track.yaml")
	require.NoError(t, err)

	require.Equal(t, "silverstone", track.ID)
	require.Equal(t, 5891.0, track.TotalDistance)
	require.Equal(t, 52, track.DefaultTotalLaps)
	require.Len(t, track.Sectors, 3)
	require.Equal(t, domain.SectorCornerHighSpeed, track.Sectors[1].Type)
	require.Len(t, track.DRSZones, 1)
	require.Equal(t, 22.0, track.PitLane.SpeedLimit)
	require.NoError(t, track.Validate())
}

func TestLoadTrackRejectsMalformedSectors(t *testing.T) {
	_, err := LoadTrack("testdata/bad-track.yaml")
	require.Error(t, err)
}

func TestLoadDriversPreservesFileOrder(t *testing.T) {
	drivers, err := LoadDrivers("testdata/drivers.yaml")
	require.NoError(t, err)
	require.Len(t, drivers, 2)

	require.Equal(t, "d1", drivers[0].ID)
	require.Equal(t, "Lena Voss", drivers[0].Name)
	require.Equal(t, 82.0, drivers[0].Skills.Racecraft)
	require.Equal(t, "d2", drivers[1].ID)
	require.Equal(t, 45.0, drivers[1].Personality.Aggression)
}

func TestLoadEngineSettingsDefaults(t *testing.T) {
	settings := LoadEngineSettings()
	require.Equal(t, uint32(1), settings.Seed)
	require.Equal(t, 0.1, settings.SubstepSeconds)
	require.Equal(t, domain.WeatherModeSimulation, settings.WeatherMode)
}
