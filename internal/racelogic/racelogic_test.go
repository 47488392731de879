package racelogic

import (
	"testing"

	"github.com/ljlleo7-prog/Box-This-Lap/internal/domain"
	"github.com/ljlleo7-prog/Box-This-Lap/internal/rng"
)

func testTrack() domain.Track {
	return domain.Track{
		TotalDistance:        5000,
		TrackDifficulty:      0.3,
		OvertakingDifficulty: 0.4,
		PitLane:              domain.PitLane{EntryDistance: 4800, ExitDistance: 4900, SpeedLimit: 22, StopTime: 25},
		Sectors: []domain.Sector{
			{ID: 1, StartDistance: 0, EndDistance: 2000, Type: domain.SectorStraight},
			{ID: 2, StartDistance: 2000, EndDistance: 3500, Type: domain.SectorCornerHighSpeed},
			{ID: 3, StartDistance: 3500, EndDistance: 5000, Type: domain.SectorCornerLowSpeed},
		},
		DRSZones: []domain.DRSZone{
			{DetectionDistance: 1800, ActivationDistance: 1900, EndDistance: 2000},
		},
	}
}

func testDriverWith(id string, aggression float64) domain.Driver {
	return domain.Driver{
		ID:       id,
		BasePace: 88,
		Skills: domain.SkillScores{
			Racecraft: 70, Consistency: 70, TyreManagement: 70, WetWeather: 70,
		},
		Personality: domain.PersonalityScores{
			Aggression: aggression, StressResistance: 50, TeamPlayer: 50,
		},
		StartingMorale: 75,
	}
}

func TestInitializePlacesGridByQualifyingPace(t *testing.T) {
	track := testTrack()
	drivers := []domain.Driver{
		testDriverWith("slow", 50),
		testDriverWith("fast", 50),
	}
	drivers[0].BasePace = 95
	drivers[1].BasePace = 80

	race := &domain.RaceState{}
	r := rng.New(1)

	vehicles := Initialize(race, track, drivers, r)

	if len(vehicles) != 2 {
		t.Fatalf("expected 2 vehicles, got %d", len(vehicles))
	}
	if vehicles[0].DriverID != "fast" {
		t.Fatalf("expected the faster qualifier on pole, got %s", vehicles[0].DriverID)
	}
	if vehicles[0].DistanceOnLap <= vehicles[1].DistanceOnLap {
		t.Fatalf("expected pole to start ahead of P2 on the grid")
	}
	if len(race.SectorConditions) != len(track.Sectors) {
		t.Fatalf("expected sector conditions seeded for every sector")
	}
}

func TestInitializeIsDeterministicForSameSeed(t *testing.T) {
	track := testTrack()
	drivers := []domain.Driver{testDriverWith("a", 50), testDriverWith("b", 80)}

	race1 := &domain.RaceState{}
	v1 := Initialize(race1, track, drivers, rng.New(42))

	race2 := &domain.RaceState{}
	v2 := Initialize(race2, track, drivers, rng.New(42))

	for i := range v1 {
		if v1[i].DriverID != v2[i].DriverID || v1[i].DistanceOnLap != v2[i].DistanceOnLap {
			t.Fatalf("expected identical grid placement for identical seed")
		}
	}
}

func TestUpdateSafetyCarCountsDownAndLifts(t *testing.T) {
	track := testTrack()
	race := &domain.RaceState{
		SafetyCar:      domain.SafetyCarVSC,
		SafetyCarTimer: 1.0,
		Vehicles:       []*domain.VehicleState{{DriverID: "d1"}},
	}
	r := rng.New(1)

	UpdateSafetyCar(race, track, nil, r, 0.5)
	if race.SafetyCar != domain.SafetyCarVSC {
		t.Fatalf("expected VSC to still be active mid-countdown")
	}

	UpdateSafetyCar(race, track, nil, r, 0.6)
	if race.SafetyCar != domain.SafetyCarNone {
		t.Fatalf("expected VSC to lift once the timer expires")
	}
}

func TestRedFlagExpiryRestartsGrid(t *testing.T) {
	track := testTrack()
	v1 := &domain.VehicleState{DriverID: "d1", Position: 1, LapCount: 3, DistanceOnLap: 1000, Speed: 80}
	v2 := &domain.VehicleState{DriverID: "d2", Position: 2, LapCount: 2, DistanceOnLap: 4500, Speed: 75}
	race := &domain.RaceState{
		SafetyCar:      domain.SafetyCarRedFlag,
		SafetyCarTimer: 0.1,
		Vehicles:       []*domain.VehicleState{v1, v2},
	}
	r := rng.New(2)

	UpdateSafetyCar(race, track, nil, r, 1.0)

	if race.SafetyCar != domain.SafetyCarNone {
		t.Fatalf("expected red flag to lift")
	}
	if v1.Speed != 0 || v2.Speed != 0 {
		t.Fatalf("expected both vehicles stationary after restart")
	}
	if v2.LapCount != v1.LapCount {
		t.Fatalf("expected the lapped car unlapped to the leader's lap count")
	}
}

func TestSampleIncidentsAppliesAtMostOnePerTick(t *testing.T) {
	track := testTrack()
	drivers := map[string]domain.Driver{
		"d1": testDriverWith("d1", 50),
		"d2": testDriverWith("d2", 50),
	}
	v1 := &domain.VehicleState{DriverID: "d1", Speed: 90, Concentration: 0}
	v2 := &domain.VehicleState{DriverID: "d2", Speed: 90, Concentration: 0}
	race := &domain.RaceState{SafetyCar: domain.SafetyCarNone, Vehicles: []*domain.VehicleState{v1, v2}}
	r := rng.New(3)

	for i := 0; i < 5000 && race.SafetyCar == domain.SafetyCarNone; i++ {
		sampleIncidents(race, track, drivers, r, 1.0)
	}

	if race.SafetyCar == domain.SafetyCarNone {
		t.Skip("no incident drawn in the sample window for this seed")
	}
	if len(race.RaceCtrlMsgs) != 1 {
		t.Fatalf("expected exactly one race-control message logged, got %d", len(race.RaceCtrlMsgs))
	}
}

func TestUpdateDRSRequiresDryNoSafetyCarAndZone(t *testing.T) {
	track := testTrack()
	race := &domain.RaceState{
		Weather:   domain.WeatherDry,
		SafetyCar: domain.SafetyCarNone,
		Vehicles:  []*domain.VehicleState{{DriverID: "d1", Position: 2, LapCount: 3, GapToAhead: 0.5, DistanceOnLap: 1950}},
	}
	UpdateDRS(race, track)
	if !race.Vehicles[0].DRSOpen {
		t.Fatal("expected DRS open with all conditions met")
	}

	race.Vehicles[0].DistanceOnLap = 100
	UpdateDRS(race, track)
	if race.Vehicles[0].DRSOpen {
		t.Fatal("expected DRS closed outside the activation zone")
	}

	race.Vehicles[0].DistanceOnLap = 1950
	race.Weather = domain.WeatherHeavyRain
	UpdateDRS(race, track)
	if race.Vehicles[0].DRSOpen {
		t.Fatal("expected DRS closed in the rain")
	}
}

func TestUpdateDRSClosesForLeader(t *testing.T) {
	track := testTrack()
	race := &domain.RaceState{
		Weather:  domain.WeatherDry,
		Vehicles: []*domain.VehicleState{{DriverID: "d1", Position: 1, LapCount: 5, GapToAhead: 0.1, DistanceOnLap: 1950}},
	}
	UpdateDRS(race, track)
	if race.Vehicles[0].DRSOpen {
		t.Fatal("expected the leader to never have DRS")
	}
}

func TestPitStopMachineAdvancesThroughPhases(t *testing.T) {
	track := testTrack()
	v := &domain.VehicleState{
		DriverID:      "d1",
		DistanceOnLap: track.PitLane.EntryDistance,
		IsInPit:       true,
		PitPhase:      domain.PitPhaseDrivingIn,
		TyreWear:      40,
		Plan:          []domain.StrategyStint{{Compound: domain.CompoundHard, StartLap: 0, EndLap: 50}},
	}
	race := &domain.RaceState{Vehicles: []*domain.VehicleState{v}}
	r := rng.New(4)

	for i := 0; i < 2000 && v.PitPhase != domain.PitPhaseNone; i++ {
		UpdatePitStop(v, race, track, 50, r, 0.1)
	}

	if v.IsInPit {
		t.Fatal("expected the vehicle to be released from the pit")
	}
	if v.TyreWear != 0 {
		t.Fatalf("expected tyre wear reset on release, got %f", v.TyreWear)
	}
	if v.PitStopCount != 1 {
		t.Fatalf("expected pit stop count to increment, got %d", v.PitStopCount)
	}
}

func TestUpdatePositionsOrdersByLapThenDistance(t *testing.T) {
	track := testTrack()
	v1 := &domain.VehicleState{DriverID: "d1", LapCount: 2, DistanceOnLap: 100, Speed: 60}
	v2 := &domain.VehicleState{DriverID: "d2", LapCount: 3, DistanceOnLap: 50, Speed: 60}
	race := &domain.RaceState{Vehicles: []*domain.VehicleState{v1, v2}}

	UpdatePositions(race, track)

	if v2.Position != 1 {
		t.Fatalf("expected the car a lap ahead to lead regardless of on-lap distance, got position %d", v2.Position)
	}
	if v1.Position != 2 {
		t.Fatalf("expected the trailing car at position 2, got %d", v1.Position)
	}
	if v1.GapToLeader <= 0 {
		t.Fatalf("expected a positive gap to leader, got %f", v1.GapToLeader)
	}
	if race.Vehicles[0] != v1 {
		t.Fatal("expected the canonical Vehicles slice order to remain untouched")
	}
}

func TestUpdatePositionsPinsWinnerAfterCheckeredFlag(t *testing.T) {
	track := testTrack()
	winner := &domain.VehicleState{DriverID: "d1", LapCount: 10, DistanceOnLap: 100, Speed: 60}
	chaser := &domain.VehicleState{DriverID: "d2", LapCount: 10, DistanceOnLap: 4999, Speed: 60}
	race := &domain.RaceState{
		Vehicles:      []*domain.VehicleState{winner, chaser},
		CheckeredFlag: true,
		WinnerID:      "d1",
	}

	UpdatePositions(race, track)

	if winner.Position != 1 {
		t.Fatalf("expected the recorded winner pinned to position 1 despite trailing on distance, got %d", winner.Position)
	}
	if chaser.Position != 2 {
		t.Fatalf("expected the chaser held at position 2, got %d", chaser.Position)
	}
}

func TestUpdatePositionsAppliesMoraleDeltaOnChange(t *testing.T) {
	track := testTrack()
	v1 := &domain.VehicleState{DriverID: "d1", Position: 2, LapCount: 1, DistanceOnLap: 4000, Speed: 60, Morale: 50, Concentration: 50}
	v2 := &domain.VehicleState{DriverID: "d2", Position: 1, LapCount: 1, DistanceOnLap: 3000, Speed: 60, Morale: 50, Concentration: 50}
	race := &domain.RaceState{Vehicles: []*domain.VehicleState{v1, v2}}

	UpdatePositions(race, track)

	if v1.Morale <= 50 {
		t.Fatalf("expected morale to rise on gaining a position, got %f", v1.Morale)
	}
	if v2.Morale >= 50 {
		t.Fatalf("expected morale to fall on losing a position, got %f", v2.Morale)
	}
}

func TestUpdateSpatialAwarenessWrapsAcrossTheLine(t *testing.T) {
	track := testTrack()
	front := &domain.VehicleState{DriverID: "front", DistanceOnLap: 4990, Speed: 60}
	back := &domain.VehicleState{DriverID: "back", DistanceOnLap: 10, Speed: 60}
	race := &domain.RaceState{Vehicles: []*domain.VehicleState{front, back}}

	UpdateSpatialAwareness(race, track)

	if front.AheadDriverID != "back" {
		t.Fatalf("expected the frontmost car's ahead car to wrap to the rearmost, got %s", front.AheadDriverID)
	}
	if front.PhysicalGapAhead <= 0 {
		t.Fatalf("expected a positive wrapped physical gap, got %f", front.PhysicalGapAhead)
	}
}

func TestUpdateSpatialAwarenessFlagsDirtyAirAndBattling(t *testing.T) {
	track := testTrack()
	ahead := &domain.VehicleState{DriverID: "ahead", DistanceOnLap: 1000, Speed: 60}
	behind := &domain.VehicleState{DriverID: "behind", DistanceOnLap: 980, Speed: 60}
	race := &domain.RaceState{Vehicles: []*domain.VehicleState{ahead, behind}}

	UpdateSpatialAwareness(race, track)

	if !behind.InDirtyAir {
		t.Fatal("expected the trailing car to be in dirty air at a 20m/60m/s gap")
	}
	if !behind.IsBattling {
		t.Fatal("expected the trailing car to be battling at such a tight gap")
	}
}

func TestUpdateSpatialAwarenessFlagsBlueFlag(t *testing.T) {
	track := testTrack()
	lapped := &domain.VehicleState{DriverID: "lapped", DistanceOnLap: 1000, LapCount: 1, Speed: 60}
	leader := &domain.VehicleState{DriverID: "leader", DistanceOnLap: 980, LapCount: 2, Speed: 60}
	race := &domain.RaceState{Vehicles: []*domain.VehicleState{lapped, leader}}

	UpdateSpatialAwareness(race, track)

	if !lapped.BlueFlag {
		t.Fatal("expected the lapped car to be shown blue flags with the leader closing from behind")
	}
}

func TestResolveOvertakeDRSBoostsProbability(t *testing.T) {
	track := testTrack()
	attackerDriver := testDriverWith("a", 50)
	defenderDriver := testDriverWith("b", 50)

	wins := 0
	for i := 0; i < 500; i++ {
		attacker := &domain.VehicleState{DriverID: "a", IsBattling: true, DRSOpen: true}
		defender := &domain.VehicleState{DriverID: "b", IsBattling: true}
		r := rng.New(uint32(1000 + i))
		resolveOvertake(attacker, defender, attackerDriver, defenderDriver, track, r)
		if !attacker.IsBattling {
			wins++
		}
	}
	if wins == 0 {
		t.Fatal("expected at least some successful overtakes with DRS open across many draws")
	}
}

func TestUpdateOvertakesSkipsOutsideStrikeRange(t *testing.T) {
	track := testTrack()
	drivers := map[string]domain.Driver{"a": testDriverWith("a", 50), "b": testDriverWith("b", 50)}
	v1 := &domain.VehicleState{DriverID: "a", Position: 2, IsBattling: true, GapToAhead: 1.0}
	v2 := &domain.VehicleState{DriverID: "b", Position: 1}
	race := &domain.RaceState{Vehicles: []*domain.VehicleState{v1, v2}}
	r := rng.New(5)

	UpdateOvertakes(race, track, drivers, r)
	if v1.Speed != 0 {
		t.Fatal("expected no overtake resolution outside the 0.2s strike range")
	}
}

func TestUpdateMoraleConcentrationDriftsTowardBaseline(t *testing.T) {
	v := &domain.VehicleState{Morale: 40, Concentration: 90}
	race := &domain.RaceState{Vehicles: []*domain.VehicleState{v}}

	for i := 0; i < 100; i++ {
		UpdateMoraleConcentration(race, 1.0)
	}

	if v.Morale <= 40 {
		t.Fatalf("expected morale to drift up toward the 80 baseline, got %f", v.Morale)
	}
}

func TestUpdateMoraleConcentrationLap1Sector1Penalty(t *testing.T) {
	v := &domain.VehicleState{Morale: 80, Concentration: 50, LapCount: 0, CurrentSector: 1}
	race := &domain.RaceState{Vehicles: []*domain.VehicleState{v}}

	UpdateMoraleConcentration(race, 1.0)

	if v.Concentration >= 50 {
		t.Fatalf("expected concentration to drop during lap-1 sector-1 chaos, got %f", v.Concentration)
	}
}

func TestUpdateFinishRaisesCheckeredFlagForLeaderAndTransitionsWhenAllDone(t *testing.T) {
	v1 := &domain.VehicleState{DriverID: "d1", Position: 1, LapCount: 50, HasFinished: true}
	v2 := &domain.VehicleState{DriverID: "d2", Position: 2, LapCount: 49, HasFinished: false}
	race := &domain.RaceState{Vehicles: []*domain.VehicleState{v1, v2}}

	UpdateFinish(race, 50)

	if !race.CheckeredFlag {
		t.Fatal("expected the checkered flag once the leader completes the final lap")
	}
	if race.WinnerID != "d1" {
		t.Fatalf("expected the leader recorded as winner, got %s", race.WinnerID)
	}
	if race.Status == domain.StatusFinished {
		t.Fatal("expected the race to stay open until every car has finished")
	}

	v2.HasFinished = true
	UpdateFinish(race, 50)
	if race.Status != domain.StatusFinished {
		t.Fatal("expected the race to finish once every active car has crossed the line")
	}
}

func TestUpdateFinishIgnoresRetiredCars(t *testing.T) {
	v1 := &domain.VehicleState{DriverID: "d1", Position: 1, LapCount: 50, HasFinished: true}
	v2 := &domain.VehicleState{DriverID: "d2", Position: 2, Damage: 100}
	race := &domain.RaceState{Vehicles: []*domain.VehicleState{v1, v2}, CheckeredFlag: true}

	UpdateFinish(race, 50)

	if race.Status != domain.StatusFinished {
		t.Fatal("expected a retired car to not block the race from finishing")
	}
}
