package engine

import "github.com/ljlleo7-prog/Box-This-Lap/internal/domain"

// Snapshot returns a logically immutable deep copy of the race state: the
// published view external consumers receive from Update/GetState per §5's
// "snapshots must be by value or by cloned view" rule.
func Snapshot(race *domain.RaceState) domain.RaceState {
	out := *race

	out.WeatherForecast = append([]domain.ForecastNode(nil), race.WeatherForecast...)
	out.SectorConditions = append([]domain.SectorConditions(nil), race.SectorConditions...)
	out.RaceCtrlMsgs = append([]domain.RaceCtrlMsg(nil), race.RaceCtrlMsgs...)

	out.Vehicles = make([]*domain.VehicleState, len(race.Vehicles))
	for i, v := range race.Vehicles {
		clone := *v
		clone.Plan = append([]domain.StrategyStint(nil), v.Plan...)
		clone.CurrentLapTrace = append([]domain.SpeedTracePoint(nil), v.CurrentLapTrace...)
		clone.LastLapTrace = append([]domain.SpeedTracePoint(nil), v.LastLapTrace...)
		out.Vehicles[i] = &clone
	}

	return out
}
