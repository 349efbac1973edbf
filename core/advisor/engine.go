package advisor

import (
	"fmt"

	"github.com/kilianp07/evrange/core/model"
)

// ComputeRouteDecision runs the reachability state machine for one snapshot.
// Zero fields in cfg take their default values.
//
// The states are evaluated in order: destination reachable, nearest station
// reachable, speed reduction required. When the destination is out of range
// and the snapshot has no stations, ErrNoChargingStations is returned.
func ComputeRouteDecision(s model.TripSnapshot, cfg RangeConfig) (model.RouteDecision, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return model.RouteDecision{}, err
	}
	return decide(s, cfg)
}

func decide(s model.TripSnapshot, cfg RangeConfig) (model.RouteDecision, error) {
	if err := s.Validate(); err != nil {
		return model.RouteDecision{}, err
	}
	strategy := cfg.DistanceStrategy
	direct := strategy.Distance(s.Origin, s.Destination)
	estimated := EstimatedRangeKm(s.BatteryPercent, s.CurrentSpeedKmh, s.ReferenceSpeedKmh, cfg.TotalRangeKm)

	d := model.RouteDecision{
		Strategy:            strategy,
		DirectDistanceKm:    direct,
		EstimatedRangeKm:    estimated,
		RankedStations:      RankStations(s.Origin, s.Stations, strategy),
		CanReachDestination: estimated >= direct,
	}
	if len(d.RankedStations) > 0 {
		nearest := d.RankedStations[0]
		d.NearestStation = &nearest
		d.CanReachNearestStation = estimated >= nearest.DistanceKm
	}

	switch {
	case d.CanReachDestination:
		d.State = model.StateDestinationReachable
		d.Message = fmt.Sprintf("You have enough battery to reach your destination (%.2f km) safely.", direct)
	case d.NearestStation == nil:
		return model.RouteDecision{}, fmt.Errorf("%w: destination is %.2f km away, estimated range %.2f km",
			ErrNoChargingStations, direct, estimated)
	case d.CanReachNearestStation:
		d.State = model.StateNearestStationReachable
		d.Message = fmt.Sprintf("You can reach the nearest charging station (%.2f km) at your current speed.",
			d.NearestStation.DistanceKm)
	default:
		// estimated >= 0, so an unreachable station is always at a positive distance
		speed := RecommendedSpeedKmh(s.BatteryPercent, d.NearestStation.DistanceKm, cfg.SpeedPolicy())
		d.State = model.StateSpeedReductionRequired
		d.RecommendedSpeedKmh = &speed
		d.Message = fmt.Sprintf("Warning! You need to reduce speed to %.2f km/h to reach the charging station safely.", speed)
	}
	return d, nil
}

// Advisor is a RouteDecision calculator bound to a validated RangeConfig.
type Advisor struct {
	cfg RangeConfig
}

// New validates cfg (after applying defaults) and returns an Advisor.
func New(cfg RangeConfig) (*Advisor, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Advisor{cfg: cfg}, nil
}

// Config returns the effective configuration.
func (a *Advisor) Config() RangeConfig { return a.cfg }

// Decide computes the route decision for s.
func (a *Advisor) Decide(s model.TripSnapshot) (model.RouteDecision, error) {
	return decide(s, a.cfg)
}
