package metrics

import (
	"time"

	"github.com/kilianp07/evrange/core/geo"
	coremetrics "github.com/kilianp07/evrange/core/metrics"
	"github.com/kilianp07/evrange/core/model"
)

func snapshot() model.TripSnapshot {
	return model.TripSnapshot{
		CurrentSpeedKmh:   60,
		ReferenceSpeedKmh: 40,
		BatteryPercent:    5,
		Origin:            geo.GeoPoint{Lat: 37, Lon: -122},
		Destination:       geo.GeoPoint{Lat: 37.5, Lon: -122},
		Stations:          []geo.GeoPoint{{Lat: 37.045, Lon: -122}},
	}
}

func speedReductionEvent(now time.Time) coremetrics.DecisionEvent {
	speed := 10.0
	station := model.ChargingStation{Index: 0, Location: geo.GeoPoint{Lat: 37.045, Lon: -122}, DistanceKm: 5.004}
	return coremetrics.DecisionEvent{
		ID:       "d1",
		Source:   "api",
		Snapshot: snapshot(),
		Decision: model.RouteDecision{
			State:               model.StateSpeedReductionRequired,
			Strategy:            geo.StrategyHaversine,
			DirectDistanceKm:    55.6,
			EstimatedRangeKm:    8.333,
			RankedStations:      []model.ChargingStation{station},
			NearestStation:      &station,
			RecommendedSpeedKmh: &speed,
		},
		Latency: 40 * time.Microsecond,
		Time:    now,
	}
}

func reachableEvent(now time.Time) coremetrics.DecisionEvent {
	return coremetrics.DecisionEvent{
		ID:       "d2",
		Source:   "api",
		Snapshot: snapshot(),
		Decision: model.RouteDecision{
			State:               model.StateDestinationReachable,
			Strategy:            geo.StrategyHaversine,
			DirectDistanceKm:    8.88,
			EstimatedRangeKm:    100,
			CanReachDestination: true,
		},
		Time: now,
	}
}
