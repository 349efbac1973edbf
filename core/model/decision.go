package model

import (
	"fmt"

	"github.com/kilianp07/evrange/core/geo"
)

// DecisionState is the branch of the reachability state machine a decision
// ended in.
type DecisionState int

const (
	StateUnknown DecisionState = iota
	StateDestinationReachable
	StateNearestStationReachable
	StateSpeedReductionRequired
)

// String returns the wire name of the state.
func (s DecisionState) String() string {
	switch s {
	case StateDestinationReachable:
		return "destination_reachable"
	case StateNearestStationReachable:
		return "nearest_station_reachable"
	case StateSpeedReductionRequired:
		return "speed_reduction_required"
	default:
		return "unknown"
	}
}

// ParseDecisionState is the inverse of String.
func ParseDecisionState(s string) (DecisionState, error) {
	switch s {
	case "destination_reachable":
		return StateDestinationReachable, nil
	case "nearest_station_reachable":
		return StateNearestStationReachable, nil
	case "speed_reduction_required":
		return StateSpeedReductionRequired, nil
	case "", "unknown":
		return StateUnknown, nil
	default:
		return StateUnknown, fmt.Errorf("unknown decision state %q", s)
	}
}

func (s DecisionState) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *DecisionState) UnmarshalText(b []byte) error {
	v, err := ParseDecisionState(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ChargingStation is a candidate station with its distance from the trip origin.
type ChargingStation struct {
	Index      int          `json:"index"` // position in TripSnapshot.Stations
	Location   geo.GeoPoint `json:"location"`
	DistanceKm float64      `json:"distance_km"`
}

// RouteDecision is the outcome of one advisor query. It is never mutated
// after it has been returned.
type RouteDecision struct {
	State                  DecisionState     `json:"state"`
	Strategy               geo.Strategy      `json:"strategy"`
	DirectDistanceKm       float64           `json:"direct_distance_km"`
	EstimatedRangeKm       float64           `json:"estimated_range_km"`
	RankedStations         []ChargingStation `json:"ranked_stations"`
	NearestStation         *ChargingStation  `json:"nearest_station,omitempty"`
	CanReachDestination    bool              `json:"can_reach_destination"`
	CanReachNearestStation bool              `json:"can_reach_nearest_station"`
	RecommendedSpeedKmh    *float64          `json:"recommended_speed_kmh,omitempty"`
	Message                string            `json:"message"`
}

// HasRecommendation reports whether a reduced speed was recommended.
func (d RouteDecision) HasRecommendation() bool { return d.RecommendedSpeedKmh != nil }
