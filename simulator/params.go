package simulator

import "fmt"

// Range is a closed interval [Min, Max] values are drawn from.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (r Range) validate(name string) error {
	if r.Min > r.Max {
		return fmt.Errorf("%s: min %.4f > max %.4f", name, r.Min, r.Max)
	}
	return nil
}

// Params bounds the randomly generated trip scenarios.
type Params struct {
	BaseLat   Range `json:"base_lat"`
	BaseLon   Range `json:"base_lon"`
	Speed     Range `json:"speed_kmh"`
	Reference Range `json:"reference_speed_kmh"`
	Battery   Range `json:"battery_pct"`
	// DestinationOffsetDeg is the maximum latitude and longitude offset of
	// the destination from the origin.
	DestinationOffsetDeg float64 `json:"destination_offset_deg"`
	MinStations          int     `json:"min_stations"`
	MaxStations          int     `json:"max_stations"`
	// StationProgress bounds where along origin->destination stations sit.
	StationProgress  Range   `json:"station_progress"`
	StationJitterDeg float64 `json:"station_jitter_deg"`
}

// DefaultParams returns the western US region used by the demo.
func DefaultParams() Params {
	return Params{
		BaseLat:              Range{37, 42},
		BaseLon:              Range{-122, -115},
		Speed:                Range{30, 80},
		Reference:            Range{40, 60},
		Battery:              Range{20, 90},
		DestinationOffsetDeg: 2,
		MinStations:          3,
		MaxStations:          7,
		StationProgress:      Range{0.1, 0.9},
		StationJitterDeg:     0.1,
	}
}

// Validate checks the ranges are well formed and yield valid snapshots.
func (p Params) Validate() error {
	for name, r := range map[string]Range{
		"base_lat":            p.BaseLat,
		"base_lon":            p.BaseLon,
		"speed_kmh":           p.Speed,
		"reference_speed_kmh": p.Reference,
		"battery_pct":         p.Battery,
		"station_progress":    p.StationProgress,
	} {
		if err := r.validate(name); err != nil {
			return err
		}
	}
	if p.Speed.Min < 0 || p.Reference.Min < 0 {
		return fmt.Errorf("speeds must not be negative")
	}
	if p.Battery.Min < 0 || p.Battery.Max > 100 {
		return fmt.Errorf("battery_pct must be within [0,100]")
	}
	if p.DestinationOffsetDeg < 0 || p.StationJitterDeg < 0 {
		return fmt.Errorf("offsets must not be negative")
	}
	if p.MinStations < 0 || p.MinStations > p.MaxStations {
		return fmt.Errorf("invalid station count range %d..%d", p.MinStations, p.MaxStations)
	}
	return nil
}
