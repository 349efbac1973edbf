package model

import (
	"errors"
	"fmt"
	"math"

	"github.com/kilianp07/evrange/core/geo"
)

// ErrInvalidInput is returned when a snapshot field is non-finite or out of range.
var ErrInvalidInput = errors.New("invalid input")

// TripSnapshot is the vehicle and trip state a route decision is computed from.
// It is built fresh for every query.
type TripSnapshot struct {
	CurrentSpeedKmh   float64        `json:"current_speed_kmh" yaml:"current_speed_kmh"`
	ReferenceSpeedKmh float64        `json:"reference_speed_kmh" yaml:"reference_speed_kmh"` // weekly average cruising speed
	BatteryPercent    float64        `json:"battery_percent" yaml:"battery_percent"`         // [0,100]
	Origin            geo.GeoPoint   `json:"origin" yaml:"origin"`
	Destination       geo.GeoPoint   `json:"destination" yaml:"destination"`
	Stations          []geo.GeoPoint `json:"stations" yaml:"stations"`
}

// Validate rejects snapshots the advisor cannot reason about. Every error
// wraps ErrInvalidInput.
func (s TripSnapshot) Validate() error {
	if err := checkNonNegative("current speed", s.CurrentSpeedKmh); err != nil {
		return err
	}
	if err := checkNonNegative("reference speed", s.ReferenceSpeedKmh); err != nil {
		return err
	}
	if !isFinite(s.BatteryPercent) || s.BatteryPercent < 0 || s.BatteryPercent > 100 {
		return fmt.Errorf("%w: battery percent %v outside [0,100]", ErrInvalidInput, s.BatteryPercent)
	}
	if err := s.Origin.Validate(); err != nil {
		return fmt.Errorf("%w: origin: %v", ErrInvalidInput, err)
	}
	if err := s.Destination.Validate(); err != nil {
		return fmt.Errorf("%w: destination: %v", ErrInvalidInput, err)
	}
	for i, st := range s.Stations {
		if err := st.Validate(); err != nil {
			return fmt.Errorf("%w: station %d: %v", ErrInvalidInput, i, err)
		}
	}
	return nil
}

func checkNonNegative(field string, v float64) error {
	if !isFinite(v) {
		return fmt.Errorf("%w: %s must be finite, got %v", ErrInvalidInput, field, v)
	}
	if v < 0 {
		return fmt.Errorf("%w: %s must not be negative, got %v", ErrInvalidInput, field, v)
	}
	return nil
}

func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
