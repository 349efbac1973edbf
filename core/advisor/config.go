package advisor

import (
	"fmt"

	"github.com/kilianp07/evrange/core/geo"
)

const (
	DefaultTotalRangeKm       = 200.0
	DefaultSpeedMinKmh        = 10.0
	DefaultSpeedMaxKmh        = 80.0
	DefaultSpeedScale         = 50.0
	DefaultETAAverageSpeedKmh = 20.0
)

// RangeConfig calibrates the advisor for a vehicle model.
type RangeConfig struct {
	// TotalRangeKm is the distance covered on a full battery at reference speed.
	TotalRangeKm float64 `json:"total_range_km" yaml:"total_range_km"`
	// SpeedMinKmh and SpeedMaxKmh clamp recommended speeds.
	SpeedMinKmh float64 `json:"speed_min_kmh" yaml:"speed_min_kmh"`
	SpeedMaxKmh float64 `json:"speed_max_kmh" yaml:"speed_max_kmh"`
	// SpeedScale multiplies the battery-per-km ratio in the speed heuristic.
	SpeedScale       float64      `json:"speed_scale" yaml:"speed_scale"`
	DistanceStrategy geo.Strategy `json:"distance_strategy" yaml:"distance_strategy"`
	// ETAAverageSpeedKmh is the assumed average speed for arrival estimates.
	ETAAverageSpeedKmh float64 `json:"eta_average_speed_kmh" yaml:"eta_average_speed_kmh"`
}

// DefaultRangeConfig returns the calibration observed on the reference scooter.
func DefaultRangeConfig() RangeConfig {
	return RangeConfig{
		TotalRangeKm:       DefaultTotalRangeKm,
		SpeedMinKmh:        DefaultSpeedMinKmh,
		SpeedMaxKmh:        DefaultSpeedMaxKmh,
		SpeedScale:         DefaultSpeedScale,
		DistanceStrategy:   geo.StrategyHaversine,
		ETAAverageSpeedKmh: DefaultETAAverageSpeedKmh,
	}
}

// SetDefaults fills zero fields with defaults.
func (c *RangeConfig) SetDefaults() {
	d := DefaultRangeConfig()
	if c.TotalRangeKm == 0 {
		c.TotalRangeKm = d.TotalRangeKm
	}
	if c.SpeedMinKmh == 0 {
		c.SpeedMinKmh = d.SpeedMinKmh
	}
	if c.SpeedMaxKmh == 0 {
		c.SpeedMaxKmh = d.SpeedMaxKmh
	}
	if c.SpeedScale == 0 {
		c.SpeedScale = d.SpeedScale
	}
	if c.DistanceStrategy == "" {
		c.DistanceStrategy = d.DistanceStrategy
	}
	if c.ETAAverageSpeedKmh == 0 {
		c.ETAAverageSpeedKmh = d.ETAAverageSpeedKmh
	}
}

// WithDefaults returns a copy of c with SetDefaults applied.
func (c RangeConfig) WithDefaults() RangeConfig {
	c.SetDefaults()
	return c
}

// Validate checks the calibration is usable. Errors wrap ErrInvalidConfig.
func (c RangeConfig) Validate() error {
	if !(c.TotalRangeKm > 0) {
		return fmt.Errorf("%w: total_range_km must be positive, got %v", ErrInvalidConfig, c.TotalRangeKm)
	}
	if !(c.SpeedMinKmh > 0) || c.SpeedMaxKmh < c.SpeedMinKmh {
		return fmt.Errorf("%w: speed clamp [%v,%v] is empty", ErrInvalidConfig, c.SpeedMinKmh, c.SpeedMaxKmh)
	}
	if !(c.SpeedScale > 0) {
		return fmt.Errorf("%w: speed_scale must be positive, got %v", ErrInvalidConfig, c.SpeedScale)
	}
	if !(c.ETAAverageSpeedKmh > 0) {
		return fmt.Errorf("%w: eta_average_speed_kmh must be positive, got %v", ErrInvalidConfig, c.ETAAverageSpeedKmh)
	}
	if err := c.DistanceStrategy.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// SpeedPolicy extracts the speed recommendation parameters.
func (c RangeConfig) SpeedPolicy() SpeedPolicy {
	return SpeedPolicy{MinKmh: c.SpeedMinKmh, MaxKmh: c.SpeedMaxKmh, Scale: c.SpeedScale}
}
