package config

import (
	"fmt"
	"time"

	"github.com/kilianp07/evrange/simulator"
)

// SimulatorConfig configures the scenario generator and the drive loop.
type SimulatorConfig struct {
	Seed                int64   `json:"seed"`
	Runs                int     `json:"runs"`
	MinLat              float64 `json:"min_lat"`
	MaxLat              float64 `json:"max_lat"`
	MinLon              float64 `json:"min_lon"`
	MaxLon              float64 `json:"max_lon"`
	MinStations         int     `json:"min_stations"`
	MaxStations         int     `json:"max_stations"`
	DriftDeg            float64 `json:"drift_deg"`
	Ticks               int     `json:"ticks"`
	TickIntervalSeconds int     `json:"tick_interval_seconds"`
}

// SetDefaults applies fallback values for optional fields.
func (c *SimulatorConfig) SetDefaults() {
	def := simulator.DefaultParams()
	if c.Runs <= 0 {
		c.Runs = 1
	}
	if c.MinLat == 0 && c.MaxLat == 0 {
		c.MinLat, c.MaxLat = def.BaseLat.Min, def.BaseLat.Max
	}
	if c.MinLon == 0 && c.MaxLon == 0 {
		c.MinLon, c.MaxLon = def.BaseLon.Min, def.BaseLon.Max
	}
	if c.MinStations == 0 && c.MaxStations == 0 {
		c.MinStations, c.MaxStations = def.MinStations, def.MaxStations
	}
	if c.DriftDeg == 0 {
		c.DriftDeg = simulator.DefaultDriftDeg
	}
	if c.Ticks <= 0 {
		c.Ticks = 20
	}
	if c.TickIntervalSeconds <= 0 {
		c.TickIntervalSeconds = 3
	}
}

// Validate checks the configuration ranges.
func (c SimulatorConfig) Validate() error {
	if c.MinLat < -90 || c.MaxLat > 90 || c.MinLon < -180 || c.MaxLon > 180 {
		return fmt.Errorf("simulator region out of bounds")
	}
	if c.DriftDeg < 0 {
		return fmt.Errorf("drift_deg must not be negative")
	}
	return c.Params().Validate()
}

// Params returns the generator bounds for this configuration.
func (c SimulatorConfig) Params() simulator.Params {
	p := simulator.DefaultParams()
	p.BaseLat = simulator.Range{Min: c.MinLat, Max: c.MaxLat}
	p.BaseLon = simulator.Range{Min: c.MinLon, Max: c.MaxLon}
	p.MinStations, p.MaxStations = c.MinStations, c.MaxStations
	return p
}

// RideParams returns the per tick parameters of the drive loop.
func (c SimulatorConfig) RideParams() simulator.RideParams {
	p := simulator.DefaultRideParams()
	p.DriftDeg = c.DriftDeg
	return p
}

// TickInterval is the delay between two drive loop evaluations.
func (c SimulatorConfig) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalSeconds) * time.Second
}
