package simulator

import (
	"math"

	"github.com/kilianp07/evrange/core/model"
)

// RideParams drives the per tick evolution of a Ride.
type RideParams struct {
	DriftDeg float64 `json:"drift_deg"`
	// Speed bounds the instantaneous speed drawn on each tick.
	Speed Range `json:"speed_kmh"`
	// DrainProbability is the chance the battery loses DrainPercent on a tick.
	DrainProbability float64 `json:"drain_probability"`
	DrainPercent     float64 `json:"drain_percent"`
}

// DefaultRideParams mirrors a city ride at 20..35 km/h.
func DefaultRideParams() RideParams {
	return RideParams{
		DriftDeg:         DefaultDriftDeg,
		Speed:            Range{20, 35},
		DrainProbability: 0.3,
		DrainPercent:     1,
	}
}

// Ride evolves a trip snapshot tick by tick: the origin drifts, speed varies
// and the battery slowly drains. It is not safe for concurrent use.
type Ride struct {
	gen    *Generator
	params RideParams
	snap   model.TripSnapshot
	tick   int
}

// NewRide starts a ride from the given snapshot.
func NewRide(gen *Generator, start model.TripSnapshot, p RideParams) *Ride {
	start.Stations = append(start.Stations[:0:0], start.Stations...)
	return &Ride{gen: gen, params: p, snap: start}
}

// Snapshot returns the current state of the ride.
func (r *Ride) Snapshot() model.TripSnapshot {
	s := r.snap
	s.Stations = append(s.Stations[:0:0], s.Stations...)
	return s
}

// Tick returns how many steps have been applied.
func (r *Ride) Tick() int { return r.tick }

// Step advances the ride by one tick and returns the new snapshot.
func (r *Ride) Step() model.TripSnapshot {
	r.gen.mu.Lock()
	rng := r.gen.rng
	r.snap.Origin = Drift(rng, r.snap.Origin, r.params.DriftDeg)
	if r.params.Speed.Max > 0 {
		r.snap.CurrentSpeedKmh = math.Floor(r.params.Speed.Min + rng.Float64()*(r.params.Speed.Max-r.params.Speed.Min))
	}
	if rng.Float64() < r.params.DrainProbability {
		r.snap.BatteryPercent = math.Max(0, r.snap.BatteryPercent-r.params.DrainPercent)
	}
	r.gen.mu.Unlock()
	r.tick++
	return r.Snapshot()
}
