// Package simulator generates random trip scenarios and drifting rides for
// demos and load tests. The advisor core never depends on it.
package simulator

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/kilianp07/evrange/core/geo"
	"github.com/kilianp07/evrange/core/model"
)

// Generator draws TripSnapshots from a seeded source. It is safe for
// concurrent use.
type Generator struct {
	mu     sync.Mutex
	rng    *rand.Rand
	params Params
}

// NewGenerator returns a generator seeded with seed. A zero seed uses the
// current time.
func NewGenerator(seed int64, p Params) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{rng: rand.New(rand.NewSource(seed)), params: p}
}

// Params returns the generator bounds.
func (g *Generator) Params() Params { return g.params }

func (g *Generator) between(r Range) float64 {
	return r.Min + g.rng.Float64()*(r.Max-r.Min)
}

// symmetric returns a value in [-limit, limit).
func (g *Generator) symmetric(limit float64) float64 {
	return (g.rng.Float64()*2 - 1) * limit
}

// Snapshot generates one random trip. Stations are placed along the
// origin->destination segment with jitter.
func (g *Generator) Snapshot() model.TripSnapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	p := g.params

	origin := geo.GeoPoint{Lat: g.between(p.BaseLat), Lon: g.between(p.BaseLon)}
	speed := g.between(p.Speed)
	ref := g.between(p.Reference)
	battery := g.between(p.Battery)

	dLat := g.symmetric(p.DestinationOffsetDeg)
	dLon := g.symmetric(p.DestinationOffsetDeg)
	dest := clampPoint(origin.Offset(dLat, dLon))

	n := p.MinStations
	if span := p.MaxStations - p.MinStations; span > 0 {
		n += g.rng.Intn(span + 1)
	}
	stations := make([]geo.GeoPoint, n)
	for i := range stations {
		progress := g.between(p.StationProgress)
		stations[i] = clampPoint(origin.Offset(
			dLat*progress+g.symmetric(p.StationJitterDeg),
			dLon*progress+g.symmetric(p.StationJitterDeg),
		))
	}

	return model.TripSnapshot{
		CurrentSpeedKmh:   speed,
		ReferenceSpeedKmh: ref,
		BatteryPercent:    battery,
		Origin:            origin,
		Destination:       dest,
		Stations:          stations,
	}
}

// Drift moves p by at most maxDeg on each axis using the generator source.
func (g *Generator) Drift(p geo.GeoPoint, maxDeg float64) geo.GeoPoint {
	g.mu.Lock()
	defer g.mu.Unlock()
	return Drift(g.rng, p, maxDeg)
}

// DefaultDriftDeg is the per tick jitter used by rides.
const DefaultDriftDeg = 0.00025

// Drift moves p by a uniform offset in [-maxDeg, maxDeg) on each axis.
func Drift(rng *rand.Rand, p geo.GeoPoint, maxDeg float64) geo.GeoPoint {
	return clampPoint(p.Offset((rng.Float64()*2-1)*maxDeg, (rng.Float64()*2-1)*maxDeg))
}

func clampPoint(p geo.GeoPoint) geo.GeoPoint {
	p.Lat = math.Max(-90, math.Min(90, p.Lat))
	if p.Lon > 180 {
		p.Lon -= 360
	} else if p.Lon < -180 {
		p.Lon += 360
	}
	return p
}
