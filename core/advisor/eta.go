package advisor

import (
	"fmt"
	"math"
	"time"

	"github.com/kilianp07/evrange/core/geo"
)

// EstimateETA returns the travel time for distanceKm at averageSpeedKmh,
// rounded to the minute.
func EstimateETA(distanceKm, averageSpeedKmh float64) (time.Duration, error) {
	if !(averageSpeedKmh > 0) || math.IsInf(averageSpeedKmh, 0) {
		return 0, fmt.Errorf("%w: average speed must be positive, got %v", ErrInvalidInput, averageSpeedKmh)
	}
	if !(distanceKm >= 0) || math.IsInf(distanceKm, 0) {
		return 0, fmt.Errorf("%w: distance must be finite and non-negative, got %v", ErrInvalidInput, distanceKm)
	}
	minutes := math.Round(distanceKm / averageSpeedKmh * 60)
	return time.Duration(minutes) * time.Minute, nil
}

// FormatETA renders d as "N min" under an hour and "Hh Mm" otherwise.
func FormatETA(d time.Duration) string {
	minutes := int(d.Round(time.Minute) / time.Minute)
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

// ETA estimates the arrival time between two points. The haversine distance
// is always used here, whatever the configured strategy.
func (a *Advisor) ETA(from, to geo.GeoPoint) (time.Duration, error) {
	return EstimateETA(geo.HaversineDistanceKm(from, to), a.cfg.ETAAverageSpeedKmh)
}
