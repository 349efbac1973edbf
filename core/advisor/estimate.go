package advisor

import (
	"fmt"
	"math"
)

// EstimatedRangeKm returns how far the vehicle can travel on the remaining
// battery. Each km/h above the reference speed adds one percent to the
// consumption factor; riding slower than the reference earns no bonus.
func EstimatedRangeKm(batteryPercent, currentSpeedKmh, referenceSpeedKmh, totalRangeKmAt100Percent float64) float64 {
	remaining := batteryPercent / 100 * totalRangeKmAt100Percent
	penalty := 1 + math.Max(currentSpeedKmh-referenceSpeedKmh, 0)/100
	return math.Max(remaining/penalty, 0)
}

// SpeedPolicy holds the tunables of the speed recommendation heuristic.
type SpeedPolicy struct {
	MinKmh float64
	MaxKmh float64
	Scale  float64
}

// DefaultSpeedPolicy clamps to [10,80] km/h with a scale of 50.
func DefaultSpeedPolicy() SpeedPolicy {
	return SpeedPolicy{MinKmh: DefaultSpeedMinKmh, MaxKmh: DefaultSpeedMaxKmh, Scale: DefaultSpeedScale}
}

// RecommendedSpeedKmh suggests a cruising speed for covering distanceKm on
// the given battery. Less distance per battery percent allows a higher speed.
// The result is clamped to [p.MinKmh, p.MaxKmh].
//
// distanceKm must be positive; callers check reachability first, and a zero
// distance is always reachable. A non-positive distance panics with
// ErrDivisionGuard.
func RecommendedSpeedKmh(batteryPercent, distanceKm float64, p SpeedPolicy) float64 {
	if !(distanceKm > 0) {
		panic(fmt.Errorf("%w: %v km", ErrDivisionGuard, distanceKm))
	}
	raw := batteryPercent / distanceKm * p.Scale
	if math.IsNaN(raw) {
		return p.MinKmh
	}
	return math.Max(p.MinKmh, math.Min(raw, p.MaxKmh))
}
