package geo

import (
	"fmt"
	"strings"
)

// Strategy names a distance formula.
type Strategy string

const (
	// StrategyHaversine selects HaversineDistanceKm.
	StrategyHaversine Strategy = "haversine"
	// StrategyPlanar selects ApproxPlanarDistanceKm. Demo use only.
	StrategyPlanar Strategy = "planar"
)

// ParseStrategy maps a configuration value to a Strategy. The empty string
// selects haversine.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "haversine":
		return StrategyHaversine, nil
	case "planar", "planar_approx", "planarapprox":
		return StrategyPlanar, nil
	default:
		return "", fmt.Errorf("unknown distance strategy %q", s)
	}
}

// Validate returns an error for unknown strategies.
func (s Strategy) Validate() error {
	switch s {
	case StrategyHaversine, StrategyPlanar:
		return nil
	default:
		return fmt.Errorf("unknown distance strategy %q", string(s))
	}
}

// IsApproximate reports whether the strategy is unsuitable for navigation.
func (s Strategy) IsApproximate() bool { return s == StrategyPlanar }

// Distance computes the distance between a and b in kilometres. Unknown
// strategies fall back to haversine.
func (s Strategy) Distance(a, b GeoPoint) float64 {
	if s == StrategyPlanar {
		return ApproxPlanarDistanceKm(a, b)
	}
	return HaversineDistanceKm(a, b)
}

func (s Strategy) String() string { return string(s) }
