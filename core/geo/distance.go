package geo

import "math"

const (
	// EarthRadiusKm is the mean Earth radius used by the haversine formula.
	EarthRadiusKm = 6371.0
	// KmPerDegree scales a planar degree delta into kilometres.
	KmPerDegree = 111.0
)

// HaversineDistanceKm returns the great-circle distance between a and b.
// It is the only distance suitable for ETA or reachability on real roads.
func HaversineDistanceKm(a, b GeoPoint) float64 {
	lat1 := degreesToRadians(a.Lat)
	lat2 := degreesToRadians(b.Lat)
	dLat := degreesToRadians(b.Lat - a.Lat)
	dLon := degreesToRadians(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	// rounding can push h marginally above 1 for antipodal points
	h = math.Min(h, 1)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusKm * c
}

// ApproxPlanarDistanceKm treats latitude and longitude as a flat grid and
// scales the Euclidean degree distance by KmPerDegree. It ignores meridian
// convergence and is only meant for illustrative simulator output.
func ApproxPlanarDistanceKm(a, b GeoPoint) float64 {
	dLat := b.Lat - a.Lat
	dLon := b.Lon - a.Lon
	return math.Sqrt(dLat*dLat+dLon*dLon) * KmPerDegree
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
