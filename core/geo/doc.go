// Package geo holds the geographic value types used by the range advisor and
// the two distance strategies it can compute with. HaversineDistanceKm is the
// navigation-grade great-circle distance; ApproxPlanarDistanceKm is a flat
// degrees-to-kilometres approximation kept for simulator displays only.
package geo
