package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kilianp07/evrange/core/geo"
)

// parsePoint reads a "lat,lon" pair.
func parsePoint(s string) (geo.GeoPoint, error) {
	lat, lon, ok := strings.Cut(s, ",")
	if !ok {
		return geo.GeoPoint{}, fmt.Errorf("point %q: want lat,lon", s)
	}
	var p geo.GeoPoint
	var err error
	if p.Lat, err = strconv.ParseFloat(strings.TrimSpace(lat), 64); err != nil {
		return geo.GeoPoint{}, fmt.Errorf("point %q: latitude: %w", s, err)
	}
	if p.Lon, err = strconv.ParseFloat(strings.TrimSpace(lon), 64); err != nil {
		return geo.GeoPoint{}, fmt.Errorf("point %q: longitude: %w", s, err)
	}
	return p, p.Validate()
}
