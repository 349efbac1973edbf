package advisor

import (
	"sort"

	"github.com/kilianp07/evrange/core/geo"
	"github.com/kilianp07/evrange/core/model"
)

// RankStations measures every station from origin and sorts them nearest
// first. Stations at equal distance keep their input order.
func RankStations(origin geo.GeoPoint, stations []geo.GeoPoint, strategy geo.Strategy) []model.ChargingStation {
	ranked := make([]model.ChargingStation, len(stations))
	for i, loc := range stations {
		ranked[i] = model.ChargingStation{
			Index:      i,
			Location:   loc,
			DistanceKm: strategy.Distance(origin, loc),
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].DistanceKm < ranked[j].DistanceKm
	})
	return ranked
}
