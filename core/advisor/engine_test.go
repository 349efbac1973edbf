package advisor

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/evrange/core/geo"
	"github.com/kilianp07/evrange/core/model"
)

var (
	origin      = geo.GeoPoint{Lat: 37.0, Lon: -122.0}
	destination = geo.GeoPoint{Lat: 37.0, Lon: -121.9}
	// roughly 3 and 5 km due north of origin
	station3km = geo.GeoPoint{Lat: 37.027, Lon: -122.0}
	station5km = geo.GeoPoint{Lat: 37.045, Lon: -122.0}
)

func snapshot(battery float64, stations ...geo.GeoPoint) model.TripSnapshot {
	return model.TripSnapshot{
		CurrentSpeedKmh:   45,
		ReferenceSpeedKmh: 45,
		BatteryPercent:    battery,
		Origin:            origin,
		Destination:       destination,
		Stations:          stations,
	}
}

func TestDestinationReachable(t *testing.T) {
	d, err := ComputeRouteDecision(snapshot(80), DefaultRangeConfig())
	require.NoError(t, err)
	assert.Equal(t, model.StateDestinationReachable, d.State)
	assert.InDelta(t, 8.88, d.DirectDistanceKm, 0.01)
	assert.InDelta(t, 160.0, d.EstimatedRangeKm, 1e-9)
	assert.True(t, d.CanReachDestination)
	assert.Nil(t, d.RecommendedSpeedKmh)
	assert.Nil(t, d.NearestStation)
	assert.Empty(t, d.RankedStations)
	assert.Contains(t, d.Message, "reach your destination")
	assert.Contains(t, d.Message, "8.88 km")
}

func TestDestinationReachableStillRanksStations(t *testing.T) {
	d, err := ComputeRouteDecision(snapshot(80, station5km, station3km), DefaultRangeConfig())
	require.NoError(t, err)
	require.NotNil(t, d.NearestStation)
	assert.Equal(t, 1, d.NearestStation.Index)
	assert.True(t, d.CanReachNearestStation)
	assert.Nil(t, d.RecommendedSpeedKmh)
}

func TestNearestStationReachable(t *testing.T) {
	d, err := ComputeRouteDecision(snapshot(2, station3km), DefaultRangeConfig())
	require.NoError(t, err)
	assert.InDelta(t, 4.0, d.EstimatedRangeKm, 1e-9)
	assert.False(t, d.CanReachDestination)
	assert.True(t, d.CanReachNearestStation)
	assert.Equal(t, model.StateNearestStationReachable, d.State)
	require.NotNil(t, d.NearestStation)
	assert.InDelta(t, 3.0, d.NearestStation.DistanceKm, 0.01)
	assert.Nil(t, d.RecommendedSpeedKmh)
	assert.Contains(t, d.Message, "nearest charging station (3.00 km)")
}

func TestSpeedReductionRequired(t *testing.T) {
	d, err := ComputeRouteDecision(snapshot(1, station5km), DefaultRangeConfig())
	require.NoError(t, err)
	assert.InDelta(t, 2.0, d.EstimatedRangeKm, 1e-9)
	assert.False(t, d.CanReachDestination)
	assert.False(t, d.CanReachNearestStation)
	assert.Equal(t, model.StateSpeedReductionRequired, d.State)
	require.NotNil(t, d.RecommendedSpeedKmh)
	// 1/5*50 = 10 before clamping
	assert.InDelta(t, 10.0, *d.RecommendedSpeedKmh, 1e-9)
	assert.Contains(t, d.Message, "10.00 km/h")
}

func TestSpeedReductionUsesPolicy(t *testing.T) {
	cfg := DefaultRangeConfig()
	cfg.TotalRangeKm = 20
	cfg.SpeedScale = 100
	cfg.SpeedMaxKmh = 30
	// range 10*20/100 = 2 km, station ~5 km: 10/5*100 = 200 -> 30
	d, err := ComputeRouteDecision(snapshot(10, station5km), cfg)
	require.NoError(t, err)
	require.NotNil(t, d.RecommendedSpeedKmh)
	assert.InDelta(t, 30.0, *d.RecommendedSpeedKmh, 1e-9)
}

func TestNoChargingStations(t *testing.T) {
	_, err := ComputeRouteDecision(snapshot(1), DefaultRangeConfig())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoChargingStations))
}

func TestInvalidInputRejected(t *testing.T) {
	s := snapshot(120, station3km)
	_, err := ComputeRouteDecision(s, DefaultRangeConfig())
	assert.True(t, errors.Is(err, ErrInvalidInput))

	s = snapshot(50, station3km)
	s.CurrentSpeedKmh = -5
	_, err = ComputeRouteDecision(s, DefaultRangeConfig())
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestZeroConfigUsesDefaults(t *testing.T) {
	d, err := ComputeRouteDecision(snapshot(80), RangeConfig{})
	require.NoError(t, err)
	assert.Equal(t, geo.StrategyHaversine, d.Strategy)
	assert.InDelta(t, 160.0, d.EstimatedRangeKm, 1e-9)
}

func TestInvalidConfig(t *testing.T) {
	cases := map[string]RangeConfig{
		"negative range": {TotalRangeKm: -1},
		"empty clamp":    {SpeedMinKmh: 50, SpeedMaxKmh: 20},
		"strategy":       {DistanceStrategy: "manhattan"},
	}
	for name, cfg := range cases {
		_, err := ComputeRouteDecision(snapshot(80), cfg)
		assert.True(t, errors.Is(err, ErrInvalidConfig), name)
		_, err = New(cfg)
		assert.True(t, errors.Is(err, ErrInvalidConfig), name)
	}
}

func TestPlanarStrategy(t *testing.T) {
	cfg := DefaultRangeConfig()
	cfg.DistanceStrategy = geo.StrategyPlanar
	d, err := ComputeRouteDecision(snapshot(80, station3km), cfg)
	require.NoError(t, err)
	assert.Equal(t, geo.StrategyPlanar, d.Strategy)
	assert.InDelta(t, 11.1, d.DirectDistanceKm, 1e-6)
	assert.InDelta(t, 0.027*111, d.NearestStation.DistanceKm, 1e-6)
}

func TestRankStationsStable(t *testing.T) {
	// two stations at identical distance east and west of origin, plus one nearer
	east := geo.GeoPoint{Lat: 37.0, Lon: -121.95}
	west := geo.GeoPoint{Lat: 37.0, Lon: -122.05}
	ranked := RankStations(origin, []geo.GeoPoint{east, station3km, west, east}, geo.StrategyHaversine)
	require.Len(t, ranked, 4)
	assert.Equal(t, 1, ranked[0].Index)
	assert.Equal(t, []int{0, 2, 3}, []int{ranked[1].Index, ranked[2].Index, ranked[3].Index})
	for i := 1; i < len(ranked); i++ {
		assert.LessOrEqual(t, ranked[i-1].DistanceKm, ranked[i].DistanceKm)
	}
}

func TestRankStationsEmpty(t *testing.T) {
	ranked := RankStations(origin, nil, geo.StrategyHaversine)
	assert.NotNil(t, ranked)
	assert.Empty(t, ranked)
}

func TestZeroDistanceStationIsReachable(t *testing.T) {
	d, err := ComputeRouteDecision(snapshot(0, origin), DefaultRangeConfig())
	require.NoError(t, err)
	assert.Equal(t, model.StateNearestStationReachable, d.State)
	assert.Nil(t, d.RecommendedSpeedKmh)
}

func TestAdvisorConcurrentUse(t *testing.T) {
	a, err := New(RangeConfig{})
	require.NoError(t, err)
	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			battery := float64(i%3) + 1
			d, err := a.Decide(snapshot(battery, station5km, station3km))
			if err != nil {
				errs <- err
				return
			}
			if d.NearestStation.Index != 1 {
				errs <- errors.New("wrong nearest station")
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}
}
