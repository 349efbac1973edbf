package model

import (
	"errors"
	"math"
	"testing"

	"github.com/kilianp07/evrange/core/geo"
)

func validSnapshot() TripSnapshot {
	return TripSnapshot{
		CurrentSpeedKmh:   45,
		ReferenceSpeedKmh: 45,
		BatteryPercent:    80,
		Origin:            geo.GeoPoint{Lat: 37, Lon: -122},
		Destination:       geo.GeoPoint{Lat: 37, Lon: -121.9},
		Stations:          []geo.GeoPoint{{Lat: 37.02, Lon: -122}},
	}
}

func TestTripSnapshotValidate(t *testing.T) {
	if err := validSnapshot().Validate(); err != nil {
		t.Fatalf("valid snapshot rejected: %v", err)
	}

	cases := map[string]func(*TripSnapshot){
		"negative speed":     func(s *TripSnapshot) { s.CurrentSpeedKmh = -1 },
		"nan reference":      func(s *TripSnapshot) { s.ReferenceSpeedKmh = math.NaN() },
		"battery above 100":  func(s *TripSnapshot) { s.BatteryPercent = 100.5 },
		"battery below 0":    func(s *TripSnapshot) { s.BatteryPercent = -0.1 },
		"infinite battery":   func(s *TripSnapshot) { s.BatteryPercent = math.Inf(1) },
		"origin latitude":    func(s *TripSnapshot) { s.Origin.Lat = 91 },
		"destination lon":    func(s *TripSnapshot) { s.Destination.Lon = math.Inf(-1) },
		"station out of map": func(s *TripSnapshot) { s.Stations = append(s.Stations, geo.GeoPoint{Lat: -100}) },
	}
	for name, mutate := range cases {
		s := validSnapshot()
		mutate(&s)
		err := s.Validate()
		if err == nil {
			t.Errorf("%s: expected error", name)
			continue
		}
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("%s: error %v does not wrap ErrInvalidInput", name, err)
		}
	}
}

func TestTripSnapshotValidateEdges(t *testing.T) {
	s := validSnapshot()
	s.BatteryPercent = 0
	s.CurrentSpeedKmh = 0
	s.Stations = nil
	if err := s.Validate(); err != nil {
		t.Fatalf("edge values rejected: %v", err)
	}
	s.BatteryPercent = 100
	if err := s.Validate(); err != nil {
		t.Fatalf("full battery rejected: %v", err)
	}
}
