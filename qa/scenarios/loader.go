package scenarios

import (
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/evrange/core/advisor"
	"github.com/kilianp07/evrange/core/model"
)

// Expected describes the outcome a scenario must produce. Pointer fields
// are only checked when set.
type Expected struct {
	// Error names the advisor rejection, e.g. "no_charging_stations".
	Error                  string   `yaml:"error,omitempty"`
	State                  string   `yaml:"state,omitempty"`
	CanReachDestination    *bool    `yaml:"can_reach_destination,omitempty"`
	CanReachNearestStation *bool    `yaml:"can_reach_nearest_station,omitempty"`
	DirectDistanceKm       *float64 `yaml:"direct_distance_km,omitempty"`
	EstimatedRangeKm       *float64 `yaml:"estimated_range_km,omitempty"`
	NearestStationKm       *float64 `yaml:"nearest_station_km,omitempty"`
	RecommendedSpeedKmh    *float64 `yaml:"recommended_speed_kmh,omitempty"`
	MessageContains        string   `yaml:"message_contains,omitempty"`
	// ToleranceKm applies to every distance and speed comparison.
	ToleranceKm float64 `yaml:"tolerance_km,omitempty"`
}

type Scenario struct {
	Name        string              `yaml:"name"`
	Description string              `yaml:"description,omitempty"`
	Config      advisor.RangeConfig `yaml:"config"`
	Snapshot    model.TripSnapshot  `yaml:"snapshot"`
	Expected    Expected            `yaml:"expected"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	if sc.Name == "" {
		sc.Name = filepath.Base(path)
	}
	return &sc, nil
}

// LoadDir loads every *.yaml file of dir in name order.
func LoadDir(dir string) ([]*Scenario, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	out := make([]*Scenario, 0, len(files))
	for _, f := range files {
		sc, err := Load(f)
		if err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, nil
}
