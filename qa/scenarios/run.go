package scenarios

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/kilianp07/evrange/app"
	"github.com/kilianp07/evrange/core/advisor"
	"github.com/kilianp07/evrange/core/model"
)

const defaultTolerance = 0.01

// Verify runs the scenario through the advisor and compares the outcome with
// its expectations. All mismatches are joined in the returned error.
func Verify(sc *Scenario) error {
	d, err := advisor.ComputeRouteDecision(sc.Snapshot, sc.Config)
	exp := sc.Expected
	if exp.Error != "" {
		if err == nil {
			return fmt.Errorf("expected %s rejection, got state %s", exp.Error, d.State)
		}
		if got := app.RejectionReason(err); got != exp.Error {
			return fmt.Errorf("expected %s rejection, got %s (%v)", exp.Error, got, err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("unexpected error: %w", err)
	}

	tol := exp.ToleranceKm
	if tol == 0 {
		tol = defaultTolerance
	}
	var errs []error
	near := func(field string, want *float64, got float64) {
		if want != nil && math.Abs(*want-got) > tol {
			errs = append(errs, fmt.Errorf("%s: want %.3f, got %.3f", field, *want, got))
		}
	}
	flag := func(field string, want *bool, got bool) {
		if want != nil && *want != got {
			errs = append(errs, fmt.Errorf("%s: want %t, got %t", field, *want, got))
		}
	}

	if exp.State != "" {
		want, perr := model.ParseDecisionState(exp.State)
		switch {
		case perr != nil:
			errs = append(errs, perr)
		case want != d.State:
			errs = append(errs, fmt.Errorf("state: want %s, got %s", want, d.State))
		}
	}
	flag("can_reach_destination", exp.CanReachDestination, d.CanReachDestination)
	flag("can_reach_nearest_station", exp.CanReachNearestStation, d.CanReachNearestStation)
	near("direct_distance_km", exp.DirectDistanceKm, d.DirectDistanceKm)
	near("estimated_range_km", exp.EstimatedRangeKm, d.EstimatedRangeKm)
	if exp.NearestStationKm != nil {
		if d.NearestStation == nil {
			errs = append(errs, errors.New("nearest_station_km: no station in decision"))
		} else {
			near("nearest_station_km", exp.NearestStationKm, d.NearestStation.DistanceKm)
		}
	}
	if exp.RecommendedSpeedKmh != nil {
		if d.RecommendedSpeedKmh == nil {
			errs = append(errs, errors.New("recommended_speed_kmh: no recommendation in decision"))
		} else {
			near("recommended_speed_kmh", exp.RecommendedSpeedKmh, *d.RecommendedSpeedKmh)
		}
	}
	if exp.MessageContains != "" && !strings.Contains(d.Message, exp.MessageContains) {
		errs = append(errs, fmt.Errorf("message %q does not contain %q", d.Message, exp.MessageContains))
	}
	return errors.Join(errs...)
}

func RunScenario(t *testing.T, sc *Scenario) {
	t.Helper()
	if err := Verify(sc); err != nil {
		t.Errorf("scenario %s: %v", sc.Name, err)
	}
}
