package simulator

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/evrange/core/advisor"
	"github.com/kilianp07/evrange/core/model"
)

// Run is one generated snapshot and its outcome.
type Run struct {
	Snapshot model.TripSnapshot
	Decision model.RouteDecision
	Err      error
}

// Batch generates n snapshots and evaluates each with adv.
func Batch(gen *Generator, adv *advisor.Advisor, n int) []Run {
	runs := make([]Run, 0, n)
	for i := 0; i < n; i++ {
		s := gen.Snapshot()
		d, err := adv.Decide(s)
		runs = append(runs, Run{Snapshot: s, Decision: d, Err: err})
	}
	return runs
}

// Summary aggregates a batch of runs.
type Summary struct {
	Runs     int                         `json:"runs"`
	Rejected int                         `json:"rejected"`
	States   map[model.DecisionState]int `json:"states"`

	RangeMeanKm    float64 `json:"range_mean_km"`
	RangeStdDevKm  float64 `json:"range_stddev_km"`
	DirectMeanKm   float64 `json:"direct_mean_km"`
	DirectStdDevKm float64 `json:"direct_stddev_km"`
	// RecommendedMeanKmh averages the recommended speed over the runs that
	// required a reduction; zero when none did.
	RecommendedMeanKmh float64 `json:"recommended_mean_kmh"`
}

// Summarize computes mean and standard deviation of range and distance plus
// per state counts. Runs with an error only count as rejected.
func Summarize(runs []Run) Summary {
	sum := Summary{Runs: len(runs), States: make(map[model.DecisionState]int)}
	var ranges, directs, speeds []float64
	for _, r := range runs {
		if r.Err != nil {
			sum.Rejected++
			continue
		}
		sum.States[r.Decision.State]++
		ranges = append(ranges, r.Decision.EstimatedRangeKm)
		directs = append(directs, r.Decision.DirectDistanceKm)
		if r.Decision.RecommendedSpeedKmh != nil {
			speeds = append(speeds, *r.Decision.RecommendedSpeedKmh)
		}
	}
	sum.RangeMeanKm, sum.RangeStdDevKm = meanStdDev(ranges)
	sum.DirectMeanKm, sum.DirectStdDevKm = meanStdDev(directs)
	if len(speeds) > 0 {
		sum.RecommendedMeanKmh = stat.Mean(speeds, nil)
	}
	return sum
}

func meanStdDev(x []float64) (float64, float64) {
	switch len(x) {
	case 0:
		return 0, 0
	case 1:
		return x[0], 0
	}
	return stat.MeanStdDev(x, nil)
}

// Share returns the fraction of accepted runs that ended in state.
func (s Summary) Share(state model.DecisionState) float64 {
	accepted := s.Runs - s.Rejected
	if accepted == 0 {
		return 0
	}
	return float64(s.States[state]) / float64(accepted)
}

// String renders the summary as an aligned text block.
func (s Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "runs: %d (rejected %d)\n", s.Runs, s.Rejected)
	fmt.Fprintf(&b, "estimated range: %.2f km (sd %.2f)\n", s.RangeMeanKm, s.RangeStdDevKm)
	fmt.Fprintf(&b, "direct distance: %.2f km (sd %.2f)\n", s.DirectMeanKm, s.DirectStdDevKm)
	if s.RecommendedMeanKmh > 0 {
		fmt.Fprintf(&b, "recommended speed: %.2f km/h\n", s.RecommendedMeanKmh)
	}
	states := make([]model.DecisionState, 0, len(s.States))
	for st := range s.States {
		states = append(states, st)
	}
	sort.Slice(states, func(i, j int) bool { return states[i] < states[j] })
	for _, st := range states {
		fmt.Fprintf(&b, "%s: %d (%.1f%%)\n", st, s.States[st], 100*s.Share(st))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// RejectionCounts groups failed runs by advisor error.
func RejectionCounts(runs []Run) map[string]int {
	out := make(map[string]int)
	for _, r := range runs {
		switch {
		case r.Err == nil:
		case errors.Is(r.Err, advisor.ErrNoChargingStations):
			out["no_charging_stations"]++
		case errors.Is(r.Err, advisor.ErrInvalidInput):
			out["invalid_input"]++
		default:
			out["other"]++
		}
	}
	return out
}
