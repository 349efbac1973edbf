package simulator

import (
	"fmt"
	"strings"

	"github.com/kilianp07/evrange/core/model"
)

const rule = "============================================================"

// FormatReport renders a human readable summary of one trip evaluation.
func FormatReport(s model.TripSnapshot, d model.RouteDecision) string {
	var b strings.Builder
	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, "EV TWO-WHEELER TRIP EVALUATION")
	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "PARAMETERS:")
	fmt.Fprintf(&b, "Current Speed: %.2f km/h\n", s.CurrentSpeedKmh)
	fmt.Fprintf(&b, "Reference Speed: %.2f km/h\n", s.ReferenceSpeedKmh)
	fmt.Fprintf(&b, "Battery: %.2f%%\n", s.BatteryPercent)
	fmt.Fprintf(&b, "Current Location: %s\n", s.Origin)
	fmt.Fprintf(&b, "Destination: %s\n", s.Destination)
	fmt.Fprintln(&b)
	fmt.Fprintf(&b, "Direct Distance to Destination: %.2f km (%s)\n", d.DirectDistanceKm, d.Strategy)
	fmt.Fprintf(&b, "Estimated Range at Current Speed: %.2f km\n", d.EstimatedRangeKm)
	fmt.Fprintln(&b)

	if len(d.RankedStations) > 0 {
		fmt.Fprintln(&b, "Charging Stations & Distances:")
		for i, st := range d.RankedStations {
			fmt.Fprintf(&b, "  %d. Station at %s -> %.2f km\n", i+1, st.Location, st.DistanceKm)
		}
		fmt.Fprintln(&b)
	}
	if n := d.NearestStation; n != nil {
		fmt.Fprintf(&b, "Nearest Charging Station: %s (%.2f km away)\n\n", n.Location, n.DistanceKm)
	}

	fmt.Fprintln(&b, "DECISION ANALYSIS:")
	if !d.CanReachDestination {
		fmt.Fprintf(&b, "Not enough battery to reach destination (%.2f km) with current settings.\n", d.DirectDistanceKm)
	}
	fmt.Fprintln(&b, d.Message)
	fmt.Fprintln(&b)
	fmt.Fprint(&b, rule)
	return b.String()
}
