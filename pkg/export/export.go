// Package export writes decision log records in exchange formats.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/kilianp07/evrange/core/decisionlog"
)

var csvHeader = []string{
	"id", "timestamp", "source", "state", "strategy",
	"battery_percent", "current_speed_kmh", "reference_speed_kmh",
	"direct_distance_km", "estimated_range_km", "nearest_station_km", "recommended_speed_kmh",
}

// WriteJSON writes one JSON object per record.
func WriteJSON(w io.Writer, recs []decisionlog.LogRecord) error {
	enc := json.NewEncoder(w)
	for _, r := range recs {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteCSV writes the records as CSV with a header row. Optional columns are
// left empty when the decision has no value for them.
func WriteCSV(w io.Writer, recs []decisionlog.LogRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range recs {
		d := r.Decision
		var nearest, speed string
		if d.NearestStation != nil {
			nearest = formatFloat(d.NearestStation.DistanceKm)
		}
		if d.RecommendedSpeedKmh != nil {
			speed = formatFloat(*d.RecommendedSpeedKmh)
		}
		rec := []string{
			r.ID,
			r.Timestamp.UTC().Format(time.RFC3339Nano),
			r.Source,
			d.State.String(),
			d.Strategy.String(),
			formatFloat(r.Snapshot.BatteryPercent),
			formatFloat(r.Snapshot.CurrentSpeedKmh),
			formatFloat(r.Snapshot.ReferenceSpeedKmh),
			formatFloat(d.DirectDistanceKm),
			formatFloat(d.EstimatedRangeKm),
			nearest,
			speed,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Write dispatches on format: "json" or "csv".
func Write(w io.Writer, format string, recs []decisionlog.LogRecord) error {
	switch format {
	case "json":
		return WriteJSON(w, recs)
	case "csv":
		return WriteCSV(w, recs)
	default:
		return fmt.Errorf("unsupported export format: %s", format)
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
