package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/evrange/core/decisionlog"
	"github.com/kilianp07/evrange/core/geo"
	"github.com/kilianp07/evrange/core/model"
)

func sampleRecords() []decisionlog.LogRecord {
	speed := 10.0
	return []decisionlog.LogRecord{
		{
			ID:        "a",
			Timestamp: time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC),
			Source:    "api",
			Snapshot:  model.TripSnapshot{BatteryPercent: 80, CurrentSpeedKmh: 40, ReferenceSpeedKmh: 40},
			Decision: model.RouteDecision{
				State:            model.StateDestinationReachable,
				Strategy:         geo.StrategyHaversine,
				DirectDistanceKm: 8.88,
				EstimatedRangeKm: 160,
			},
		},
		{
			ID:        "b",
			Timestamp: time.Date(2024, 5, 1, 8, 1, 0, 0, time.UTC),
			Source:    "drive",
			Snapshot:  model.TripSnapshot{BatteryPercent: 1, CurrentSpeedKmh: 40, ReferenceSpeedKmh: 40},
			Decision: model.RouteDecision{
				State:               model.StateSpeedReductionRequired,
				Strategy:            geo.StrategyHaversine,
				DirectDistanceKm:    8.88,
				EstimatedRangeKm:    2,
				NearestStation:      &model.ChargingStation{DistanceKm: 5},
				RecommendedSpeedKmh: &speed,
			},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleRecords()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, []string{"a", "2024-05-01T08:00:00Z", "api", "destination_reachable", "haversine", "80", "40", "40", "8.88", "160", "", ""}, rows[1])
	assert.Equal(t, "5", rows[2][10])
	assert.Equal(t, "10", rows[2][11])
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleRecords()))

	dec := json.NewDecoder(&buf)
	var ids []string
	for dec.More() {
		var r decisionlog.LogRecord
		require.NoError(t, dec.Decode(&r))
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"a", "b"}, ids)
}

func TestWriteUnknownFormat(t *testing.T) {
	assert.Error(t, Write(&bytes.Buffer{}, "xml", nil))
}
