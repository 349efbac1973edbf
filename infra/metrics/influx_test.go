package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/kilianp07/evrange/core/metrics"
)

type influxRecorder struct {
	mu     sync.Mutex
	bodies []string
}

func (r *influxRecorder) server(t *testing.T, healthy bool) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path == "/health" {
			if !healthy {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"name":"influxdb","message":"ready","status":"pass","checks":[]}`)
			return
		}
		data, _ := io.ReadAll(req.Body)
		r.mu.Lock()
		r.bodies = append(r.bodies, string(data))
		r.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestInfluxSink_RecordDecision(t *testing.T) {
	rec := &influxRecorder{}
	srv := rec.server(t, true)
	sink := NewInfluxSink(InfluxConfig{URL: srv.URL, Token: "tok", Org: "org", Bucket: "bucket"})
	defer func() { _ = sink.Close() }()

	ev := speedReductionEvent(time.Now())
	require.NoError(t, sink.RecordDecision(ev))

	expected := strings.TrimSpace(write.PointToLineProtocol(decisionPoint(ev), time.Nanosecond))
	require.Len(t, rec.bodies, 1)
	assert.Equal(t, expected, strings.TrimSpace(rec.bodies[0]))
	assert.Contains(t, expected, "route_decision,")
	assert.Contains(t, expected, "recommended_speed_kmh=")
	assert.Contains(t, expected, "state=speed_reduction_required")
}

// seriesKey returns the measurement and tag set of a line protocol line.
func seriesKey(line string) string {
	key, _, _ := strings.Cut(line, " ")
	return key
}

func TestInfluxSink_DecisionIDIsField(t *testing.T) {
	line := write.PointToLineProtocol(decisionPoint(speedReductionEvent(time.Now())), time.Nanosecond)
	assert.NotContains(t, seriesKey(line), "decision_id")
	assert.Contains(t, line, `decision_id="d1"`)

	a := seriesKey(write.PointToLineProtocol(decisionPoint(reachableEvent(time.Now())), time.Nanosecond))
	ev := reachableEvent(time.Now())
	ev.ID = "another"
	b := seriesKey(write.PointToLineProtocol(decisionPoint(ev), time.Nanosecond))
	assert.Equal(t, a, b)
}

func TestInfluxSink_OptionalFields(t *testing.T) {
	p := write.PointToLineProtocol(decisionPoint(reachableEvent(time.Now())), time.Nanosecond)
	assert.NotContains(t, p, "recommended_speed_kmh")
	assert.NotContains(t, p, "nearest_station_km")
	assert.Contains(t, p, "can_reach_destination=true")
}

func TestInfluxSink_RecordRejection(t *testing.T) {
	rec := &influxRecorder{}
	srv := rec.server(t, true)
	sink := NewInfluxSink(InfluxConfig{URL: srv.URL + "/api/v2/write", Org: "org", Bucket: "bucket"})
	defer func() { _ = sink.Close() }()

	err := sink.RecordRejection(coremetrics.RejectionEvent{ID: "x", Source: "cli", Reason: "invalid_input", Error: "bad", Time: time.Now()})
	require.NoError(t, err)
	require.Len(t, rec.bodies, 1)
	assert.True(t, strings.HasPrefix(rec.bodies[0], "route_rejection,"))
	assert.NotContains(t, seriesKey(rec.bodies[0]), "decision_id")
	assert.Contains(t, rec.bodies[0], `decision_id="x"`)
}

func TestNewInfluxSinkWithFallback(t *testing.T) {
	rec := &influxRecorder{}
	down := rec.server(t, false)
	sink := NewInfluxSinkWithFallback(InfluxConfig{URL: down.URL + "/api/v2/write", Token: "tok", Org: "org", Bucket: "bucket"})
	assert.IsType(t, coremetrics.NopSink{}, sink)

	up := rec.server(t, true)
	sink = NewInfluxSinkWithFallback(InfluxConfig{URL: up.URL, Token: "tok", Org: "org", Bucket: "bucket"})
	s, ok := sink.(*InfluxSink)
	require.True(t, ok, "expected InfluxSink on passing health check")
	_ = s.Close()
}
