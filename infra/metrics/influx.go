package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/evrange/core/metrics"
	"github.com/kilianp07/evrange/infra/logger"
)

// InfluxConfig holds the connection settings of the influx sink.
type InfluxConfig struct {
	URL    string `json:"url"`
	Token  string `json:"token"`
	Org    string `json:"org"`
	Bucket string `json:"bucket"`
}

// InfluxSink writes route decisions to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(cfg InfluxConfig) *InfluxSink {
	base := strings.TrimSuffix(cfg.URL, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, cfg.Token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a
// NopSink if the health check fails.
func NewInfluxSinkWithFallback(cfg InfluxConfig) coremetrics.DecisionSink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordDecision writes the decision as a route_decision point.
func (s *InfluxSink) RecordDecision(ev coremetrics.DecisionEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.writeAPI.WritePoint(ctx, decisionPoint(ev))
}

func decisionPoint(ev coremetrics.DecisionEvent) *write.Point {
	d, snap := ev.Decision, ev.Snapshot
	p := write.NewPointWithMeasurement("route_decision").
		AddTag("state", d.State.String()).
		AddTag("strategy", d.Strategy.String()).
		AddTag("nearest_reachable", strconv.FormatBool(d.CanReachNearestStation))
	if ev.Source != "" {
		p = p.AddTag("source", ev.Source)
	}
	// ids are unbounded, keep them out of the series key
	p = p.AddField("decision_id", ev.ID).
		AddField("battery_pct", round3(snap.BatteryPercent)).
		AddField("speed_kmh", round3(snap.CurrentSpeedKmh)).
		AddField("reference_speed_kmh", round3(snap.ReferenceSpeedKmh)).
		AddField("direct_distance_km", round3(d.DirectDistanceKm)).
		AddField("estimated_range_km", round3(d.EstimatedRangeKm)).
		AddField("stations", len(d.RankedStations)).
		AddField("can_reach_destination", d.CanReachDestination)
	if d.NearestStation != nil {
		p = p.AddField("nearest_station_km", round3(d.NearestStation.DistanceKm))
	}
	if d.RecommendedSpeedKmh != nil {
		p = p.AddField("recommended_speed_kmh", round3(*d.RecommendedSpeedKmh))
	}
	return p.SetTime(ev.Time)
}

// RecordRejection writes a route_rejection point.
func (s *InfluxSink) RecordRejection(ev coremetrics.RejectionEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("route_rejection").
		AddTag("reason", ev.Reason)
	if ev.Source != "" {
		p = p.AddTag("source", ev.Source)
	}
	p = p.AddField("decision_id", ev.ID).
		AddField("error", ev.Error).
		AddField("count", 1).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the HTTP client.
func (s *InfluxSink) Close() error {
	s.client.Close()
	return nil
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
