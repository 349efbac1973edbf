// Package app wires the advisor with its audit log, sinks and HTTP API.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/evrange/api/decisions"
	"github.com/kilianp07/evrange/config"
	"github.com/kilianp07/evrange/core/advisor"
	"github.com/kilianp07/evrange/core/decisionlog"
	"github.com/kilianp07/evrange/core/factory"
	"github.com/kilianp07/evrange/core/geo"
	coremetrics "github.com/kilianp07/evrange/core/metrics"
	"github.com/kilianp07/evrange/core/model"
	"github.com/kilianp07/evrange/core/monitoring"
	"github.com/kilianp07/evrange/infra/logger"
	"github.com/kilianp07/evrange/infra/metrics"
	"github.com/kilianp07/evrange/infra/mqtt"
	"github.com/kilianp07/evrange/internal/eventbus"
)

// Service evaluates trip snapshots, records them in the decision log and
// fans the outcome out to the configured sinks.
type Service struct {
	cfg     *config.Config
	advisor *advisor.Advisor
	store   decisionlog.LogStore
	sink    coremetrics.DecisionSink
	bus     *eventbus.Bus[coremetrics.Event]
	log     logger.Logger
	now     func() time.Time

	stop      context.CancelFunc
	collector <-chan struct{}
	closeOnce sync.Once
}

// Option customizes a Service.
type Option func(*Service)

// WithLogStore replaces the store built from the logging section.
func WithLogStore(s decisionlog.LogStore) Option { return func(svc *Service) { svc.store = s } }

// WithSink replaces the sinks built from the metrics and mqtt sections.
func WithSink(s coremetrics.DecisionSink) Option { return func(svc *Service) { svc.sink = s } }

// WithLogger sets the service logger.
func WithLogger(l logger.Logger) Option { return func(svc *Service) { svc.log = l } }

// WithClock overrides the time source of decision records.
func WithClock(now func() time.Time) Option { return func(svc *Service) { svc.now = now } }

// New creates a Service from the configuration.
func New(cfg *config.Config, opts ...Option) (*Service, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	svc := &Service{cfg: cfg, now: time.Now}
	for _, o := range opts {
		o(svc)
	}
	if svc.log == nil {
		svc.log = logger.New("service")
	}

	adv, err := advisor.New(cfg.Advisor)
	if err != nil {
		return nil, err
	}
	svc.advisor = adv
	if s := adv.Config().DistanceStrategy; s.IsApproximate() {
		svc.log.Warnf("distance strategy %q is an approximation and unsuitable for real navigation", s)
	}

	if svc.store == nil {
		store, err := decisionlog.NewStore(cfg.Logging)
		if err != nil {
			return nil, fmt.Errorf("decision log: %w", err)
		}
		svc.store = store
	}
	if svc.sink == nil {
		sink, err := buildSink(cfg)
		if err != nil {
			_ = svc.store.Close()
			return nil, err
		}
		svc.sink = sink
	}

	svc.bus = eventbus.New[coremetrics.Event]()
	ctx, cancel := context.WithCancel(context.Background())
	svc.stop = cancel
	svc.collector = metrics.StartEventCollector(ctx, svc.bus, svc.sink, svc.log)
	return svc, nil
}

// buildSink creates the configured sinks. A Prometheus address or an MQTT
// broker enables the matching sink even when it is not listed explicitly.
func buildSink(cfg *config.Config) (coremetrics.DecisionSink, error) {
	listed := func(name string) bool {
		return slices.ContainsFunc(cfg.Metrics.Sinks, func(m factory.ModuleConfig) bool { return m.Type == name })
	}
	var sinks []coremetrics.DecisionSink
	if len(cfg.Metrics.Sinks) > 0 {
		s, err := coremetrics.NewDecisionSink(cfg.Metrics.Sinks)
		if err != nil {
			return nil, fmt.Errorf("metrics sinks: %w", err)
		}
		sinks = append(sinks, s)
	}
	if cfg.Metrics.PrometheusAddress != "" && !listed("prometheus") {
		s, err := metrics.NewPromSink()
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, s)
	}
	if cfg.MQTT.Enabled() && !listed("mqtt") {
		p, err := mqtt.NewPublisher(cfg.MQTT)
		if err != nil {
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
		sinks = append(sinks, p)
	}
	switch len(sinks) {
	case 0:
		return coremetrics.NopSink{}, nil
	case 1:
		return sinks[0], nil
	default:
		return coremetrics.NewMultiSink(sinks...), nil
	}
}

// Advisor returns the underlying advisor.
func (s *Service) Advisor() *advisor.Advisor { return s.advisor }

// Evaluate computes the route decision for snap. Successful decisions are
// appended to the decision log and published to the sinks; log failures are
// reported but do not fail the evaluation. Rejected snapshots return the
// advisor error unchanged.
func (s *Service) Evaluate(ctx context.Context, source string, snap model.TripSnapshot) (decisionlog.LogRecord, error) {
	id := uuid.NewString()
	start := s.now()
	d, err := s.advisor.Decide(snap)
	if err != nil {
		reason := RejectionReason(err)
		s.log.Infow("snapshot rejected", map[string]any{"id": id, "source": source, "reason": reason, "error": err.Error()})
		s.bus.Publish(coremetrics.RejectionEvent{ID: id, Source: source, Reason: reason, Error: err.Error(), Time: start})
		return decisionlog.LogRecord{}, err
	}
	rec := decisionlog.LogRecord{ID: id, Timestamp: start, Source: source, Snapshot: snap, Decision: d}
	if err := s.store.Append(ctx, rec); err != nil {
		s.log.Errorf("append decision %s: %v", id, err)
		monitoring.CaptureException(err, map[string]string{"component": "decisionlog", "decision_id": id})
	}
	s.bus.Publish(coremetrics.DecisionEvent{
		ID:       id,
		Source:   source,
		Snapshot: snap,
		Decision: d,
		Latency:  s.now().Sub(start),
		Time:     start,
	})
	s.log.Debugw("route decision", map[string]any{
		"id":                 id,
		"source":             source,
		"state":              d.State.String(),
		"direct_distance_km": d.DirectDistanceKm,
		"estimated_range_km": d.EstimatedRangeKm,
	})
	return rec, nil
}

// History queries the decision log.
func (s *Service) History(ctx context.Context, q decisionlog.LogQuery) ([]decisionlog.LogRecord, error) {
	return s.store.Query(ctx, q)
}

// ETA estimates the travel time between two points.
func (s *Service) ETA(from, to geo.GeoPoint) (time.Duration, error) {
	return s.advisor.ETA(from, to)
}

// Handler returns the HTTP API.
func (s *Service) Handler() http.Handler {
	return decisions.NewRouter(s, logger.New("api"), s.cfg.Server.AuthToken)
}

// Run serves the HTTP API, and the Prometheus endpoint when configured,
// until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	if addr := s.cfg.Metrics.PrometheusAddress; addr != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, addr); err != nil {
				s.log.Errorf("prom server: %v", err)
				monitoring.CaptureException(err, map[string]string{"component": "prometheus"})
			}
		}()
	}
	srv := &http.Server{
		Addr:              s.cfg.Server.Address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: time.Duration(s.cfg.Server.ReadTimeoutSeconds) * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("listening on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Close stops the sink collector, drains it and releases the log store and
// sinks.
func (s *Service) Close() error {
	var errs []error
	s.closeOnce.Do(func() {
		s.bus.Close()
		<-s.collector
		s.stop()
		if c, ok := s.sink.(coremetrics.Closer); ok {
			errs = append(errs, c.Close())
		}
		errs = append(errs, s.store.Close())
		monitoring.Flush(2 * time.Second)
	})
	return errors.Join(errs...)
}

// RejectionReason maps advisor errors to the reason label used by sinks.
func RejectionReason(err error) string {
	switch {
	case errors.Is(err, advisor.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, advisor.ErrNoChargingStations):
		return "no_charging_stations"
	case errors.Is(err, advisor.ErrInvalidConfig):
		return "invalid_config"
	default:
		return "internal"
	}
}
