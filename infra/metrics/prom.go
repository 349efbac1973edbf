package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/evrange/core/metrics"
)

// PromSink records route decisions in Prometheus metrics.
type PromSink struct {
	decisions  *prometheus.CounterVec
	rejections *prometheus.CounterVec
	rangeKm    *prometheus.HistogramVec
	speed      prometheus.Histogram
	latency    prometheus.Histogram
}

// NewPromSink registers decision metrics on the default Prometheus registerer.
// The Prometheus server is started separately with StartPromServer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer. Collectors
// already registered under the same names are reused.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	decisions, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "route_decisions_total",
		Help: "Total number of route decisions computed",
	}, []string{"state", "strategy", "source"}))
	if err != nil {
		return nil, err
	}
	rejections, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "route_rejections_total",
		Help: "Total number of trip snapshots the advisor refused",
	}, []string{"reason", "source"}))
	if err != nil {
		return nil, err
	}
	rangeKm, err := register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "route_estimated_range_km",
		Help:    "Estimated remaining range at decision time",
		Buckets: prometheus.LinearBuckets(0, 25, 9),
	}, []string{"state"}))
	if err != nil {
		return nil, err
	}
	speed, err := register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "route_recommended_speed_kmh",
		Help:    "Recommended speed when a reduction is required",
		Buckets: prometheus.LinearBuckets(10, 10, 8),
	}))
	if err != nil {
		return nil, err
	}
	latency, err := register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "route_decision_latency_seconds",
		Help:    "Time spent computing a route decision",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
	}))
	if err != nil {
		return nil, err
	}
	return &PromSink{
		decisions:  decisions,
		rejections: rejections,
		rangeKm:    rangeKm,
		speed:      speed,
		latency:    latency,
	}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordDecision updates counters and histograms for one decision.
func (s *PromSink) RecordDecision(ev coremetrics.DecisionEvent) error {
	d := ev.Decision
	state := d.State.String()
	s.decisions.WithLabelValues(state, d.Strategy.String(), ev.Source).Inc()
	s.rangeKm.WithLabelValues(state).Observe(d.EstimatedRangeKm)
	if d.RecommendedSpeedKmh != nil {
		s.speed.Observe(*d.RecommendedSpeedKmh)
	}
	if ev.Latency > 0 {
		s.latency.Observe(ev.Latency.Seconds())
	}
	return nil
}

// RecordRejection counts a refused snapshot.
func (s *PromSink) RecordRejection(ev coremetrics.RejectionEvent) error {
	s.rejections.WithLabelValues(ev.Reason, ev.Source).Inc()
	return nil
}
