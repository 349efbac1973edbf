package metrics

import (
	"time"

	"github.com/kilianp07/evrange/core/model"
)

// DecisionEvent is emitted for every route decision the service computes.
type DecisionEvent struct {
	ID       string
	Source   string // "api", "cli", "simulator", "drive"
	Snapshot model.TripSnapshot
	Decision model.RouteDecision
	Latency  time.Duration
	Time     time.Time
}

// DecisionSink records route decisions for observability purposes.
type DecisionSink interface {
	RecordDecision(ev DecisionEvent) error
}

// RejectionEvent captures a query the advisor refused.
type RejectionEvent struct {
	ID     string
	Source string
	Reason string // "invalid_input", "no_charging_stations", "invalid_config", "internal"
	Error  string
	Time   time.Time
}

// RejectionRecorder is implemented by sinks able to count rejected queries.
type RejectionRecorder interface {
	RecordRejection(ev RejectionEvent) error
}

// Closer is implemented by sinks holding network resources.
type Closer interface {
	Close() error
}

// Event is a DecisionEvent or a RejectionEvent carried on the service bus.
type Event interface {
	EventTime() time.Time
}

func (e DecisionEvent) EventTime() time.Time  { return e.Time }
func (e RejectionEvent) EventTime() time.Time { return e.Time }

// NopSink implements DecisionSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordDecision(DecisionEvent) error   { return nil }
func (NopSink) RecordRejection(RejectionEvent) error { return nil }
