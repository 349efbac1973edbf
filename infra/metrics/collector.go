package metrics

import (
	"context"
	"fmt"

	coremetrics "github.com/kilianp07/evrange/core/metrics"
	"github.com/kilianp07/evrange/core/monitoring"
	"github.com/kilianp07/evrange/infra/logger"
	"github.com/kilianp07/evrange/internal/eventbus"
)

// StartEventCollector subscribes to the bus and forwards events to sink.
// It stops when the context is canceled or the bus is closed; the returned
// channel is closed once the goroutine has exited.
func StartEventCollector(ctx context.Context, bus *eventbus.Bus[coremetrics.Event], sink coremetrics.DecisionSink, log logger.Logger) <-chan struct{} {
	done := make(chan struct{})
	if bus == nil || sink == nil {
		close(done)
		return done
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	sub := bus.Subscribe()
	go func() {
		defer close(done)
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				if err := dispatch(sink, ev); err != nil {
					log.Warnf("sink error: %v", err)
					monitoring.CaptureException(err, map[string]string{"component": "metrics", "decision_id": eventID(ev)})
				}
			}
		}
	}()
	return done
}

func eventID(ev coremetrics.Event) string {
	switch e := ev.(type) {
	case coremetrics.DecisionEvent:
		return e.ID
	case coremetrics.RejectionEvent:
		return e.ID
	}
	return ""
}

func dispatch(sink coremetrics.DecisionSink, ev coremetrics.Event) error {
	switch e := ev.(type) {
	case coremetrics.DecisionEvent:
		if err := sink.RecordDecision(e); err != nil {
			return fmt.Errorf("record decision %s: %w", e.ID, err)
		}
	case coremetrics.RejectionEvent:
		if r, ok := sink.(coremetrics.RejectionRecorder); ok {
			if err := r.RecordRejection(e); err != nil {
				return fmt.Errorf("record rejection %s: %w", e.ID, err)
			}
		}
	}
	return nil
}
