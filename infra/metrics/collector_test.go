package metrics

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/kilianp07/evrange/core/metrics"
	coremon "github.com/kilianp07/evrange/core/monitoring"
	"github.com/kilianp07/evrange/infra/logger"
	"github.com/kilianp07/evrange/internal/eventbus"
)

type recordingSink struct {
	mu         sync.Mutex
	decisions  []coremetrics.DecisionEvent
	rejections []coremetrics.RejectionEvent
	err        error
}

func (s *recordingSink) RecordDecision(ev coremetrics.DecisionEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.decisions = append(s.decisions, ev)
	return s.err
}

func (s *recordingSink) RecordRejection(ev coremetrics.RejectionEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rejections = append(s.rejections, ev)
	return s.err
}

func (s *recordingSink) counts() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.decisions), len(s.rejections)
}

func TestStartEventCollector(t *testing.T) {
	bus := eventbus.New[coremetrics.Event]()
	sink := &recordingSink{}
	ctx, cancel := context.WithCancel(context.Background())
	done := StartEventCollector(ctx, bus, sink, logger.NopLogger{})

	bus.Publish(reachableEvent(time.Now()))
	bus.Publish(coremetrics.RejectionEvent{ID: "r", Reason: "invalid_input"})

	assert.Eventually(t, func() bool {
		d, r := sink.counts()
		return d == 1 && r == 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("collector did not stop")
	}
}

func TestStartEventCollector_SinkErrorKeepsRunning(t *testing.T) {
	bus := eventbus.New[coremetrics.Event]()
	sink := &recordingSink{err: errors.New("boom")}
	done := StartEventCollector(context.Background(), bus, sink, nil)

	bus.Publish(reachableEvent(time.Now()))
	bus.Publish(reachableEvent(time.Now()))
	assert.Eventually(t, func() bool {
		d, _ := sink.counts()
		return d == 2
	}, time.Second, 5*time.Millisecond)

	bus.Close()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("collector did not stop on bus close")
	}
}

func TestStartEventCollector_NilBus(t *testing.T) {
	done := StartEventCollector(context.Background(), nil, &recordingSink{}, nil)
	_, open := <-done
	require.False(t, open)
}

type countingMonitor struct {
	mu   sync.Mutex
	tags []map[string]string
}

func (m *countingMonitor) CaptureException(_ error, tags map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tags = append(m.tags, tags)
}
func (m *countingMonitor) Recover()            {}
func (m *countingMonitor) Flush(time.Duration) {}

func (m *countingMonitor) captured() []map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]map[string]string(nil), m.tags...)
}

func TestStartEventCollector_ReportsEachSinkErrorOnce(t *testing.T) {
	mon := &countingMonitor{}
	coremon.Init(mon)
	defer coremon.Init(nil)

	bus := eventbus.New[coremetrics.Event]()
	sink := &recordingSink{err: errors.New("broker down")}
	done := StartEventCollector(context.Background(), bus, sink, nil)

	bus.Publish(reachableEvent(time.Now()))
	bus.Publish(coremetrics.RejectionEvent{ID: "r1", Reason: "invalid_input"})
	bus.Close()
	<-done

	got := mon.captured()
	require.Len(t, got, 2)
	assert.Equal(t, "metrics", got[0]["component"])
	assert.Equal(t, "d2", got[0]["decision_id"])
	assert.Equal(t, "r1", got[1]["decision_id"])
}
