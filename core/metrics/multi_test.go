package metrics

import (
	"errors"
	"testing"
)

type recordSink struct {
	decisions  int
	rejections int
	closed     bool
	err        error
}

func (r *recordSink) RecordDecision(DecisionEvent) error {
	r.decisions++
	return r.err
}

func (r *recordSink) RecordRejection(RejectionEvent) error {
	r.rejections++
	return nil
}

func (r *recordSink) Close() error {
	r.closed = true
	return nil
}

type decisionOnly struct{ n int }

func (d *decisionOnly) RecordDecision(DecisionEvent) error {
	d.n++
	return nil
}

// TestMultiSink ensures events are forwarded to all sinks.
func TestMultiSink(t *testing.T) {
	s1 := &recordSink{}
	s2 := &decisionOnly{}
	m := NewMultiSink(s1, s2)
	if err := m.RecordDecision(DecisionEvent{ID: "a"}); err != nil {
		t.Fatalf("record decision: %v", err)
	}
	if err := m.RecordRejection(RejectionEvent{ID: "b"}); err != nil {
		t.Fatalf("record rejection: %v", err)
	}
	if s1.decisions != 1 || s2.n != 1 || s1.rejections != 1 {
		t.Fatalf("events not forwarded: %+v %+v", s1, s2)
	}
	if err := m.Close(); err != nil || !s1.closed {
		t.Fatalf("close not forwarded: %v", err)
	}
}

func TestMultiSinkContinuesAfterError(t *testing.T) {
	boom := errors.New("boom")
	s1 := &recordSink{err: boom}
	s2 := &recordSink{}
	err := NewMultiSink(s1, s2).RecordDecision(DecisionEvent{})
	if !errors.Is(err, boom) {
		t.Fatalf("expected joined error, got %v", err)
	}
	if s2.decisions != 1 {
		t.Fatal("second sink skipped after first failed")
	}
}
