package monitoring

import (
	"errors"
	"testing"
	"time"
)

type recordMonitor struct {
	errs []error
	tags map[string]string
}

func (r *recordMonitor) CaptureException(err error, tags map[string]string) {
	r.errs = append(r.errs, err)
	r.tags = tags
}
func (r *recordMonitor) Recover()            {}
func (r *recordMonitor) Flush(time.Duration) {}

func TestCaptureException(t *testing.T) {
	mon := &recordMonitor{}
	Init(mon)
	defer Init(nil)

	CaptureException(nil, nil)
	CaptureException(errors.New("store down"), map[string]string{"module": "decisionlog"})
	if len(mon.errs) != 1 {
		t.Fatalf("expected one captured error, got %d", len(mon.errs))
	}
	if mon.tags["module"] != "decisionlog" {
		t.Fatalf("tags not forwarded: %v", mon.tags)
	}

	Init(nil)
	CaptureException(errors.New("ignored"), nil)
	if len(mon.errs) != 1 {
		t.Fatal("nil Init should restore the no-op monitor")
	}
}
