package decisionlog

import (
	"context"
	"time"

	"github.com/kilianp07/evrange/core/model"
)

// LogRecord captures one computed route decision and its input.
type LogRecord struct {
	ID        string              `json:"id"`
	Timestamp time.Time           `json:"timestamp"`
	Source    string              `json:"source,omitempty"`
	Snapshot  model.TripSnapshot  `json:"snapshot"`
	Decision  model.RouteDecision `json:"decision"`
}

// LogQuery defines filters for retrieving records.
type LogQuery struct {
	Start time.Time
	End   time.Time
	State model.DecisionState
	// Limit keeps only the most recent records when positive.
	Limit int
}

// Matches reports whether r passes the time and state filters of q.
func (q LogQuery) Matches(r LogRecord) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.State != model.StateUnknown && r.Decision.State != q.State {
		return false
	}
	return true
}

// LogStore persists LogRecords and supports querying. Query results are in
// ascending timestamp order.
type LogStore interface {
	Append(ctx context.Context, rec LogRecord) error
	Query(ctx context.Context, q LogQuery) ([]LogRecord, error)
	Close() error
}

func applyLimit(recs []LogRecord, limit int) []LogRecord {
	if limit > 0 && len(recs) > limit {
		return recs[len(recs)-limit:]
	}
	return recs
}
