package feedback

import (
	"errors"
	"testing"
	"time"

	"chat-relay/internal/storage"
)

type memRecorder struct {
	events []storage.Event
	err    error
}

func (m *memRecorder) AppendInteraction(ev storage.Event) error {
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, ev)
	return nil
}

func (m *memRecorder) LoadInteractions() ([]storage.Event, error) { return m.events, nil }

type countMetrics struct{ values []string }

func (c *countMetrics) Feedback(v string) { c.values = append(c.values, v) }

func TestSinkRecord(t *testing.T) {
	rec := &memRecorder{}
	cm := &countMetrics{}
	s := NewSink(rec, cm)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	s.Record(Event{TurnID: "t1", ConversationID: "42", UserID: 7, Value: ValueLike})

	if len(rec.events) != 1 {
		t.Fatalf("want 1 event, got %d", len(rec.events))
	}
	ev := rec.events[0]
	if ev.Kind != storage.KindFeedback || ev.TurnID != "t1" || ev.Feedback != ValueLike || ev.UserID != 7 {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if !ev.Timestamp.Equal(fixed) {
		t.Fatalf("timestamp not defaulted: %v", ev.Timestamp)
	}
	if len(cm.values) != 1 || cm.values[0] != ValueLike {
		t.Fatalf("metrics not bumped: %v", cm.values)
	}
}

func TestSinkRecord_BestEffort(t *testing.T) {
	rec := &memRecorder{err: errors.New("disk full")}
	s := NewSink(rec, nil)
	// must not panic or surface the error
	s.Record(Event{TurnID: "t2", Value: ValueDislike})

	NewSink(nil, nil).Record(Event{TurnID: "t3", Value: ValueLike})
}
