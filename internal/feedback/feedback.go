package feedback

import (
	"log"
	"time"

	"chat-relay/internal/storage"
)

const (
	ValueLike    = "like"
	ValueDislike = "dislike"
)

// Event is a user's reaction to an earlier bot answer.
type Event struct {
	TurnID         string
	ConversationID string
	UserID         int64
	Value          string
	Comment        string
	Timestamp      time.Time
}

type counter interface {
	Feedback(value string)
}

// Sink records feedback best-effort: failures are logged and swallowed.
type Sink struct {
	recorder storage.Recorder
	metrics  counter
	now      func() time.Time
}

// NewSink accepts nil recorder and metrics.
func NewSink(recorder storage.Recorder, metrics counter) *Sink {
	return &Sink{recorder: recorder, metrics: metrics, now: time.Now}
}

func (s *Sink) Record(ev Event) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = s.now().UTC()
	}
	log.Printf("your feedback is %s (turn=%s conversation=%s user=%d)", ev.Value, ev.TurnID, ev.ConversationID, ev.UserID)

	if s.metrics != nil {
		s.metrics.Feedback(ev.Value)
	}
	if s.recorder == nil {
		return
	}
	err := s.recorder.AppendInteraction(storage.Event{
		Timestamp:      ev.Timestamp,
		Kind:           storage.KindFeedback,
		TurnID:         ev.TurnID,
		ConversationID: ev.ConversationID,
		UserID:         ev.UserID,
		Feedback:       ev.Value,
		Comment:        ev.Comment,
	})
	if err != nil {
		log.Printf("failed to record feedback for turn %s: %v", ev.TurnID, err)
	}
}
