package storage

import "time"

type Kind string

const (
	KindTurn     Kind = "turn"
	KindFeedback Kind = "feedback"
)

// Event is one line of the interaction log: either a completed turn or a
// feedback reaction to an earlier turn.
type Event struct {
	Timestamp      time.Time `json:"timestamp"`
	Kind           Kind      `json:"kind"`
	TurnID         string    `json:"turn_id"`
	ConversationID string    `json:"conversation_id"`
	UserID         int64     `json:"user_id,omitempty"`
	ClientID       string    `json:"client_id,omitempty"`
	TenantID       string    `json:"tenant_id,omitempty"`

	// turn fields
	UserMessage       string `json:"user_message,omitempty"`
	AssistantResponse string `json:"assistant_response,omitempty"`
	Model             string `json:"model,omitempty"`
	TotalTokens       int    `json:"total_tokens,omitempty"`

	// feedback fields
	Feedback string `json:"feedback,omitempty"`
	Comment  string `json:"comment,omitempty"`
}

// Recorder abstracts persistence of interaction events.
// LoadInteractions returns events in the order they were appended.
// Implementations must be safe for concurrent use.
type Recorder interface {
	AppendInteraction(event Event) error
	LoadInteractions() ([]Event, error)
}
