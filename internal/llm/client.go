package llm

import (
	"context"
	"errors"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ErrEmptyResponse is returned when the provider answers without any choice.
var ErrEmptyResponse = errors.New("llm: empty response")

type Message struct {
	Role    string
	Content string
}

type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

type Response struct {
	Content string
	Model   string
	Usage
}

// Stream yields completion fragments in generation order.
// Recv returns io.EOF once the completion is finished; Usage is only
// meaningful after that.
type Stream interface {
	Recv() (string, error)
	Usage() Usage
	Close() error
}

type Client interface {
	Generate(ctx context.Context, messages []Message) (Response, error)
	Stream(ctx context.Context, messages []Message) (Stream, error)
	Model() string
}
