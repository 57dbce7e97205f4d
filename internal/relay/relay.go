// Package relay runs one conversational turn against the completion
// service: it replays the conversation memory, streams the answer back
// fragment by fragment and records the exchange once it has finished.
//
// Turns of the same conversation are not serialized here. Two concurrent
// turns on one memory may interleave their appends.
package relay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"chat-relay/internal/history"
	"chat-relay/internal/llm"
)

type Result struct {
	TurnID  string
	Content string
	Model   string
	Usage   llm.Usage
	Elapsed time.Duration
}

// Turn is a single in-flight completion. Chunks must be drained before
// Wait can return.
type Turn struct {
	id     string
	chunks chan string
	done   chan struct{}
	res    Result
	err    error
}

func (t *Turn) ID() string { return t.id }

// Chunks delivers the answer fragments in generation order. The channel is
// closed when the completion ends, successfully or not.
func (t *Turn) Chunks() <-chan string { return t.chunks }

// Wait blocks until the turn has finished and returns its outcome.
func (t *Turn) Wait() (Result, error) {
	<-t.done
	return t.res, t.err
}

type Relay struct {
	client       llm.Client
	instructions string
	now          func() time.Time
}

func New(client llm.Client, instructions string) *Relay {
	return &Relay{client: client, instructions: instructions, now: time.Now}
}

func (r *Relay) Instructions() string { return r.instructions }

// Send starts a turn for input on mem. The memory is only appended to when
// the completion finishes successfully.
func (r *Relay) Send(ctx context.Context, mem *history.Memory, input string) *Turn {
	t := &Turn{
		id:     uuid.NewString(),
		chunks: make(chan string),
		done:   make(chan struct{}),
	}
	go r.run(ctx, t, mem, input)
	return t
}

// Complete runs a turn and hands every fragment to onChunk as it arrives.
func (r *Relay) Complete(ctx context.Context, mem *history.Memory, input string, onChunk func(string)) (Result, error) {
	t := r.Send(ctx, mem, input)
	for chunk := range t.Chunks() {
		if onChunk != nil {
			onChunk(chunk)
		}
	}
	return t.Wait()
}

func (r *Relay) buildMessages(mem *history.Memory, input string) []llm.Message {
	prior := mem.Messages()
	msgs := make([]llm.Message, 0, len(prior)+2)
	if r.instructions != "" {
		msgs = append(msgs, llm.Message{Role: llm.RoleSystem, Content: r.instructions})
	}
	msgs = append(msgs, prior...)
	return append(msgs, llm.Message{Role: llm.RoleUser, Content: input})
}

func (r *Relay) run(ctx context.Context, t *Turn, mem *history.Memory, input string) {
	defer close(t.done)
	defer close(t.chunks)

	start := r.now()
	stream, err := r.client.Stream(ctx, r.buildMessages(mem, input))
	if err != nil {
		t.err = fmt.Errorf("open completion stream: %w", err)
		return
	}
	defer func() { _ = stream.Close() }()

	var sb strings.Builder
	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.err = fmt.Errorf("receive completion chunk: %w", err)
			return
		}
		if chunk == "" {
			continue
		}
		sb.WriteString(chunk)
		select {
		case t.chunks <- chunk:
		case <-ctx.Done():
			t.err = ctx.Err()
			return
		}
	}

	content := sb.String()
	if content == "" {
		t.err = llm.ErrEmptyResponse
		return
	}

	mem.Append(
		llm.Message{Role: llm.RoleUser, Content: input},
		llm.Message{Role: llm.RoleAssistant, Content: content},
	)
	t.res = Result{
		TurnID:  t.id,
		Content: content,
		Model:   r.client.Model(),
		Usage:   stream.Usage(),
		Elapsed: r.now().Sub(start),
	}
}
