// Package history keeps the per-conversation message log that is replayed
// to the completion service on every turn.
//
// Memories live for the lifetime of the Store. There is no eviction and no
// persistence: a restart loses all history.
package history

import (
	"sync"

	"chat-relay/internal/llm"
)

// Memory is the ordered, append-only message log of one conversation.
type Memory struct {
	mu   sync.RWMutex
	msgs []llm.Message
}

// Append adds msgs at the end of the log in one step.
func (m *Memory) Append(msgs ...llm.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.msgs = append(m.msgs, msgs...)
}

// Messages returns a copy of the log in insertion order.
func (m *Memory) Messages() []llm.Message {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]llm.Message, len(m.msgs))
	copy(out, m.msgs)
	return out
}

func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.msgs)
}

// Clear drops every message but keeps the instance, so holders of the
// pointer keep seeing the same log.
func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.msgs = nil
}

type Store struct {
	mu    sync.Mutex
	convs map[string]*Memory
}

func NewStore() *Store {
	return &Store{convs: make(map[string]*Memory)}
}

// GetOrCreate returns the memory of conversationID, creating it on first use.
// Every call for the same ID returns the same *Memory.
func (s *Store) GetOrCreate(conversationID string) *Memory {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.convs[conversationID]
	if !ok {
		m = &Memory{}
		s.convs[conversationID] = m
	}
	return m
}

// Lookup returns the memory of conversationID without creating it.
func (s *Store) Lookup(conversationID string) (*Memory, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.convs[conversationID]
	return m, ok
}

// Len reports how many conversations are tracked.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.convs)
}
