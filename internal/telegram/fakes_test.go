package telegram

import (
	"context"
	"errors"
	"io"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"chat-relay/internal/llm"
	"chat-relay/internal/storage"
)

type sentMsg struct {
	edit    bool
	chatID  int64
	msgID   int
	replyTo int
	text    string
	kb      *tgbotapi.InlineKeyboardMarkup
}

type fakeSender struct {
	mu       sync.Mutex
	nextID   int
	sent     []sentMsg
	requests []tgbotapi.Chattable
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch v := c.(type) {
	case tgbotapi.MessageConfig:
		f.nextID++
		m := sentMsg{chatID: v.ChatID, msgID: f.nextID, replyTo: v.ReplyToMessageID, text: v.Text}
		if kb, ok := v.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup); ok {
			m.kb = &kb
		}
		f.sent = append(f.sent, m)
		return tgbotapi.Message{MessageID: f.nextID}, nil
	case tgbotapi.EditMessageTextConfig:
		f.sent = append(f.sent, sentMsg{edit: true, chatID: v.ChatID, msgID: v.MessageID, text: v.Text, kb: v.ReplyMarkup})
		return tgbotapi.Message{MessageID: v.MessageID}, nil
	}
	return tgbotapi.Message{}, errors.New("unexpected chattable")
}

func (f *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeSender) last() sentMsg {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sent[len(f.sent)-1]
}

type scriptStream struct {
	chunks []string
	pos    int
}

func (s *scriptStream) Recv() (string, error) {
	if s.pos >= len(s.chunks) {
		return "", io.EOF
	}
	s.pos++
	return s.chunks[s.pos-1], nil
}
func (s *scriptStream) Usage() llm.Usage { return llm.Usage{TotalTokens: 9} }
func (s *scriptStream) Close() error     { return nil }

type fakeLLM struct {
	chunks []string
	err    error
}

func (f fakeLLM) Model() string { return "test-model" }
func (f fakeLLM) Generate(ctx context.Context, msgs []llm.Message) (llm.Response, error) {
	return llm.Response{}, errors.New("not used")
}
func (f fakeLLM) Stream(ctx context.Context, msgs []llm.Message) (llm.Stream, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &scriptStream{chunks: f.chunks}, nil
}

type memRecorder struct {
	mu     sync.Mutex
	events []storage.Event
}

func (m *memRecorder) AppendInteraction(ev storage.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev)
	return nil
}

func (m *memRecorder) LoadInteractions() ([]storage.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]storage.Event(nil), m.events...), nil
}
