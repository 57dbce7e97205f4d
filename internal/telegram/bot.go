package telegram

import (
	"context"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"chat-relay/internal/feedback"
	"chat-relay/internal/history"
	"chat-relay/internal/metrics"
	"chat-relay/internal/relay"
	"chat-relay/internal/storage"
)

const (
	resetCmd         = "reset_ctx"
	feedbackPrefix   = "fb:"
	aiGeneratedLabel = "🤖 AI-generated"
	failureNotice    = "Sorry, something went wrong."
)

type Options struct {
	Relay        *relay.Relay
	Store        *history.Store
	Feedback     *feedback.Sink
	Recorder     storage.Recorder
	Metrics      *metrics.Metrics
	EditInterval time.Duration
	ClientID     string
	TenantID     string
	ReportChatID int64
}

type Bot struct {
	api          *tgbotapi.BotAPI
	s            sender
	relay        *relay.Relay
	history      *history.Store
	feedback     *feedback.Sink
	recorder     storage.Recorder
	metrics      *metrics.Metrics
	editInterval time.Duration
	clientID     string
	tenantID     string
	reportChatID int64
	now          func() time.Time
}

func New(botToken string, opts Options) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, err
	}
	log.Printf("Authorized on account @%s", api.Self.UserName)
	b := newBot(botAPISender{api: api}, opts)
	b.api = api
	return b, nil
}

func newBot(s sender, opts Options) *Bot {
	if opts.EditInterval <= 0 {
		opts.EditInterval = time.Second
	}
	if opts.Store == nil {
		opts.Store = history.NewStore()
	}
	return &Bot{
		s:            s,
		relay:        opts.Relay,
		history:      opts.Store,
		feedback:     opts.Feedback,
		recorder:     opts.Recorder,
		metrics:      opts.Metrics,
		editInterval: opts.EditInterval,
		clientID:     opts.ClientID,
		tenantID:     opts.TenantID,
		reportChatID: opts.ReportChatID,
		now:          time.Now,
	}
}

// Start polls for updates until ctx is cancelled. Every update is handled
// on its own goroutine.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	var wg sync.WaitGroup
	defer wg.Wait()
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				b.handleUpdate(ctx, update)
			}()
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil:
		b.handleIncomingMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		b.handleCallback(update.CallbackQuery)
	}
}

func conversationID(chatID int64) string { return strconv.FormatInt(chatID, 10) }

func (b *Bot) handleIncomingMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.Chat == nil || strings.TrimSpace(msg.Text) == "" {
		return
	}
	if msg.IsCommand() {
		b.handleCommand(msg)
		return
	}

	var userID int64
	if msg.From != nil {
		userID = msg.From.ID
	}
	convID := conversationID(msg.Chat.ID)
	mem := b.history.GetOrCreate(convID)
	log.Printf("Incoming message in %s (group=%t) from %d: %d messages in memory", convID, msg.Chat.IsGroup() || msg.Chat.IsSuperGroup(), userID, mem.Len())

	if _, err := b.s.Request(tgbotapi.NewChatAction(msg.Chat.ID, tgbotapi.ChatTyping)); err != nil {
		log.Printf("failed to send typing action: %v", err)
	}

	start := b.now()
	w := newStreamWriter(b.s, msg.Chat.ID, msg.MessageID, b.editInterval)
	turn := b.relay.Send(ctx, mem, msg.Text)
	for chunk := range turn.Chunks() {
		if b.metrics != nil {
			b.metrics.Chunk()
		}
		w.Write(chunk)
	}

	res, err := turn.Wait()
	if err != nil {
		log.Printf("turn %s in %s failed: %v", turn.ID(), convID, err)
		if b.metrics != nil {
			b.metrics.ObserveTurn(metrics.OutcomeError, b.now().Sub(start))
		}
		w.Fail(failureNotice)
		return
	}
	if b.metrics != nil {
		b.metrics.ObserveTurn(metrics.OutcomeOK, res.Elapsed)
	}

	w.Finish(aiGeneratedLabel, answerKeyboard(res.TurnID))
	log.Printf("LLM response [turn=%s, model=%s, tokens: prompt=%d, completion=%d, total=%d, parts=%d]",
		res.TurnID, res.Model, res.Usage.PromptTokens, res.Usage.CompletionTokens, res.Usage.TotalTokens, w.Parts())
	b.recordTurn(convID, userID, msg.Text, res)
}

func (b *Bot) recordTurn(convID string, userID int64, input string, res relay.Result) {
	if b.recorder == nil {
		return
	}
	err := b.recorder.AppendInteraction(storage.Event{
		Timestamp:         b.now().UTC(),
		Kind:              storage.KindTurn,
		TurnID:            res.TurnID,
		ConversationID:    convID,
		UserID:            userID,
		ClientID:          b.clientID,
		TenantID:          b.tenantID,
		UserMessage:       input,
		AssistantResponse: res.Content,
		Model:             res.Model,
		TotalTokens:       res.Usage.TotalTokens,
	})
	if err != nil {
		log.Printf("failed to record turn %s: %v", res.TurnID, err)
	}
}

func (b *Bot) handleCommand(msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		b.sendMessage(msg.Chat.ID, "Hi! Send me a message and I will answer. Use /reset to start over.")
	case "reset":
		b.resetConversation(msg.Chat.ID)
	default:
		b.sendMessage(msg.Chat.ID, "Unknown command.")
	}
}

func (b *Bot) resetConversation(chatID int64) {
	if mem, ok := b.history.Lookup(conversationID(chatID)); ok {
		mem.Clear()
	}
	b.sendMessage(chatID, "Context cleared")
}

func (b *Bot) handleCallback(cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil || cb.Message.Chat == nil {
		return
	}
	chatID := cb.Message.Chat.ID

	switch {
	case cb.Data == resetCmd:
		b.answerCallback(cb.ID, "")
		b.resetConversation(chatID)
	case strings.HasPrefix(cb.Data, feedbackPrefix):
		value, turnID, ok := parseFeedbackData(cb.Data)
		if !ok {
			b.answerCallback(cb.ID, "")
			return
		}
		var userID int64
		if cb.From != nil {
			userID = cb.From.ID
		}
		if b.feedback != nil {
			b.feedback.Record(feedback.Event{
				TurnID:         turnID,
				ConversationID: conversationID(chatID),
				UserID:         userID,
				Value:          value,
			})
		}
		b.answerCallback(cb.ID, "Thanks for the feedback!")
	default:
		b.answerCallback(cb.ID, "")
	}
}

func (b *Bot) answerCallback(id, text string) {
	if _, err := b.s.Request(tgbotapi.NewCallback(id, text)); err != nil {
		log.Printf("failed to answer callback: %v", err)
	}
}

func feedbackData(value, turnID string) string {
	return feedbackPrefix + value + ":" + turnID
}

func parseFeedbackData(data string) (value, turnID string, ok bool) {
	rest, found := strings.CutPrefix(data, feedbackPrefix)
	if !found {
		return "", "", false
	}
	value, turnID, found = strings.Cut(rest, ":")
	if !found || turnID == "" {
		return "", "", false
	}
	if value != feedback.ValueLike && value != feedback.ValueDislike {
		return "", "", false
	}
	return value, turnID, true
}

func answerKeyboard(turnID string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("👍", feedbackData(feedback.ValueLike, turnID)),
			tgbotapi.NewInlineKeyboardButtonData("👎", feedbackData(feedback.ValueDislike, turnID)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Reset context", resetCmd),
		),
	)
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.s.Send(msg); err != nil {
		log.Printf("failed to send message: %v", err)
	}
}
