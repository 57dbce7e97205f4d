package telegram

import (
	"log"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"
)

const (
	maxMessageLen = 4096
	// room kept free in every message for the closing footer
	footerReserve = 64
)

// streamWriter mirrors a growing completion into Telegram messages.
// The first fragment creates a reply, later fragments edit it no more often
// than the limiter allows, and text past the size limit rolls over into a
// new message.
type streamWriter struct {
	s       sender
	chatID  int64
	replyTo int
	limiter *rate.Limiter

	msgID int
	cur   []rune
	shown string
	parts int
}

func newStreamWriter(s sender, chatID int64, replyTo int, every time.Duration) *streamWriter {
	return &streamWriter{
		s:       s,
		chatID:  chatID,
		replyTo: replyTo,
		limiter: rate.NewLimiter(rate.Every(every), 1),
	}
}

func (w *streamWriter) Write(chunk string) {
	w.cur = append(w.cur, []rune(chunk)...)
	for len(w.cur) > maxMessageLen-footerReserve {
		head := string(w.cur[:maxMessageLen-footerReserve])
		w.cur = append([]rune(nil), w.cur[maxMessageLen-footerReserve:]...)
		w.show(head, nil)
		w.msgID, w.shown = 0, ""
	}
	if w.limiter.Allow() {
		w.show(string(w.cur), nil)
	}
}

// Finish shows the complete text with a footer and keyboard.
func (w *streamWriter) Finish(footer string, kb tgbotapi.InlineKeyboardMarkup) {
	text := string(w.cur)
	if text != "" {
		text += "\n\n"
	}
	w.show(text+footer, &kb)
}

// Fail keeps whatever was already streamed and appends notice.
func (w *streamWriter) Fail(notice string) {
	text := string(w.cur)
	if text != "" {
		text += "\n\n"
	}
	w.show(text+notice, nil)
}

// Parts reports how many Telegram messages the answer occupies.
func (w *streamWriter) Parts() int { return w.parts }

func (w *streamWriter) show(text string, kb *tgbotapi.InlineKeyboardMarkup) {
	if text == "" || (text == w.shown && kb == nil) {
		return
	}
	if w.msgID == 0 {
		msg := tgbotapi.NewMessage(w.chatID, text)
		msg.ReplyToMessageID = w.replyTo
		if kb != nil {
			msg.ReplyMarkup = *kb
		}
		sent, err := w.s.Send(msg)
		if err != nil {
			log.Printf("failed to send streamed message: %v", err)
			return
		}
		w.msgID = sent.MessageID
		w.shown = text
		w.parts++
		return
	}

	var edit tgbotapi.EditMessageTextConfig
	if kb != nil {
		edit = tgbotapi.NewEditMessageTextAndMarkup(w.chatID, w.msgID, text, *kb)
	} else {
		edit = tgbotapi.NewEditMessageText(w.chatID, w.msgID, text)
	}
	if _, err := w.s.Send(edit); err != nil {
		log.Printf("failed to edit streamed message %d: %v", w.msgID, err)
		return
	}
	w.shown = text
}
