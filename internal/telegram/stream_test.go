package telegram

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func TestStreamWriter_ThrottlesEdits(t *testing.T) {
	fs := &fakeSender{}
	w := newStreamWriter(fs, 1, 2, time.Hour)
	for _, c := range []string{"a", "b", "c"} {
		w.Write(c)
	}
	if len(fs.sent) != 1 || fs.sent[0].text != "a" {
		t.Fatalf("only the first fragment should be shown before the interval: %+v", fs.sent)
	}
	w.Finish("END", tgbotapi.NewInlineKeyboardMarkup())
	if fs.last().text != "abc\n\nEND" || !fs.last().edit {
		t.Fatalf("unexpected final: %+v", fs.last())
	}
	if w.Parts() != 1 {
		t.Fatalf("want 1 part, got %d", w.Parts())
	}
}

func TestStreamWriter_EditsWhenAllowed(t *testing.T) {
	fs := &fakeSender{}
	w := newStreamWriter(fs, 1, 2, time.Nanosecond)
	w.Write("a")
	time.Sleep(time.Millisecond)
	w.Write("b")
	if len(fs.sent) != 2 || !fs.sent[1].edit || fs.sent[1].text != "ab" {
		t.Fatalf("expected an edit with accumulated text: %+v", fs.sent)
	}
}

func TestStreamWriter_RollsOverLongAnswers(t *testing.T) {
	fs := &fakeSender{}
	w := newStreamWriter(fs, 1, 2, time.Hour)
	long := strings.Repeat("я", 5000)
	w.Write(long)
	w.Finish("END", tgbotapi.NewInlineKeyboardMarkup())

	if w.Parts() != 2 {
		t.Fatalf("want 2 parts, got %d: %+v", w.Parts(), fs.sent)
	}
	var total int
	for _, m := range fs.sent {
		if n := utf8.RuneCountInString(m.text); n > maxMessageLen {
			t.Fatalf("message over the limit: %d", n)
		}
	}
	first := fs.sent[0].text
	final := fs.last().text
	total = utf8.RuneCountInString(first) + utf8.RuneCountInString(strings.TrimSuffix(final, "\n\nEND"))
	if total != 5000 {
		t.Fatalf("content lost across parts: %d", total)
	}
}

func TestStreamWriter_FailWithoutContent(t *testing.T) {
	fs := &fakeSender{}
	w := newStreamWriter(fs, 1, 2, time.Hour)
	w.Fail("oops")
	if len(fs.sent) != 1 || fs.sent[0].text != "oops" || fs.sent[0].edit {
		t.Fatalf("unexpected: %+v", fs.sent)
	}
}
