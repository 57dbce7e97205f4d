package telegram

import (
	"context"
	"fmt"
	"log"

	"chat-relay/internal/analytics"
)

// SendDailyReport posts today's usage summary to the report chat.
func (b *Bot) SendDailyReport(ctx context.Context) error {
	if b.reportChatID == 0 {
		return nil
	}
	if b.recorder == nil {
		return fmt.Errorf("no interaction log configured")
	}
	events, err := b.recorder.LoadInteractions()
	if err != nil {
		return fmt.Errorf("load interactions: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	stats := analytics.AnalyzeDailyLogs(events, b.now().UTC())
	log.Printf("📊 Daily report for %s: %d turns, %d conversations", stats.Date, stats.Turns, stats.UniqueConversations)
	b.sendMessage(b.reportChatID, stats.GenerateReportSummary())
	return nil
}
