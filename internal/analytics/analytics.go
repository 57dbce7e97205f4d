package analytics

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"chat-relay/internal/feedback"
	"chat-relay/internal/storage"
)

// DailyStats summarizes one UTC day of the interaction log.
type DailyStats struct {
	Date                string                       `json:"date"`
	Turns               int                          `json:"turns"`
	UniqueConversations int                          `json:"unique_conversations"`
	TotalTokens         int                          `json:"total_tokens"`
	Likes               int                          `json:"likes"`
	Dislikes            int                          `json:"dislikes"`
	Conversations       map[string]ConversationStats `json:"conversations"`
}

type ConversationStats struct {
	ConversationID string `json:"conversation_id"`
	Turns          int    `json:"turns"`
	Likes          int    `json:"likes"`
	Dislikes       int    `json:"dislikes"`
}

// AnalyzeDailyLogs aggregates the events that fall on targetDate.
func AnalyzeDailyLogs(events []storage.Event, targetDate time.Time) *DailyStats {
	startOfDay := time.Date(targetDate.Year(), targetDate.Month(), targetDate.Day(), 0, 0, 0, 0, targetDate.Location())
	endOfDay := startOfDay.Add(24 * time.Hour)

	stats := &DailyStats{
		Date:          startOfDay.Format("2006-01-02"),
		Conversations: make(map[string]ConversationStats),
	}

	for _, event := range events {
		if event.Timestamp.Before(startOfDay) || !event.Timestamp.Before(endOfDay) {
			continue
		}

		cs, ok := stats.Conversations[event.ConversationID]
		if !ok {
			cs = ConversationStats{ConversationID: event.ConversationID}
		}

		switch event.Kind {
		case storage.KindTurn:
			stats.Turns++
			stats.TotalTokens += event.TotalTokens
			cs.Turns++
		case storage.KindFeedback:
			switch event.Feedback {
			case feedback.ValueLike:
				stats.Likes++
				cs.Likes++
			case feedback.ValueDislike:
				stats.Dislikes++
				cs.Dislikes++
			}
		default:
			continue
		}
		stats.Conversations[event.ConversationID] = cs
	}

	stats.UniqueConversations = len(stats.Conversations)
	return stats
}

// GenerateReportSummary renders a plain-text report for the chat.
func (ds *DailyStats) GenerateReportSummary() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Usage report for %s\n\n", ds.Date)
	fmt.Fprintf(&sb, "Turns: %d\n", ds.Turns)
	fmt.Fprintf(&sb, "Conversations: %d\n", ds.UniqueConversations)
	fmt.Fprintf(&sb, "Tokens: %d\n", ds.TotalTokens)
	fmt.Fprintf(&sb, "Feedback: %d 👍 / %d 👎\n", ds.Likes, ds.Dislikes)

	if len(ds.Conversations) == 0 {
		return sb.String()
	}

	ids := make([]string, 0, len(ds.Conversations))
	for id := range ds.Conversations {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	sb.WriteString("\nPer conversation:\n")
	for _, id := range ids {
		cs := ds.Conversations[id]
		fmt.Fprintf(&sb, "- %s: %d turns", id, cs.Turns)
		if cs.Likes > 0 || cs.Dislikes > 0 {
			fmt.Fprintf(&sb, ", %d 👍 / %d 👎", cs.Likes, cs.Dislikes)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (ds *DailyStats) ToJSON() (string, error) {
	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
