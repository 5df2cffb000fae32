package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/campus-labs/examchat/internal/core/domain"
)

// Export formats.
const (
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
)

// exportRecord is the JSON export envelope.
type exportRecord struct {
	Timestamp     int64                `json:"timestamp"`
	Date          string               `json:"date"`
	Conversations []exportConversation `json:"conversations"`
}

// exportConversation is one exported turn.
type exportConversation struct {
	Index     int    `json:"index"`
	User      string `json:"user"`
	Assistant string `json:"assistant"`
}

// ExportHistory renders a session's full history in the requested
// format. An empty history and an unknown format are explicit errors,
// never an empty export.
func ExportHistory(history domain.History, format string, now time.Time) (string, error) {
	if len(history) == 0 {
		return "", domain.ErrEmptyHistory
	}

	switch format {
	case FormatMarkdown:
		return exportMarkdown(history, now), nil
	case FormatJSON:
		return exportJSON(history, now)
	default:
		return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, format)
	}
}

func exportMarkdown(history domain.History, now time.Time) string {
	var b strings.Builder
	b.WriteString("# Examination Manual Chat Export\n\n")
	fmt.Fprintf(&b, "Date: %s\n\n", now.Format("2006-01-02 15:04:05"))

	for i, turn := range history {
		fmt.Fprintf(&b, "## Question %d\n\n", i+1)
		fmt.Fprintf(&b, "**User**: %s\n\n", turn.Query)
		fmt.Fprintf(&b, "**Assistant**: %s\n\n", turn.Response)
		b.WriteString("---\n\n")
	}
	return b.String()
}

func exportJSON(history domain.History, now time.Time) (string, error) {
	record := exportRecord{
		Timestamp:     now.Unix(),
		Date:          now.Format("2006-01-02 15:04:05"),
		Conversations: make([]exportConversation, len(history)),
	}
	for i, turn := range history {
		record.Conversations[i] = exportConversation{
			Index:     i,
			User:      turn.Query,
			Assistant: turn.Response,
		}
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal export: %w", err)
	}
	return string(data), nil
}
