package ws

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/campus-labs/examchat/internal/core/domain"
	"github.com/campus-labs/examchat/internal/core/services"
	"github.com/campus-labs/examchat/internal/logger"
)

// historyTimestampStep spaces the simulated per-turn timestamps in a
// chat_history reply.
const historyTimestampStep = 300 // seconds

// handleMessage processes one query end to end: retrieval, generation,
// history append, final answer with presentation payloads. The typing
// indicator closes on every exit path.
func (c *connection) handleMessage(ctx context.Context, content string) {
	query := strings.TrimSpace(content)
	if query == "" {
		c.sendBot(botMessage{
			Type:      "bot",
			Content:   "Please enter a query.",
			Timestamp: c.timestamp(),
		})
		return
	}

	c.send(eventTyping, typingPayload{Status: true})
	defer c.send(eventTyping, typingPayload{Status: false})

	logger.Debug("Query from %s: %q", c.session.ID(), query)

	c.sendProcessing("retrieving", 0, "")
	c.sendProcessing("retrieving", 30, "Searching through summaries...")
	c.sendProcessing("retrieving", 60, "Finding relevant chunks...")
	docs := c.srv.chat.Retrieve(ctx, query, c.srv.topK)
	c.sendProcessing("retrieving", 100, "Retrieval complete")

	c.sendProcessing("generating", 0, "Analyzing context...")
	c.sendProcessing("generating", 50, "Formulating response...")
	response := c.srv.chat.Respond(ctx, query, docs, c.session.History())
	c.sendProcessing("generating", 100, "Response ready")

	c.session.Append(query, response)

	c.sendBot(botMessage{
		Type:          "bot",
		Content:       response,
		Context:       buildContext(docs),
		Confidence:    buildConfidence(len(docs)),
		Visualization: buildVisualization(query, docs),
		Timestamp:     c.timestamp(),
	})
}

// handleGetChatHistory replies with the session's turns and simulated
// per-turn timestamps, oldest first.
func (c *connection) handleGetChatHistory() {
	history := c.session.History()
	now := c.timestamp()

	items := make([]historyItem, len(history))
	for i, turn := range history {
		items[i] = historyItem{
			ID:        i,
			Query:     turn.Query,
			Response:  turn.Response,
			Timestamp: now - float64((len(history)-i)*historyTimestampStep),
		}
	}

	c.send(eventChatHistory, chatHistoryPayload{History: items})
}

// handleClearChat resets the session history.
func (c *connection) handleClearChat() {
	c.session.Clear()
	c.send(eventChatCleared, chatClearedPayload{
		Status:  "success",
		Message: "Chat history cleared",
	})
}

// handleExportChat renders the history in the requested format. Empty
// history and unknown formats are explicit errors, never empty exports.
func (c *connection) handleExportChat(format string) {
	if format == "" {
		format = services.FormatMarkdown
	}

	content, err := services.ExportHistory(c.session.History(), format, c.srv.now())
	if err != nil {
		c.send(eventExportResult, exportResultPayload{
			Status:  "error",
			Message: exportErrorMessage(err, format),
		})
		return
	}

	c.send(eventExportResult, exportResultPayload{
		Status:  "success",
		Format:  format,
		Content: content,
	})
}

func exportErrorMessage(err error, format string) string {
	switch {
	case errors.Is(err, domain.ErrEmptyHistory):
		return "No chat history to export"
	case errors.Is(err, domain.ErrUnsupportedFormat):
		return fmt.Sprintf("Unsupported export format: %s", format)
	default:
		return fmt.Sprintf("Error exporting chat: %v", err)
	}
}
