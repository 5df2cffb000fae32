// Package ws serves the session-scoped chat protocol over WebSocket.
// Every frame in both directions is a tagged JSON envelope; the set of
// client event types is closed and dispatched from a single table.
package ws

import "encoding/json"

// Client event types.
const (
	eventMessage        = "message"
	eventGetChatHistory = "get_chat_history"
	eventClearChat      = "clear_chat"
	eventExportChat     = "export_chat"
)

// Server event types.
const (
	eventTyping       = "typing"
	eventProcessing   = "processing"
	eventChatHistory  = "chat_history"
	eventChatCleared  = "chat_cleared"
	eventExportResult = "export_result"
	eventError        = "error"
)

// envelope is the wire format for every frame.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// messageData is the payload of a client "message" event.
type messageData struct {
	Content string `json:"content"`
}

// exportData is the payload of a client "export_chat" event.
type exportData struct {
	Format string `json:"format"`
}

// botMessage is the payload of a server "message" event. Context,
// confidence, and visualization accompany answers only, never the
// welcome or error-style messages.
type botMessage struct {
	Type          string             `json:"type"`
	Content       string             `json:"content"`
	Context       []contextItem      `json:"context,omitempty"`
	Confidence    *confidenceMetrics `json:"confidence,omitempty"`
	Visualization *visualizationData `json:"visualization,omitempty"`
	Timestamp     float64            `json:"timestamp"`
}

// typingPayload brackets query processing.
type typingPayload struct {
	Status bool `json:"status"`
}

// processingPayload reports stage progress in [0,100].
type processingPayload struct {
	Status   string `json:"status"`
	Progress int    `json:"progress"`
	Message  string `json:"message,omitempty"`
}

// historyItem is one turn in a "chat_history" reply.
type historyItem struct {
	ID        int     `json:"id"`
	Query     string  `json:"query"`
	Response  string  `json:"response"`
	Timestamp float64 `json:"timestamp"`
}

// chatHistoryPayload is the server "chat_history" payload.
type chatHistoryPayload struct {
	History []historyItem `json:"history"`
}

// chatClearedPayload confirms a "clear_chat".
type chatClearedPayload struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// exportResultPayload answers an "export_chat".
type exportResultPayload struct {
	Status  string `json:"status"`
	Format  string `json:"format,omitempty"`
	Content string `json:"content,omitempty"`
	Message string `json:"message,omitempty"`
}

// errorPayload is the server "error" payload.
type errorPayload struct {
	Message string `json:"message"`
}
