package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-labs/examchat/internal/core/domain"
	"github.com/campus-labs/examchat/internal/core/services"
)

type stubChat struct {
	docs     []domain.RetrievedDoc
	response string
}

func (s *stubChat) Retrieve(_ context.Context, _ string, k int) []domain.RetrievedDoc {
	if len(s.docs) > k {
		return s.docs[:k]
	}
	return s.docs
}

func (s *stubChat) Respond(_ context.Context, _ string, _ []domain.RetrievedDoc, _ domain.History) string {
	return s.response
}

type stubIndex struct {
	err   error
	calls int
}

func (s *stubIndex) EnsureReady(context.Context) error {
	s.calls++
	return s.err
}

func (s *stubIndex) Counts(context.Context) (int, int, error) {
	return 0, 0, nil
}

func newTestConn(t *testing.T, chat *stubChat, index *stubIndex) *websocket.Conn {
	t.Helper()

	srv := NewServer(chat, index, services.NewSessionRegistry(), 2)
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn
}

func defaultStubs() (*stubChat, *stubIndex) {
	chat := &stubChat{
		docs: []domain.RetrievedDoc{
			{Text: "Re-evaluation requests must be filed within one week.", Metadata: domain.ChunkMeta{ChunkID: "c1", Index: 0}},
			{Text: "The fee for re-evaluation is specified by the controller.", Metadata: domain.ChunkMeta{ChunkID: "c2", Index: 1}},
		},
		response: "You must apply within one week of results.",
	}
	return chat, &stubIndex{}
}

func readEvent(t *testing.T, conn *websocket.Conn) envelope {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var env envelope
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &env))
	return env
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func sendEvent(t *testing.T, conn *websocket.Conn, event string, data any) {
	t.Helper()
	var raw json.RawMessage
	if data != nil {
		b, err := json.Marshal(data)
		require.NoError(t, err)
		raw = b
	}
	require.NoError(t, conn.WriteJSON(envelope{Event: event, Data: raw}))
}

// readWelcome consumes the initial bot greeting.
func readWelcome(t *testing.T, conn *websocket.Conn) botMessage {
	t.Helper()
	env := readEvent(t, conn)
	require.Equal(t, eventMessage, env.Event)
	return decodeData[botMessage](t, env)
}

func TestConnectSendsWelcome(t *testing.T) {
	chat, index := defaultStubs()
	conn := newTestConn(t, chat, index)

	msg := readWelcome(t, conn)
	assert.Equal(t, "bot", msg.Type)
	assert.Contains(t, msg.Content, "Welcome to the Examination Manual Chatbot!")
	assert.Nil(t, msg.Context)
	assert.Nil(t, msg.Confidence)
	assert.Equal(t, 1, index.calls)
}

func TestConnectIndexFailure(t *testing.T) {
	chat, _ := defaultStubs()
	index := &stubIndex{err: errors.New("document not found")}
	conn := newTestConn(t, chat, index)

	env := readEvent(t, conn)
	require.Equal(t, eventError, env.Event)
	payload := decodeData[errorPayload](t, env)
	assert.Contains(t, payload.Message, "Error initializing chatbot")
	assert.Contains(t, payload.Message, "document not found")
}

func TestEmptyQuery(t *testing.T) {
	chat, index := defaultStubs()
	conn := newTestConn(t, chat, index)
	readWelcome(t, conn)

	sendEvent(t, conn, eventMessage, messageData{Content: "   "})

	env := readEvent(t, conn)
	require.Equal(t, eventMessage, env.Event)
	msg := decodeData[botMessage](t, env)
	assert.Equal(t, "Please enter a query.", msg.Content)

	// History stays empty: exporting now reports the empty-history error.
	sendEvent(t, conn, eventExportChat, exportData{Format: "markdown"})
	env = readEvent(t, conn)
	require.Equal(t, eventExportResult, env.Event)
	result := decodeData[exportResultPayload](t, env)
	assert.Equal(t, "error", result.Status)
	assert.Equal(t, "No chat history to export", result.Message)
}

func TestQueryFlow(t *testing.T) {
	chat, index := defaultStubs()
	conn := newTestConn(t, chat, index)
	readWelcome(t, conn)

	sendEvent(t, conn, eventMessage, messageData{Content: "What is the re-evaluation fee?"})

	// Typing opens the bracket.
	env := readEvent(t, conn)
	require.Equal(t, eventTyping, env.Event)
	assert.True(t, decodeData[typingPayload](t, env).Status)

	// Progress is monotonically non-decreasing within each stage.
	lastProgress := map[string]int{}
	for i := 0; i < 6; i++ {
		env = readEvent(t, conn)
		require.Equal(t, eventProcessing, env.Event)
		p := decodeData[processingPayload](t, env)
		assert.GreaterOrEqual(t, p.Progress, lastProgress[p.Status])
		assert.LessOrEqual(t, p.Progress, 100)
		lastProgress[p.Status] = p.Progress
	}
	assert.Equal(t, 100, lastProgress["retrieving"])
	assert.Equal(t, 100, lastProgress["generating"])

	// Final answer carries context, confidence, and visualization.
	env = readEvent(t, conn)
	require.Equal(t, eventMessage, env.Event)
	msg := decodeData[botMessage](t, env)
	assert.Equal(t, "You must apply within one week of results.", msg.Content)
	require.Len(t, msg.Context, 2)
	assert.Equal(t, "c1", msg.Context[0].Metadata.ChunkID)

	require.NotNil(t, msg.Confidence)
	assert.Equal(t, 90, msg.Confidence.Relevance)
	assert.Equal(t, 85, msg.Confidence.Accuracy)
	assert.Equal(t, 80, msg.Confidence.Completeness)
	assert.Equal(t, 88, msg.Confidence.Coherence)
	assert.Equal(t, 92, msg.Confidence.Conciseness)

	require.NotNil(t, msg.Visualization)
	assert.Equal(t, "What is the re-evaluation fee?", msg.Visualization.Query)
	require.Len(t, msg.Visualization.Summaries, 2)
	assert.InDelta(t, 0.85, msg.Visualization.Summaries[0].Score, 1e-9)
	assert.InDelta(t, 0.75, msg.Visualization.Summaries[1].Score, 1e-9)
	require.Len(t, msg.Visualization.Chunks, 2)
	assert.InDelta(t, 0.95, msg.Visualization.Chunks[0].Score, 1e-9)

	// Typing closes the bracket.
	env = readEvent(t, conn)
	require.Equal(t, eventTyping, env.Event)
	assert.False(t, decodeData[typingPayload](t, env).Status)
}

// drainQuery reads all events produced by one query.
func drainQuery(t *testing.T, conn *websocket.Conn) {
	t.Helper()
	for i := 0; i < 9; i++ {
		readEvent(t, conn)
	}
}

func TestChatHistoryBounded(t *testing.T) {
	chat, index := defaultStubs()
	conn := newTestConn(t, chat, index)
	readWelcome(t, conn)

	queries := []string{"first", "second", "third", "fourth", "fifth"}
	for _, q := range queries {
		sendEvent(t, conn, eventMessage, messageData{Content: q})
		drainQuery(t, conn)
	}

	sendEvent(t, conn, eventGetChatHistory, nil)
	env := readEvent(t, conn)
	require.Equal(t, eventChatHistory, env.Event)
	payload := decodeData[chatHistoryPayload](t, env)

	require.Len(t, payload.History, domain.MaxHistory)
	assert.Equal(t, "third", payload.History[0].Query)
	assert.Equal(t, "fifth", payload.History[2].Query)

	// Simulated timestamps are oldest first.
	assert.Less(t, payload.History[0].Timestamp, payload.History[1].Timestamp)
	assert.Less(t, payload.History[1].Timestamp, payload.History[2].Timestamp)
}

func TestClearChat(t *testing.T) {
	chat, index := defaultStubs()
	conn := newTestConn(t, chat, index)
	readWelcome(t, conn)

	sendEvent(t, conn, eventMessage, messageData{Content: "a question"})
	drainQuery(t, conn)

	sendEvent(t, conn, eventClearChat, nil)
	env := readEvent(t, conn)
	require.Equal(t, eventChatCleared, env.Event)
	payload := decodeData[chatClearedPayload](t, env)
	assert.Equal(t, "success", payload.Status)
	assert.Equal(t, "Chat history cleared", payload.Message)

	sendEvent(t, conn, eventGetChatHistory, nil)
	env = readEvent(t, conn)
	assert.Empty(t, decodeData[chatHistoryPayload](t, env).History)
}

func TestExportChat(t *testing.T) {
	chat, index := defaultStubs()
	conn := newTestConn(t, chat, index)
	readWelcome(t, conn)

	sendEvent(t, conn, eventMessage, messageData{Content: "a question"})
	drainQuery(t, conn)

	sendEvent(t, conn, eventExportChat, exportData{Format: "markdown"})
	env := readEvent(t, conn)
	require.Equal(t, eventExportResult, env.Event)
	result := decodeData[exportResultPayload](t, env)
	assert.Equal(t, "success", result.Status)
	assert.Equal(t, "markdown", result.Format)
	assert.Contains(t, result.Content, "# Examination Manual Chat Export")
	assert.Contains(t, result.Content, "**User**: a question")
}

func TestExportChatUnsupportedFormat(t *testing.T) {
	chat, index := defaultStubs()
	conn := newTestConn(t, chat, index)
	readWelcome(t, conn)

	sendEvent(t, conn, eventMessage, messageData{Content: "a question"})
	drainQuery(t, conn)

	sendEvent(t, conn, eventExportChat, exportData{Format: "xml"})
	env := readEvent(t, conn)
	result := decodeData[exportResultPayload](t, env)
	assert.Equal(t, "error", result.Status)
	assert.Equal(t, "Unsupported export format: xml", result.Message)
}

func TestUnknownEvent(t *testing.T) {
	chat, index := defaultStubs()
	conn := newTestConn(t, chat, index)
	readWelcome(t, conn)

	sendEvent(t, conn, "subscribe", nil)
	env := readEvent(t, conn)
	require.Equal(t, eventError, env.Event)
	assert.Equal(t, "Unknown event type: subscribe", decodeData[errorPayload](t, env).Message)
}

func TestSessionsDestroyedOnDisconnect(t *testing.T) {
	chat, index := defaultStubs()
	registry := services.NewSessionRegistry()
	srv := NewServer(chat, index, registry, 2)
	ts := httptest.NewServer(srv)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	readWelcome(t, conn)

	assert.Equal(t, 1, registry.Len())
	conn.Close()

	assert.Eventually(t, func() bool {
		return registry.Len() == 0
	}, 2*time.Second, 10*time.Millisecond)
}
