package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/campus-labs/examchat/internal/core/ports/driving"
	"github.com/campus-labs/examchat/internal/core/services"
	"github.com/campus-labs/examchat/internal/logger"
)

// welcomeText greets every successfully initialised connection.
const welcomeText = "Welcome to the Examination Manual Chatbot!\n\n" +
	"Ask about Bennett University's exam policies.\n" +
	"Examples:\n" +
	"- Re-evaluation fee?\n" +
	"- Grievance process?\n" +
	"- Missing an exam due to medical reasons?\n\n" +
	"What would you like to know?"

// Server upgrades HTTP requests to chat connections. The shared index
// is built lazily on the first connection; per-connection sessions are
// created on upgrade and destroyed on disconnect.
type Server struct {
	upgrader websocket.Upgrader
	chat     driving.ChatService
	index    driving.IndexService
	sessions *services.SessionRegistry
	topK     int
	now      func() time.Time
}

// NewServer creates a chat server.
func NewServer(chat driving.ChatService, index driving.IndexService, sessions *services.SessionRegistry, topK int) *Server {
	if topK <= 0 {
		topK = services.DefaultRetrieveK
	}
	return &Server{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		chat:     chat,
		index:    index,
		sessions: sessions,
		topK:     topK,
		now:      time.Now,
	}
}

// ServeHTTP upgrades the request and runs the connection loop until
// the client disconnects.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("Upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	session := s.sessions.Create(uuid.New().String())
	defer s.sessions.Destroy(session.ID())

	c := &connection{srv: s, conn: conn, session: session}
	c.run(r.Context())
}

// connection is one live client. All reads and writes happen on the
// connection's own goroutine; events are processed strictly in order.
type connection struct {
	srv     *Server
	conn    *websocket.Conn
	session *services.Session
}

// run initialises the shared index, greets the client, and dispatches
// incoming events until the connection drops.
func (c *connection) run(ctx context.Context) {
	if err := c.srv.index.EnsureReady(ctx); err != nil {
		c.sendError(fmt.Sprintf("Error initializing chatbot: %v", err))
		return
	}

	c.sendBot(botMessage{
		Type:      "bot",
		Content:   welcomeText,
		Timestamp: c.timestamp(),
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			logger.Info("Client disconnected: %s", c.session.ID())
			return
		}

		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			c.sendError("Invalid event payload")
			continue
		}

		c.dispatch(ctx, env)
	}
}

// dispatch routes one client event to its handler. The event set is
// closed; anything else is a protocol error.
func (c *connection) dispatch(ctx context.Context, env envelope) {
	switch env.Event {
	case eventMessage:
		var data messageData
		if err := json.Unmarshal(env.Data, &data); err != nil {
			c.sendError("Invalid event payload")
			return
		}
		c.handleMessage(ctx, data.Content)

	case eventGetChatHistory:
		c.handleGetChatHistory()

	case eventClearChat:
		c.handleClearChat()

	case eventExportChat:
		var data exportData
		if err := json.Unmarshal(env.Data, &data); err != nil {
			c.sendError("Invalid event payload")
			return
		}
		c.handleExportChat(data.Format)

	default:
		c.sendError(fmt.Sprintf("Unknown event type: %s", env.Event))
	}
}

// send writes one server event frame.
func (c *connection) send(event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Marshal %s event: %v", event, err)
		return
	}
	if err := c.conn.WriteJSON(envelope{Event: event, Data: data}); err != nil {
		logger.Error("Write %s event: %v", event, err)
	}
}

func (c *connection) sendBot(msg botMessage) {
	c.send(eventMessage, msg)
}

func (c *connection) sendError(message string) {
	c.send(eventError, errorPayload{Message: message})
}

func (c *connection) sendProcessing(status string, progress int, message string) {
	c.send(eventProcessing, processingPayload{
		Status:   status,
		Progress: progress,
		Message:  message,
	})
}

// timestamp returns the current time in Unix seconds.
func (c *connection) timestamp() float64 {
	return float64(c.srv.now().UnixNano()) / float64(time.Second)
}
