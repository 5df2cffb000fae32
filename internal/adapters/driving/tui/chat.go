// Package tui provides a terminal chat client for the WebSocket server.
package tui

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gorilla/websocket"
)

var (
	botStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	userStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// wsEvent mirrors the server's tagged frame format.
type wsEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// serverMsg delivers one decoded frame into the bubbletea loop.
type serverMsg wsEvent

// disconnectMsg signals the read pump ended.
type disconnectMsg struct{ err error }

// Model is the chat client UI state.
type Model struct {
	viewport viewport.Model
	input    textinput.Model

	conn   *websocket.Conn
	events chan tea.Msg

	lines  []string
	status string
	ready  bool
}

// NewModel creates a chat model over an established connection.
func NewModel(conn *websocket.Conn) Model {
	ti := textinput.New()
	ti.Placeholder = "Ask about the examination manual..."
	ti.Focus()
	ti.CharLimit = 500

	m := Model{
		viewport: viewport.New(80, 20),
		input:    ti,
		conn:     conn,
		events:   make(chan tea.Msg, 16),
	}

	if conn != nil {
		go m.readPump()
	}
	return m
}

// readPump decodes incoming frames into the event channel.
func (m Model) readPump() {
	for {
		_, raw, err := m.conn.ReadMessage()
		if err != nil {
			m.events <- disconnectMsg{err: err}
			return
		}
		var ev wsEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			continue
		}
		m.events <- serverMsg(ev)
	}
}

// waitForEvent returns a command that blocks for the next server event.
func (m Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		return <-m.events
	}
}

// Init starts listening for server events.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForEvent())
}

// Update handles terminal and server events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			return m.submit()
		}

	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - 4
		m.refresh()

	case serverMsg:
		m.handleServer(wsEvent(msg))
		return m, m.waitForEvent()

	case disconnectMsg:
		m.status = "disconnected"
		m.appendLine(errorStyle.Render("Connection closed."))
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit sends the typed query to the server.
func (m Model) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" || m.conn == nil {
		return m, nil
	}

	m.appendLine(userStyle.Render("You: ") + text)
	m.input.Reset()

	data, _ := json.Marshal(map[string]string{"content": text})
	frame := wsEvent{Event: "message", Data: data}
	if err := m.conn.WriteJSON(frame); err != nil {
		m.appendLine(errorStyle.Render(fmt.Sprintf("Send failed: %v", err)))
	}
	return m, nil
}

// handleServer folds one server event into the transcript.
func (m *Model) handleServer(ev wsEvent) {
	switch ev.Event {
	case "message":
		var payload struct {
			Content string `json:"content"`
		}
		if json.Unmarshal(ev.Data, &payload) == nil {
			m.appendLine(botStyle.Render("Bot: ") + payload.Content)
			m.status = ""
			m.ready = true
		}

	case "typing":
		var payload struct {
			Status bool `json:"status"`
		}
		if json.Unmarshal(ev.Data, &payload) == nil {
			if payload.Status {
				m.status = "typing..."
			} else {
				m.status = ""
			}
		}

	case "processing":
		var payload struct {
			Status   string `json:"status"`
			Progress int    `json:"progress"`
			Message  string `json:"message"`
		}
		if json.Unmarshal(ev.Data, &payload) == nil {
			m.status = fmt.Sprintf("%s %d%%", payload.Status, payload.Progress)
			if payload.Message != "" {
				m.status += " " + payload.Message
			}
		}

	case "error":
		var payload struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(ev.Data, &payload) == nil {
			m.appendLine(errorStyle.Render("Error: " + payload.Message))
			m.status = ""
		}
	}
}

// appendLine adds a transcript line and scrolls to the bottom.
func (m *Model) appendLine(line string) {
	m.lines = append(m.lines, line, "")
	m.refresh()
}

func (m *Model) refresh() {
	m.viewport.SetContent(strings.Join(m.lines, "\n"))
	m.viewport.GotoBottom()
}

// View renders the transcript, status line, and input.
func (m Model) View() string {
	status := " "
	if m.status != "" {
		status = statusStyle.Render(m.status)
	}
	return m.viewport.View() + "\n" + status + "\n" + m.input.View() + "\n"
}

// Run connects to the server at url and runs the chat UI until exit.
func Run(url string) error {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", url, err)
	}
	defer conn.Close()

	p := tea.NewProgram(NewModel(conn), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running chat UI: %w", err)
	}
	return nil
}
