package services

import (
	"sync"
	"time"

	"github.com/campus-labs/examchat/internal/core/domain"
	"github.com/campus-labs/examchat/internal/logger"
)

// Session is one live connection's isolated conversation state. It
// owns its history exclusively; nothing is shared across sessions.
type Session struct {
	id        string
	createdAt time.Time

	mu      sync.Mutex
	history domain.History
}

// ID returns the connection identity this session is keyed by.
func (s *Session) ID() string {
	return s.id
}

// CreatedAt returns the session creation time.
func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

// History returns an independent copy of the conversation history.
func (s *Session) History() domain.History {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Clone()
}

// Append records a completed turn, truncating to the most recent
// domain.MaxHistory turns.
func (s *Session) Append(query, response string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = s.history.Append(query, response)
}

// Clear resets the conversation history.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
}

// SessionRegistry indexes sessions by connection identity with an
// explicit create/destroy lifecycle.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessionRegistry creates an empty registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[string]*Session)}
}

// Create registers a new session with an empty history. An existing
// session under the same id is replaced.
func (r *SessionRegistry) Create(id string) *Session {
	s := &Session{id: id, createdAt: time.Now()}

	r.mu.Lock()
	r.sessions[id] = s
	r.mu.Unlock()

	logger.Info("Session created: %s", id)
	return s
}

// Get returns the session for id, or nil if none exists.
func (r *SessionRegistry) Get(id string) *Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessions[id]
}

// Destroy removes the session and its history immediately.
func (r *SessionRegistry) Destroy(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()

	logger.Info("Session destroyed: %s", id)
}

// Len returns the number of live sessions.
func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
