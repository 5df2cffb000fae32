package domain

// MaxHistory is the number of past exchanges retained for context.
const MaxHistory = 3

// Turn is one query/response pair within a session's history.
type Turn struct {
	Query    string
	Response string
}

// History is the ordered conversation history of a single session,
// oldest first. A History is owned by exactly one session and is never
// shared across sessions.
type History []Turn

// Append adds a turn and truncates to the most recent MaxHistory turns.
func (h History) Append(query, response string) History {
	h = append(h, Turn{Query: query, Response: response})
	if len(h) > MaxHistory {
		h = h[len(h)-MaxHistory:]
	}
	return h
}

// Clone returns an independent copy. Handlers pass clones to the
// responder so in-flight generation never observes a mutated history.
func (h History) Clone() History {
	if len(h) == 0 {
		return nil
	}
	out := make(History, len(h))
	copy(out, h)
	return out
}
