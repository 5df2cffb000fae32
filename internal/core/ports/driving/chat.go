// Package driving provides interfaces for use-case entry points (primary/inbound ports).
package driving

import (
	"context"

	"github.com/campus-labs/examchat/internal/core/domain"
)

// ChatService answers natural-language questions against the indexed
// manual. Both operations recover collaborator failures internally and
// degrade to valid results: a failed retrieval yields no documents, a
// failed generation yields a fixed apology. Neither returns an error
// to the caller.
type ChatService interface {
	// Retrieve performs hierarchical retrieval: similarity search over
	// summaries, then exact chunk_id join to full chunks. Returns at
	// most k documents; empty when nothing relevant was found or
	// retrieval failed.
	Retrieve(ctx context.Context, query string, k int) []domain.RetrievedDoc

	// Respond generates a grounded answer from the retrieved documents
	// and the bounded conversation history.
	Respond(ctx context.Context, query string, docs []domain.RetrievedDoc, history domain.History) string
}

// IndexService manages the process-wide index store lifecycle.
type IndexService interface {
	// EnsureReady builds the index exactly once across all sessions.
	// Concurrent callers block until the first build completes; a
	// failed build is retried by the next caller.
	EnsureReady(ctx context.Context) error

	// Counts reports the number of persisted summaries and chunks.
	Counts(ctx context.Context) (summaries, chunks int, err error)
}
