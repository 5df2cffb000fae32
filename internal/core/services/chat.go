package services

import (
	"context"

	"github.com/campus-labs/examchat/internal/core/domain"
	"github.com/campus-labs/examchat/internal/core/ports/driving"
)

// Ensure Chat implements the interface.
var _ driving.ChatService = (*Chat)(nil)

// Chat bundles the retriever and responder behind the driving port.
// Generation strictly follows retrieval; the two stages never overlap
// for one query.
type Chat struct {
	retriever *Retriever
	responder *Responder
}

// NewChat creates the chat service.
func NewChat(retriever *Retriever, responder *Responder) *Chat {
	return &Chat{retriever: retriever, responder: responder}
}

// Retrieve performs hierarchical retrieval.
func (c *Chat) Retrieve(ctx context.Context, query string, k int) []domain.RetrievedDoc {
	return c.retriever.Retrieve(ctx, query, k)
}

// Respond generates a grounded answer.
func (c *Chat) Respond(ctx context.Context, query string, docs []domain.RetrievedDoc, history domain.History) string {
	return c.responder.Respond(ctx, query, docs, history)
}
