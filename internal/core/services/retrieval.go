package services

import (
	"context"

	"github.com/campus-labs/examchat/internal/core/domain"
	"github.com/campus-labs/examchat/internal/core/ports/driven"
	"github.com/campus-labs/examchat/internal/logger"
)

// DefaultRetrieveK is the number of chunks fetched per query.
const DefaultRetrieveK = 2

// Retriever implements hierarchical retrieval: a similarity search
// over the cheap, semantically dense summaries picks candidate
// chunk_ids, and the full chunks are then fetched by exact id. The
// chunk collection is never searched by similarity - that indirection
// is the defining property of the engine.
type Retriever struct {
	store    driven.IndexStore
	embedder driven.EmbeddingService
}

// NewRetriever creates a hierarchical retriever.
func NewRetriever(store driven.IndexStore, embedder driven.EmbeddingService) *Retriever {
	return &Retriever{store: store, embedder: embedder}
}

// Retrieve returns up to k chunks relevant to the query. Any failure
// during either stage degrades to an empty result: a failed retrieval
// means "no context" for the generator, never a crashed session.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) []domain.RetrievedDoc {
	logger.Section("Hierarchical Retrieval")
	logger.Debug("Query: %q, k=%d", query, k)

	if r.store == nil || r.embedder == nil {
		logger.Warn("Retrieval unavailable: store or embedder not configured")
		return nil
	}
	if k <= 0 {
		k = DefaultRetrieveK
	}

	vec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		logger.Error("Query embedding failed: %v", err)
		return nil
	}

	// Over-fetch 2k summaries to compensate for the indirection
	// through the chunk_id join.
	hits, err := r.store.Summaries().SimilaritySearch(ctx, vec, k*2)
	if err != nil {
		logger.Error("Summary search failed: %v", err)
		return nil
	}
	logger.Debug("Retrieved %d summaries", len(hits))

	ids := make([]string, 0, len(hits))
	seen := make(map[string]bool, len(hits))
	for _, hit := range hits {
		id := hit.Entry.Meta.ChunkID
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		logger.Warn("No relevant summaries found")
		return nil
	}

	entries, err := r.store.Chunks().GetByChunkIDs(ctx, ids)
	if err != nil {
		logger.Error("Chunk fetch failed: %v", err)
		return nil
	}
	logger.Debug("Fetched %d detailed chunks", len(entries))

	if len(entries) > k {
		entries = entries[:k]
	}

	docs := make([]domain.RetrievedDoc, len(entries))
	for i, e := range entries {
		docs[i] = domain.RetrievedDoc{Text: e.Text, Metadata: e.Meta}
	}
	return docs
}
