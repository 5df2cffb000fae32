package driven

import (
	"context"

	"github.com/campus-labs/examchat/internal/core/domain"
)

// IndexEntry is an embedded text plus its chunk metadata, as stored in
// a vector collection.
type IndexEntry struct {
	// Text is the summary or chunk payload.
	Text string

	// Embedding is the vector representation of Text.
	Embedding []float32

	// Meta carries the chunk_id join key and chunk index.
	Meta domain.ChunkMeta
}

// SearchHit is one similarity search result.
type SearchHit struct {
	Entry IndexEntry

	// Similarity is the cosine similarity score (higher is closer).
	Similarity float64
}

// VectorCollection is one similarity-searchable, persisted collection
// of index entries.
type VectorCollection interface {
	// Add inserts entries into the collection.
	Add(ctx context.Context, entries []IndexEntry) error

	// SimilaritySearch returns the k nearest entries to the query
	// vector by cosine similarity, best first.
	SimilaritySearch(ctx context.Context, query []float32, k int) ([]SearchHit, error)

	// GetByChunkIDs returns entries whose chunk_id is in ids. This is
	// an exact membership lookup, not a similarity search.
	GetByChunkIDs(ctx context.Context, ids []string) ([]IndexEntry, error)

	// Count returns the number of entries in the collection.
	Count(ctx context.Context) (int, error)
}

// IndexStore owns the two persisted collections that make up the
// hierarchical index. It is the single source of truth for ingested
// knowledge and is shared process-wide across all sessions.
type IndexStore interface {
	// Summaries is the first-pass collection searched by similarity.
	Summaries() VectorCollection

	// Chunks is the detail collection fetched by exact chunk_id.
	Chunks() VectorCollection

	// Reset clears both collections before a rebuild.
	Reset(ctx context.Context) error

	// Close releases resources.
	Close() error
}
