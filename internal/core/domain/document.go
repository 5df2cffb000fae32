package domain

// Chunk is a contiguous slice of the extracted manual text, the unit of
// detailed retrieval. Consecutive chunks overlap so that no statement is
// lost at a boundary. Immutable after creation.
type Chunk struct {
	// ID is the globally unique identifier, generated at creation.
	// Summaries carry the same ID as their owning chunk.
	ID string

	// Index is the ordinal position in the split sequence.
	Index int

	// Text is the full chunk text. Never truncated in storage.
	Text string
}

// Summary is a short abstractive digest of exactly one chunk, the unit
// of first-pass retrieval. Its ChunkID always resolves to the owning
// chunk in the chunk collection; this join key is what makes the
// two-stage hierarchy work.
type Summary struct {
	// ChunkID is the ID of the owning chunk.
	ChunkID string

	// Index is the owning chunk's position in the split sequence.
	Index int

	// Text is the 2-3 sentence summary, or the sentinel
	// "Summary unavailable." when summarisation failed for the chunk.
	Text string
}

// ChunkMeta is the metadata stored alongside every indexed entry and
// echoed back with retrieval results.
type ChunkMeta struct {
	ChunkID string `json:"chunk_id"`
	Index   int    `json:"index"`
}

// RetrievedDoc is a chunk fetched for one query. Transient; never
// persisted.
type RetrievedDoc struct {
	Text     string    `json:"text"`
	Metadata ChunkMeta `json:"metadata"`
}
