package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/campus-labs/examchat/internal/chunker"
	"github.com/campus-labs/examchat/internal/core/domain"
	"github.com/campus-labs/examchat/internal/core/ports/driven"
	"github.com/campus-labs/examchat/internal/logger"
)

// summaryInputLimit caps the text sent to the summarisation call.
// The stored chunk keeps its full text; only the prompt is truncated.
const summaryInputLimit = 4000

// SummaryUnavailable is the sentinel summary recorded when
// summarisation fails for a single chunk.
const SummaryUnavailable = "Summary unavailable."

const summaryPromptTemplate = "Summarize the following text in 2-3 sentences, capturing key points:\n\n%s\n\nSummary:"

// ChunkSummary pairs a chunk with its summary. Both carry the same
// freshly generated chunk ID.
type ChunkSummary struct {
	Chunk   domain.Chunk
	Summary domain.Summary
}

// Ingestor builds the dual index store from the source document:
// extraction, chunking, per-chunk summarisation, and embedding of both
// collections. Ingestion cost is paid at most once per persisted
// store; LoadOrBuild reuses existing non-empty collections.
type Ingestor struct {
	extractor *Extractor
	splitter  *chunker.Chunker
	llm       driven.LLMService
	embedder  driven.EmbeddingService
	store     driven.IndexStore
}

// NewIngestor creates an ingestor. The LLM service may be nil, in
// which case every chunk gets the sentinel summary.
func NewIngestor(
	extractor *Extractor,
	splitter *chunker.Chunker,
	llm driven.LLMService,
	embedder driven.EmbeddingService,
	store driven.IndexStore,
) *Ingestor {
	return &Ingestor{
		extractor: extractor,
		splitter:  splitter,
		llm:       llm,
		embedder:  embedder,
		store:     store,
	}
}

// LoadOrBuild reuses the persisted collections when both are non-empty
// and otherwise performs full ingestion. An extraction failure leaves
// the store empty without error: queries against it return no results
// rather than crashing sessions. Embedding or storage failures are
// returned so the caller can retry the build later.
func (g *Ingestor) LoadOrBuild(ctx context.Context) error {
	logger.Section("Index Load")

	summaryCount, chunkCount, err := g.counts(ctx)
	if err == nil && summaryCount > 0 && chunkCount > 0 {
		logger.Info("Loaded existing index: %d summaries, %d chunks", summaryCount, chunkCount)
		return nil
	}
	if err != nil {
		logger.Warn("Failed to load existing index: %v, rebuilding", err)
	} else {
		logger.Info("Index missing or empty, building")
	}

	return g.Build(ctx)
}

// Build performs full ingestion, replacing any existing entries.
func (g *Ingestor) Build(ctx context.Context) error {
	logger.Section("Ingestion")

	if g.embedder == nil {
		return domain.ErrEmbeddingUnavailable
	}

	if err := g.store.Reset(ctx); err != nil {
		return fmt.Errorf("reset store: %w", err)
	}

	text := g.extractor.Extract(ctx)
	if text == "" {
		// Extraction failed. The store stays empty and every query
		// degrades to "no results".
		logger.Warn("No text extracted, leaving index empty")
		return nil
	}

	pairs := g.ChunkAndSummarize(ctx, text)
	logger.Info("Created %d chunks (size=%d, overlap=%d)",
		len(pairs), g.splitter.ChunkSize(), g.splitter.Overlap())
	if len(pairs) == 0 {
		return nil
	}

	summaryTexts := make([]string, len(pairs))
	chunkTexts := make([]string, len(pairs))
	for i, p := range pairs {
		summaryTexts[i] = p.Summary.Text
		chunkTexts[i] = p.Chunk.Text
	}

	summaryVecs, err := g.embedder.EmbedBatch(ctx, summaryTexts)
	if err != nil {
		return fmt.Errorf("embed summaries: %w", err)
	}
	chunkVecs, err := g.embedder.EmbedBatch(ctx, chunkTexts)
	if err != nil {
		return fmt.Errorf("embed chunks: %w", err)
	}

	summaryEntries := make([]driven.IndexEntry, len(pairs))
	chunkEntries := make([]driven.IndexEntry, len(pairs))
	for i, p := range pairs {
		meta := domain.ChunkMeta{ChunkID: p.Chunk.ID, Index: p.Chunk.Index}
		summaryEntries[i] = driven.IndexEntry{Text: p.Summary.Text, Embedding: summaryVecs[i], Meta: meta}
		chunkEntries[i] = driven.IndexEntry{Text: p.Chunk.Text, Embedding: chunkVecs[i], Meta: meta}
	}

	if err := g.store.Summaries().Add(ctx, summaryEntries); err != nil {
		return fmt.Errorf("store summaries: %w", err)
	}
	if err := g.store.Chunks().Add(ctx, chunkEntries); err != nil {
		return fmt.Errorf("store chunks: %w", err)
	}

	logger.Info("Stored %d summaries and %d chunks", len(pairs), len(pairs))
	return nil
}

// ChunkAndSummarize splits text into overlapping chunks and generates
// one short summary per chunk. A summarisation failure is isolated to
// its chunk: that chunk gets the sentinel summary rather than aborting
// the batch.
func (g *Ingestor) ChunkAndSummarize(ctx context.Context, text string) []ChunkSummary {
	chunks := g.splitter.Split(text)

	pairs := make([]ChunkSummary, len(chunks))
	for i, ch := range chunks {
		pairs[i] = ChunkSummary{
			Chunk: ch,
			Summary: domain.Summary{
				ChunkID: ch.ID,
				Index:   ch.Index,
				Text:    g.summarize(ctx, ch),
			},
		}
	}
	return pairs
}

// summarize generates a 2-3 sentence summary for one chunk.
func (g *Ingestor) summarize(ctx context.Context, ch domain.Chunk) string {
	if g.llm == nil {
		return SummaryUnavailable
	}

	input := ch.Text
	if len(input) > summaryInputLimit {
		input = input[:summaryInputLimit]
	}

	logger.Debug("Generating summary for chunk %d", ch.Index)
	summary, err := g.llm.Generate(ctx, fmt.Sprintf(summaryPromptTemplate, input), driven.GenerateOptions{
		MaxTokens:   200,
		Temperature: 0.2,
	})
	if err != nil {
		logger.Error("Summary generation failed for chunk %d: %v", ch.Index, err)
		return SummaryUnavailable
	}

	summary = strings.TrimSpace(summary)
	if summary == "" {
		return SummaryUnavailable
	}
	return summary
}

// counts reads both collection sizes.
func (g *Ingestor) counts(ctx context.Context) (summaries, chunks int, err error) {
	summaries, err = g.store.Summaries().Count(ctx)
	if err != nil {
		return 0, 0, err
	}
	chunks, err = g.store.Chunks().Count(ctx)
	if err != nil {
		return 0, 0, err
	}
	return summaries, chunks, nil
}
