package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/campus-labs/examchat/internal/core/ports/driven"
)

// fakeRenderer serves fixed per-page text and images.
type fakeRenderer struct {
	texts  []string
	images [][][]byte
	err    error
}

func (f *fakeRenderer) PageCount() int { return len(f.texts) }

func (f *fakeRenderer) PageText(page int) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.texts[page], nil
}

func (f *fakeRenderer) PageImages(page int) ([][]byte, error) {
	if f.images == nil {
		return nil, nil
	}
	return f.images[page], nil
}

func (f *fakeRenderer) Outline() ([]driven.OutlineItem, error) { return nil, nil }
func (f *fakeRenderer) Close() error                           { return nil }

// fakeOCR maps image bytes to recognised text.
type fakeOCR struct {
	results map[string]string
	err     error
}

func (f *fakeOCR) Recognize(_ context.Context, image []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.results[string(image)], nil
}

func (f *fakeOCR) Close() error { return nil }

// fakeLLM returns canned responses and records prompts.
type fakeLLM struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeLLM) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeLLM) ModelName() string              { return "fake-llm" }
func (f *fakeLLM) Ping(_ context.Context) error   { return nil }
func (f *fakeLLM) Close() error                   { return nil }

// fakeEmbedder produces deterministic vectors and counts calls.
type fakeEmbedder struct {
	embedCalls int
	batchCalls int
	err        error
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.embedCalls++
	if f.err != nil {
		return nil, f.err
	}
	return []float32{float32(len(text)), 1, 0}, nil
}

func (f *fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	f.batchCalls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = []float32{float32(len(t)), 1, 0}
	}
	return out, nil
}

func (f *fakeEmbedder) Dimensions() int             { return 3 }
func (f *fakeEmbedder) ModelName() string           { return "fake-embed" }
func (f *fakeEmbedder) Ping(_ context.Context) error { return nil }
func (f *fakeEmbedder) Close() error                 { return nil }

// fakeCollection is an in-memory vector collection that records the k
// passed to similarity searches.
type fakeCollection struct {
	entries   []driven.IndexEntry
	lastK     int
	searchErr error
	getErr    error
	countErr  error
}

func (f *fakeCollection) Add(_ context.Context, entries []driven.IndexEntry) error {
	f.entries = append(f.entries, entries...)
	return nil
}

func (f *fakeCollection) SimilaritySearch(_ context.Context, _ []float32, k int) ([]driven.SearchHit, error) {
	f.lastK = k
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	n := k
	if n > len(f.entries) {
		n = len(f.entries)
	}
	hits := make([]driven.SearchHit, n)
	for i := 0; i < n; i++ {
		hits[i] = driven.SearchHit{Entry: f.entries[i], Similarity: 1 - float64(i)*0.01}
	}
	return hits, nil
}

func (f *fakeCollection) GetByChunkIDs(_ context.Context, ids []string) ([]driven.IndexEntry, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []driven.IndexEntry
	for _, e := range f.entries {
		if want[e.Meta.ChunkID] {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Meta.Index < out[j].Meta.Index })
	return out, nil
}

func (f *fakeCollection) Count(_ context.Context) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return len(f.entries), nil
}

// fakeStore holds two fake collections.
type fakeStore struct {
	summaries *fakeCollection
	chunks    *fakeCollection
	resets    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{summaries: &fakeCollection{}, chunks: &fakeCollection{}}
}

func (f *fakeStore) Summaries() driven.VectorCollection { return f.summaries }
func (f *fakeStore) Chunks() driven.VectorCollection    { return f.chunks }

func (f *fakeStore) Reset(_ context.Context) error {
	f.resets++
	f.summaries.entries = nil
	f.chunks.entries = nil
	return nil
}

func (f *fakeStore) Close() error { return nil }

var errBoom = errors.New("boom")

// pageText is a helper for building multi-page fixtures.
func pageText(page int) string {
	return fmt.Sprintf("page %d text", page)
}
