package chunker

import (
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		c := New()
		if c.chunkSize != DefaultChunkSize {
			t.Errorf("expected chunkSize %d, got %d", DefaultChunkSize, c.chunkSize)
		}
		if c.overlap != DefaultChunkOverlap {
			t.Errorf("expected overlap %d, got %d", DefaultChunkOverlap, c.overlap)
		}
	})

	t.Run("custom chunk size", func(t *testing.T) {
		c := New(WithChunkSize(500))
		if c.chunkSize != 500 {
			t.Errorf("expected chunkSize 500, got %d", c.chunkSize)
		}
	})

	t.Run("overlap exceeds chunk size", func(t *testing.T) {
		c := New(WithChunkSize(100), WithOverlap(150))
		if c.overlap >= c.chunkSize {
			t.Error("overlap should be reduced when it exceeds chunk size")
		}
	})

	t.Run("zero values ignored", func(t *testing.T) {
		c := New(WithChunkSize(0), WithOverlap(-1))
		if c.chunkSize != DefaultChunkSize {
			t.Errorf("expected default chunkSize, got %d", c.chunkSize)
		}
		if c.overlap != DefaultChunkOverlap {
			t.Errorf("expected default overlap, got %d", c.overlap)
		}
	})
}

func TestSplit_Empty(t *testing.T) {
	c := New()
	if chunks := c.Split(""); len(chunks) != 0 {
		t.Errorf("expected 0 chunks for empty text, got %d", len(chunks))
	}
}

func TestSplit_SmallText(t *testing.T) {
	c := New(WithChunkSize(100), WithOverlap(20))
	chunks := c.Split("short text")

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Text != "short text" {
		t.Errorf("chunk text mismatch: %q", chunks[0].Text)
	}
	if chunks[0].Index != 0 {
		t.Errorf("expected index 0, got %d", chunks[0].Index)
	}
	if chunks[0].ID == "" {
		t.Error("chunk ID should be generated")
	}
}

func TestSplit_Overlap(t *testing.T) {
	c := New(WithChunkSize(10), WithOverlap(4))
	text := "abcdefghijklmnopqrstuvwxyz"
	chunks := c.Split(text)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	for i := 1; i < len(chunks); i++ {
		prev := chunks[i-1].Text
		tail := prev[len(prev)-4:]
		if !strings.HasPrefix(chunks[i].Text, tail) {
			t.Errorf("chunk %d does not start with previous chunk's tail: %q vs %q",
				i, chunks[i].Text, tail)
		}
	}
}

// Every character of the input must appear in at least one chunk.
func TestSplit_TotalCoverage(t *testing.T) {
	c := New(WithChunkSize(50), WithOverlap(10))
	text := strings.Repeat("the quick brown fox jumps over the lazy dog. ", 20)
	chunks := c.Split(text)

	covered := 0
	for _, ch := range chunks {
		if ch.Index == 0 {
			covered = len(ch.Text)
			continue
		}
		covered += len(ch.Text) - c.Overlap()
	}
	if covered < len(text) {
		t.Errorf("chunks cover %d of %d characters", covered, len(text))
	}

	var rebuilt strings.Builder
	for i, ch := range chunks {
		if i == 0 {
			rebuilt.WriteString(ch.Text)
			continue
		}
		rebuilt.WriteString(ch.Text[c.Overlap():])
	}
	if rebuilt.String() != text {
		t.Error("concatenating chunks minus overlap should rebuild the input")
	}
}

func TestSplit_UniqueIDs(t *testing.T) {
	c := New(WithChunkSize(10), WithOverlap(2))
	chunks := c.Split(strings.Repeat("x", 100))

	seen := make(map[string]bool)
	for _, ch := range chunks {
		if seen[ch.ID] {
			t.Fatalf("duplicate chunk ID %s", ch.ID)
		}
		seen[ch.ID] = true
	}
}

func TestSplit_SequentialIndexes(t *testing.T) {
	c := New(WithChunkSize(10), WithOverlap(2))
	chunks := c.Split(strings.Repeat("y", 75))

	for i, ch := range chunks {
		if ch.Index != i {
			t.Errorf("chunk %d has index %d", i, ch.Index)
		}
	}
}
