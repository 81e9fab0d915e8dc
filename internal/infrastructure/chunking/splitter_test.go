package chunking

import (
	"fmt"
	"strings"
	"testing"
)

func TestChunkEmptyInputProducesNoChunks(t *testing.T) {
	s := NewSplitter(500)
	if got := s.Chunk("p1", "Party One", ""); len(got) != 0 {
		t.Fatalf("expected zero chunks, got %d", len(got))
	}
	if got := s.Chunk("p1", "Party One", "   \n  "); len(got) != 0 {
		t.Fatalf("expected zero chunks for whitespace input, got %d", len(got))
	}
}

func TestChunkSingleSentenceUnderLimit(t *testing.T) {
	s := NewSplitter(500)
	input := "  Party will build roads  "

	got := s.Chunk("p1", "Party One", input)
	if len(got) != 1 {
		t.Fatalf("expected one chunk, got %d", len(got))
	}
	if got[0].Text != strings.TrimSpace(input) {
		t.Fatalf("expected trimmed input, got %q", got[0].Text)
	}
	if got[0].ChunkIndex != 0 {
		t.Fatalf("expected chunk index 0, got %d", got[0].ChunkIndex)
	}
	if got[0].ChunkID != "p1_chunk_0" {
		t.Fatalf("expected derived chunk id, got %q", got[0].ChunkID)
	}
}

func TestChunkPreservesSentenceSeparators(t *testing.T) {
	s := NewSplitter(500)
	input := "Party will build roads. Party will fund schools. Party will lower taxes."

	got := s.Chunk("p1", "Party One", input)
	if len(got) != 1 {
		t.Fatalf("expected one chunk, got %d", len(got))
	}
	if got[0].Text != input {
		t.Fatalf("expected separators preserved, got %q", got[0].Text)
	}
}

func TestChunkSplitsAtSoftWordBound(t *testing.T) {
	s := NewSplitter(6)
	input := "one two three four five. six seven eight. nine ten"

	got := s.Chunk("p1", "Party One", input)
	if len(got) != 2 {
		t.Fatalf("expected two chunks, got %d", len(got))
	}
	if got[0].Text != "one two three four five" {
		t.Fatalf("unexpected first chunk %q", got[0].Text)
	}
	if got[1].Text != "six seven eight. nine ten" {
		t.Fatalf("unexpected second chunk %q", got[1].Text)
	}
}

func TestChunkOversizedSentenceIsNeverSplit(t *testing.T) {
	s := NewSplitter(3)
	long := strings.Repeat("word ", 20)
	input := "short lead. " + strings.TrimSpace(long)

	got := s.Chunk("p1", "Party One", input)
	if len(got) != 2 {
		t.Fatalf("expected two chunks, got %d", len(got))
	}
	if wordCount := len(strings.Fields(got[1].Text)); wordCount != 20 {
		t.Fatalf("expected oversized sentence kept whole, got %d words", wordCount)
	}
}

func TestChunkIndexesAreContiguous(t *testing.T) {
	s := NewSplitter(4)
	var b strings.Builder
	for i := 0; i < 40; i++ {
		fmt.Fprintf(&b, "sentence number %d goes here. ", i)
	}

	got := s.Chunk("p1", "Party One", b.String())
	if len(got) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(got))
	}
	for i, chunk := range got {
		if chunk.ChunkIndex != i {
			t.Fatalf("expected index %d, got %d", i, chunk.ChunkIndex)
		}
		if chunk.Text == "" {
			t.Fatalf("chunk %d has empty text", i)
		}
	}
}

func TestChunkRoundTripModuloBoundaryTrim(t *testing.T) {
	s := NewSplitter(5)
	input := "alpha beta gamma delta. epsilon zeta eta theta. iota kappa lambda mu. nu xi omicron pi"

	got := s.Chunk("p1", "Party One", input)
	parts := make([]string, 0, len(got))
	for _, chunk := range got {
		parts = append(parts, chunk.Text)
	}
	if rejoined := strings.Join(parts, sentenceDelim); rejoined != input {
		t.Fatalf("round trip mismatch:\n got %q\nwant %q", rejoined, input)
	}
}
