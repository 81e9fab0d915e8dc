// Package lexical implements keyword-overlap retrieval over stored chunks.
// It needs no embedding service and is the graceful-degradation path when
// the semantic backend is unreachable.
package lexical

import (
	"math"
	"sort"
	"strings"

	"github.com/ballotline/manifesto-qa/internal/core/domain"
)

// Index scores a chunk as the sum of substring occurrence counts of each
// query word, plus PhraseBonus when the whole query appears verbatim.
// ScoreDivisor normalizes raw scores into a 0..1 similarity for presentation
// alongside the semantic path. Both constants are inherited tuning values
// with no derivation beyond observed behavior.
type Index struct {
	PhraseBonus  int
	ScoreDivisor float64
}

func NewIndex(phraseBonus int, scoreDivisor float64) *Index {
	if phraseBonus < 0 {
		phraseBonus = 5
	}
	if scoreDivisor <= 0 {
		scoreDivisor = 10
	}
	return &Index{PhraseBonus: phraseBonus, ScoreDivisor: scoreDivisor}
}

// ScoredChunk pairs a chunk's text with its raw lexical score.
type ScoredChunk struct {
	Text  string
	Score int
}

// Search scores the given chunks against the query. Zero-score chunks are
// excluded; the result is sorted by score descending, stable on ties so
// encounter order survives.
func (ix *Index) Search(chunks []domain.Chunk, query string) []ScoredChunk {
	q := strings.ToLower(query)
	words := strings.Fields(q)
	if len(words) == 0 {
		return nil
	}

	out := make([]ScoredChunk, 0, len(chunks))
	for _, chunk := range chunks {
		score := ix.score(strings.ToLower(chunk.Text), q, words)
		if score == 0 {
			continue
		}
		out = append(out, ScoredChunk{Text: chunk.Text, Score: score})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

// SearchAll scores every chunk of every manifesto, optionally restricted to
// one party, and returns the top topK as RelevantChunks with normalized
// similarity. Ranking uses the raw score so ordering is not lost to the
// similarity cap.
func (ix *Index) SearchAll(manifestos []domain.Manifesto, query string, filter domain.SearchFilter, topK int) []domain.RelevantChunk {
	q := strings.ToLower(query)
	words := strings.Fields(q)
	if len(words) == 0 {
		return nil
	}

	type candidate struct {
		chunk domain.Chunk
		score int
	}
	var candidates []candidate
	for _, m := range manifestos {
		if filter.PartyID != "" && m.PartyID != filter.PartyID {
			continue
		}
		for _, chunk := range m.Chunks {
			score := ix.score(strings.ToLower(chunk.Text), q, words)
			if score == 0 {
				continue
			}
			candidates = append(candidates, candidate{chunk: chunk, score: score})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	if topK > 0 && len(candidates) > topK {
		candidates = candidates[:topK]
	}

	out := make([]domain.RelevantChunk, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, domain.RelevantChunk{
			Text:       c.chunk.Text,
			PartyID:    c.chunk.PartyID,
			PartyName:  c.chunk.PartyName,
			ChunkIndex: c.chunk.ChunkIndex,
			Similarity: ix.normalize(c.score),
		})
	}
	return out
}

func (ix *Index) score(textLower, queryLower string, queryWords []string) int {
	score := 0
	for _, word := range queryWords {
		score += strings.Count(textLower, word)
	}
	if score > 0 && strings.Contains(textLower, queryLower) {
		score += ix.PhraseBonus
	}
	return score
}

func (ix *Index) normalize(score int) float64 {
	return math.Min(float64(score)/ix.ScoreDivisor, 1.0)
}
