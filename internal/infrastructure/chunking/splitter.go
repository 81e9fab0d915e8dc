package chunking

import (
	"strings"

	"github.com/ballotline/manifesto-qa/internal/core/domain"
)

// sentenceDelim is a deliberate heuristic: it mishandles abbreviations and
// decimals, but rejoining chunks with it reproduces the source text, which
// downstream formatting relies on.
const sentenceDelim = ". "

// Splitter greedily accumulates sentences until the next one would push the
// buffer past TargetWords. The bound is soft: a single sentence longer than
// TargetWords becomes its own oversized chunk.
type Splitter struct {
	TargetWords int
}

func NewSplitter(targetWords int) *Splitter {
	if targetWords <= 0 {
		targetWords = 500
	}
	return &Splitter{TargetWords: targetWords}
}

func (s *Splitter) Chunk(partyID, partyName, text string) []domain.Chunk {
	sentences := strings.Split(text, sentenceDelim)

	var chunks []domain.Chunk
	current := ""
	for _, sentence := range sentences {
		joined := sentence
		if current != "" {
			joined = current + sentenceDelim + sentence
		}
		if current != "" && len(strings.Fields(joined)) > s.TargetWords {
			chunks = seal(chunks, partyID, partyName, current)
			current = sentence
			continue
		}
		current = joined
	}
	return seal(chunks, partyID, partyName, current)
}

func seal(chunks []domain.Chunk, partyID, partyName, buffer string) []domain.Chunk {
	text := strings.TrimSpace(buffer)
	if text == "" {
		return chunks
	}
	index := len(chunks)
	return append(chunks, domain.Chunk{
		ChunkID:    domain.ChunkID(partyID, index),
		PartyID:    partyID,
		PartyName:  partyName,
		Text:       text,
		ChunkIndex: index,
	})
}
