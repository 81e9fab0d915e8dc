package usecase

import (
	"fmt"
	"strings"

	"github.com/ballotline/manifesto-qa/internal/core/domain"
)

// maxContextChunks bounds how many retrieved chunks are stitched into the
// prompt. Chunks arrive already ranked; the first entries are the most
// relevant.
const maxContextChunks = 3

// assembleContext renders the top chunks into the prompt's context block and
// collects the matching source labels, one per chunk, in ranking order.
func assembleContext(chunks []domain.RelevantChunk) (contextBlock string, sources []string) {
	if len(chunks) > maxContextChunks {
		chunks = chunks[:maxContextChunks]
	}

	var b strings.Builder
	sources = make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		b.WriteString(fmt.Sprintf("Party: %s\n", chunk.PartyName))
		b.WriteString(fmt.Sprintf("Content: %s\n\n", chunk.Text))
		sources = append(sources, fmt.Sprintf("%s (Manifesto)", chunk.PartyName))
	}
	return b.String(), sources
}
