package usecase

import (
	"fmt"
	"strings"

	"github.com/ballotline/manifesto-qa/internal/core/domain"
)

const (
	fallbackMaxChunks    = 2
	fallbackMaxSentences = 2
	fallbackExcerptChars = 400
)

// policySignalWords mark sentences worth quoting when the generator is down.
var policySignalWords = []string{"policy", "will", "ensure", "provide", "implement", "strengthen"}

// boilerplateTokens are stripped before excerpting; scanned manifestos often
// leak their table-of-contents headers into the first chunks.
var boilerplateTokens = []string{"CONTENTS", "TABLE OF"}

// buildExtractiveFallback synthesizes an answer from the retrieved chunks
// alone. It is fully deterministic and never touches the network: the same
// chunks always produce the same text.
func buildExtractiveFallback(question string, chunks []domain.RelevantChunk) string {
	if len(chunks) > fallbackMaxChunks {
		chunks = chunks[:fallbackMaxChunks]
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Based on the manifesto content about '%s':\n\n", question))

	for _, chunk := range chunks {
		clean := stripBoilerplate(chunk.Text)
		excerpt := extractPolicySentences(clean)
		if excerpt == "" {
			excerpt = firstChars(clean, fallbackExcerptChars)
		}
		b.WriteString(fmt.Sprintf("**%s**: %s\n\n", chunk.PartyName, excerpt))
	}
	return strings.TrimRight(b.String(), "\n")
}

func stripBoilerplate(text string) string {
	for _, token := range boilerplateTokens {
		text = strings.ReplaceAll(text, token, "")
	}
	return strings.TrimSpace(text)
}

func extractPolicySentences(text string) string {
	sentences := strings.Split(text, sentenceSeparator)

	var selected []string
	for _, sentence := range sentences {
		if len(selected) == fallbackMaxSentences {
			break
		}
		lower := strings.ToLower(sentence)
		for _, word := range policySignalWords {
			if strings.Contains(lower, word) {
				selected = append(selected, strings.TrimSpace(sentence))
				break
			}
		}
	}
	return strings.Join(selected, sentenceSeparator)
}

func firstChars(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n])
}

// sentenceSeparator matches the delimiter used by the chunker so fallback
// excerpts split on the same boundaries as indexing did.
const sentenceSeparator = ". "
