package usecase

import (
	"fmt"
	"strings"

	"github.com/ballotline/manifesto-qa/internal/core/domain"
)

// historyTurns bounds how much caller-supplied conversation makes it into
// the prompt.
const historyTurns = 4

const promptTemplate = `You are a helpful political information assistant. Answer the user's question based ONLY on the provided manifesto information.

User Question: %s

Relevant Manifesto Content:
%s%s
Instructions:
1. Answer the question directly based on the manifesto content provided
2. Be factual and cite which party's position you're referencing
3. If the information is insufficient, clearly state what's missing
4. Maintain complete political neutrality
5. Help voters make informed decisions

Answer:`

func buildPrompt(question, contextBlock string, history []domain.ConversationTurn) string {
	return fmt.Sprintf(promptTemplate, question, contextBlock, formatHistory(history))
}

func formatHistory(history []domain.ConversationTurn) string {
	if len(history) == 0 {
		return ""
	}
	if len(history) > historyTurns {
		history = history[len(history)-historyTurns:]
	}

	var b strings.Builder
	b.WriteString("Recent Conversation:\n")
	for _, turn := range history {
		label := "Assistant"
		if turn.Role == "user" {
			label = "Human"
		}
		b.WriteString(label)
		b.WriteString(": ")
		b.WriteString(turn.Content)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return b.String()
}
