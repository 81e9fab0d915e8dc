package domain

type SearchFilter struct {
	PartyID string
}

// RelevantChunk is a query-time retrieval result. Similarity is comparable
// across the semantic and lexical paths: the lexical score is normalized
// into the same 0..1 range before it reaches callers.
type RelevantChunk struct {
	Text       string  `json:"text"`
	PartyID    string  `json:"partyId"`
	PartyName  string  `json:"partyName"`
	ChunkIndex int     `json:"chunkIndex"`
	Similarity float64 `json:"similarity"`
}

// Retrieval modes reported by the search use case.
const (
	RetrievalModeSemantic = "semantic"
	RetrievalModeLexical  = "lexical"
)

type SearchResult struct {
	Chunks []RelevantChunk `json:"relevantChunks"`
	Mode   string          `json:"mode"`
}

// ConversationTurn is caller-supplied chat history used only to build the
// recent-context section of the prompt. Never persisted.
type ConversationTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Answer distinguishes full success from degraded success: Degraded is set
// when the generation endpoint was unavailable and the text was synthesized
// locally from the retrieved chunks.
type Answer struct {
	Text     string   `json:"response"`
	Sources  []string `json:"sources"`
	Degraded bool     `json:"degraded"`
}
