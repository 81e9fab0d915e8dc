package ports

import (
	"context"
	"io"

	"github.com/ballotline/manifesto-qa/internal/core/domain"
)

// IngestResult reports what a synchronous ingestion produced.
type IngestResult struct {
	PartyID    string `json:"partyId"`
	PartyName  string `json:"partyName"`
	ChunkCount int    `json:"totalChunks"`
	PageCount  int    `json:"pageCount"`
}

// ManifestoIngestor is the inbound contract for manifesto upload and
// synchronous processing (extract, chunk, store).
type ManifestoIngestor interface {
	Ingest(ctx context.Context, partyID, partyName, filename string, body io.Reader) (*IngestResult, error)
}

// ManifestoSearcher is the inbound contract for chunk retrieval.
type ManifestoSearcher interface {
	Search(ctx context.Context, query string, topK int, filter domain.SearchFilter) (*domain.SearchResult, error)
}

// QuestionAnswerer is the inbound contract for RAG answering.
type QuestionAnswerer interface {
	Answer(ctx context.Context, question string, filter domain.SearchFilter, history []domain.ConversationTurn) (*domain.Answer, error)
}

// ManifestoAnalyzer extracts structured key points from one stored
// manifesto.
type ManifestoAnalyzer interface {
	Analyze(ctx context.Context, partyID string) (*domain.ManifestoAnalysis, error)
}

// ManifestoComparer contrasts two or more stored manifestos on a topic.
type ManifestoComparer interface {
	Compare(ctx context.Context, partyIDs []string, topic string) (*domain.ManifestoComparison, error)
}

// ManifestoLister is the inbound read model for processed manifestos.
type ManifestoLister interface {
	List(ctx context.Context) ([]domain.ManifestoSummary, error)
}

// ManifestoProcessor is the inbound contract for asynchronous semantic
// indexing of an already-ingested manifesto.
type ManifestoProcessor interface {
	ProcessByPartyID(ctx context.Context, partyID string) error
}
