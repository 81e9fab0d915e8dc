package ports

import (
	"context"
	"io"

	"github.com/ballotline/manifesto-qa/internal/core/domain"
)

// TextExtractor pulls plain text out of an uploaded PDF.
type TextExtractor interface {
	Extract(ctx context.Context, r io.Reader) (text string, pageCount int, err error)
}

// Chunker splits extracted text into ordered, party-tagged chunks.
type Chunker interface {
	Chunk(partyID, partyName, text string) []domain.Chunk
}

// Embedder builds vectors for chunk and query text.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// VectorStore upserts chunk vectors and performs semantic search.
// Upsert is keyed by chunk id: re-indexing a chunk id overwrites the prior
// vector, document and metadata. Search results follow the store's own
// ranking and are not re-sorted.
type VectorStore interface {
	UpsertChunks(ctx context.Context, chunks []domain.Chunk, vectors [][]float32) error
	Search(ctx context.Context, queryVector []float32, topK int, filter domain.SearchFilter) ([]domain.RelevantChunk, error)
}

// AnswerGenerator sends a constructed prompt to the generation endpoint.
type AnswerGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ManifestoStore holds processed manifestos for the lifetime of the process.
// Put replaces any prior entry for the same party id atomically: readers
// observe either the old or the new manifesto, never a partial chunk list.
type ManifestoStore interface {
	Put(m domain.Manifesto)
	Get(partyID string) (domain.Manifesto, bool)
	All() []domain.Manifesto
	List() []domain.ManifestoSummary
}

// LexicalSearcher scores chunks by keyword overlap, without embeddings.
type LexicalSearcher interface {
	SearchAll(manifestos []domain.Manifesto, query string, filter domain.SearchFilter, topK int) []domain.RelevantChunk
}

// ManifestoRepository persists manifesto upload metadata.
type ManifestoRepository interface {
	Upsert(ctx context.Context, rec *domain.ManifestoRecord) error
	GetByPartyID(ctx context.Context, partyID string) (*domain.ManifestoRecord, error)
	UpdateStatus(ctx context.Context, partyID string, status domain.ManifestoStatus, errMessage string) error
	List(ctx context.Context) ([]domain.ManifestoRecord, error)
}

// ObjectStorage keeps the uploaded PDF bytes.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue publishes/consumes ingestion events for semantic indexing.
type MessageQueue interface {
	PublishManifestoIngested(ctx context.Context, partyID string) error
	SubscribeManifestoIngested(ctx context.Context, handler func(context.Context, string) error) error
}
