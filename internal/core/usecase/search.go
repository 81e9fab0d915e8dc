package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ballotline/manifesto-qa/internal/core/domain"
	"github.com/ballotline/manifesto-qa/internal/core/ports"
)

const defaultTopK = 5

// SearchManifestosUseCase retrieves relevant chunks. The primary path embeds
// the query and searches the vector store; when that path fails and the
// lexical fallback is enabled, it re-runs the query against the in-memory
// chunks so retrieval keeps working without the embedding service.
type SearchManifestosUseCase struct {
	embedder ports.Embedder
	vectorDB ports.VectorStore
	store    ports.ManifestoStore
	lexical  ports.LexicalSearcher
	mode     string
	logger   *slog.Logger
}

func NewSearchManifestosUseCase(
	embedder ports.Embedder,
	vectorDB ports.VectorStore,
	store ports.ManifestoStore,
	lexical ports.LexicalSearcher,
	mode string,
	logger *slog.Logger,
) *SearchManifestosUseCase {
	if mode != domain.RetrievalModeLexical {
		mode = domain.RetrievalModeSemantic
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SearchManifestosUseCase{
		embedder: embedder,
		vectorDB: vectorDB,
		store:    store,
		lexical:  lexical,
		mode:     mode,
		logger:   logger,
	}
}

func (uc *SearchManifestosUseCase) Search(
	ctx context.Context,
	query string,
	topK int,
	filter domain.SearchFilter,
) (*domain.SearchResult, error) {
	if query == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "search manifestos", errors.New("empty query"))
	}
	if topK <= 0 {
		topK = defaultTopK
	}

	if filter.PartyID != "" {
		if _, ok := uc.store.Get(filter.PartyID); !ok {
			return nil, domain.WrapError(
				domain.ErrManifestoNotFound,
				"search manifestos",
				fmt.Errorf("party %q", filter.PartyID),
			)
		}
	}

	if uc.mode == domain.RetrievalModeLexical {
		return uc.searchLexical(query, topK, filter), nil
	}

	chunks, err := uc.searchSemantic(ctx, query, topK, filter)
	if err != nil {
		if uc.lexical == nil {
			return nil, err
		}
		uc.logger.Warn("semantic retrieval failed, falling back to lexical search",
			"error", err,
		)
		return uc.searchLexical(query, topK, filter), nil
	}

	return &domain.SearchResult{Chunks: chunks, Mode: domain.RetrievalModeSemantic}, nil
}

func (uc *SearchManifestosUseCase) searchSemantic(
	ctx context.Context,
	query string,
	topK int,
	filter domain.SearchFilter,
) ([]domain.RelevantChunk, error) {
	queryVector, err := uc.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	chunks, err := uc.vectorDB.Search(ctx, queryVector, topK, filter)
	if err != nil {
		return nil, fmt.Errorf("search vector db: %w", err)
	}
	return chunks, nil
}

func (uc *SearchManifestosUseCase) searchLexical(query string, topK int, filter domain.SearchFilter) *domain.SearchResult {
	chunks := uc.lexical.SearchAll(uc.store.All(), query, filter, topK)
	return &domain.SearchResult{Chunks: chunks, Mode: domain.RetrievalModeLexical}
}
