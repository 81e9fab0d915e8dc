package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/ballotline/manifesto-qa/internal/core/domain"
)

type searchEmbedderFake struct {
	vector []float32
	err    error
	calls  int
}

func (f *searchEmbedderFake) Embed(context.Context, []string) ([][]float32, error) {
	return nil, errors.New("not implemented")
}

func (f *searchEmbedderFake) EmbedQuery(context.Context, string) ([]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.vector, nil
}

type searchVectorFake struct {
	chunks []domain.RelevantChunk
	err    error
	topK   int
	filter domain.SearchFilter
}

func (f *searchVectorFake) UpsertChunks(context.Context, []domain.Chunk, [][]float32) error {
	return errors.New("not implemented")
}

func (f *searchVectorFake) Search(_ context.Context, _ []float32, topK int, filter domain.SearchFilter) ([]domain.RelevantChunk, error) {
	f.topK = topK
	f.filter = filter
	if f.err != nil {
		return nil, f.err
	}
	return f.chunks, nil
}

type searchStoreFake struct {
	manifestos []domain.Manifesto
}

func (f *searchStoreFake) Put(domain.Manifesto) {}

func (f *searchStoreFake) Get(partyID string) (domain.Manifesto, bool) {
	for _, m := range f.manifestos {
		if m.PartyID == partyID {
			return m, true
		}
	}
	return domain.Manifesto{}, false
}

func (f *searchStoreFake) All() []domain.Manifesto         { return f.manifestos }
func (f *searchStoreFake) List() []domain.ManifestoSummary { return nil }

type searchLexicalFake struct {
	chunks []domain.RelevantChunk
	calls  int
}

func (f *searchLexicalFake) SearchAll([]domain.Manifesto, string, domain.SearchFilter, int) []domain.RelevantChunk {
	f.calls++
	return f.chunks
}

func TestSearchSemanticSuccess(t *testing.T) {
	vector := &searchVectorFake{chunks: []domain.RelevantChunk{{Text: "a", PartyID: "green", Similarity: 0.9}}}
	lexical := &searchLexicalFake{}
	uc := NewSearchManifestosUseCase(
		&searchEmbedderFake{vector: []float32{0.1}},
		vector,
		&searchStoreFake{},
		lexical,
		domain.RetrievalModeSemantic,
		nil,
	)

	result, err := uc.Search(context.Background(), "roads", 3, domain.SearchFilter{})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if result.Mode != domain.RetrievalModeSemantic {
		t.Fatalf("expected semantic mode, got %s", result.Mode)
	}
	if len(result.Chunks) != 1 || result.Chunks[0].Similarity != 0.9 {
		t.Fatalf("unexpected chunks: %+v", result.Chunks)
	}
	if vector.topK != 3 {
		t.Fatalf("expected topK 3 passed through, got %d", vector.topK)
	}
	if lexical.calls != 0 {
		t.Fatalf("expected no lexical call, got %d", lexical.calls)
	}
}

func TestSearchFallsBackToLexicalOnSemanticFailure(t *testing.T) {
	lexical := &searchLexicalFake{chunks: []domain.RelevantChunk{{Text: "b", PartyID: "green", Similarity: 0.7}}}
	uc := NewSearchManifestosUseCase(
		&searchEmbedderFake{err: domain.WrapError(domain.ErrRetrievalUnavailable, "embed", errors.New("down"))},
		&searchVectorFake{},
		&searchStoreFake{},
		lexical,
		domain.RetrievalModeSemantic,
		nil,
	)

	result, err := uc.Search(context.Background(), "roads", 0, domain.SearchFilter{})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if result.Mode != domain.RetrievalModeLexical {
		t.Fatalf("expected lexical mode, got %s", result.Mode)
	}
	if lexical.calls != 1 {
		t.Fatalf("expected one lexical call, got %d", lexical.calls)
	}
}

func TestSearchSemanticFailureWithoutFallbackIsTerminal(t *testing.T) {
	semErr := domain.WrapError(domain.ErrRetrievalUnavailable, "embed", errors.New("down"))
	uc := NewSearchManifestosUseCase(
		&searchEmbedderFake{err: semErr},
		&searchVectorFake{},
		&searchStoreFake{},
		nil,
		domain.RetrievalModeSemantic,
		nil,
	)

	_, err := uc.Search(context.Background(), "roads", 0, domain.SearchFilter{})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrRetrievalUnavailable) {
		t.Fatalf("expected retrieval-unavailable kind, got %v", err)
	}
}

func TestSearchLexicalModeSkipsEmbedding(t *testing.T) {
	embedder := &searchEmbedderFake{vector: []float32{0.1}}
	lexical := &searchLexicalFake{chunks: []domain.RelevantChunk{{Text: "b"}}}
	uc := NewSearchManifestosUseCase(embedder, &searchVectorFake{}, &searchStoreFake{}, lexical, domain.RetrievalModeLexical, nil)

	result, err := uc.Search(context.Background(), "roads", 0, domain.SearchFilter{})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if result.Mode != domain.RetrievalModeLexical {
		t.Fatalf("expected lexical mode, got %s", result.Mode)
	}
	if embedder.calls != 0 {
		t.Fatalf("expected no embedding calls, got %d", embedder.calls)
	}
}

func TestSearchUnknownPartyFilter(t *testing.T) {
	store := &searchStoreFake{manifestos: []domain.Manifesto{{PartyID: "green"}}}
	uc := NewSearchManifestosUseCase(
		&searchEmbedderFake{vector: []float32{0.1}},
		&searchVectorFake{},
		store,
		&searchLexicalFake{},
		domain.RetrievalModeSemantic,
		nil,
	)

	_, err := uc.Search(context.Background(), "roads", 0, domain.SearchFilter{PartyID: "unknown"})
	if !domain.IsKind(err, domain.ErrManifestoNotFound) {
		t.Fatalf("expected ErrManifestoNotFound, got %v", err)
	}
}

func TestSearchRejectsEmptyQuery(t *testing.T) {
	uc := NewSearchManifestosUseCase(
		&searchEmbedderFake{},
		&searchVectorFake{},
		&searchStoreFake{},
		&searchLexicalFake{},
		domain.RetrievalModeSemantic,
		nil,
	)

	_, err := uc.Search(context.Background(), "", 0, domain.SearchFilter{})
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
