package usecase

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/ballotline/manifesto-qa/internal/core/domain"
)

type processRepoFake struct {
	rec      *domain.ManifestoRecord
	getErr   error
	statuses []domain.ManifestoStatus
	errMsgs  []string
}

func (f *processRepoFake) Upsert(context.Context, *domain.ManifestoRecord) error {
	return errors.New("not implemented")
}

func (f *processRepoFake) GetByPartyID(context.Context, string) (*domain.ManifestoRecord, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	copyRec := *f.rec
	return &copyRec, nil
}

func (f *processRepoFake) UpdateStatus(_ context.Context, _ string, status domain.ManifestoStatus, errMessage string) error {
	f.statuses = append(f.statuses, status)
	f.errMsgs = append(f.errMsgs, errMessage)
	return nil
}

func (f *processRepoFake) List(context.Context) ([]domain.ManifestoRecord, error) {
	return nil, errors.New("not implemented")
}

type processStorageFake struct {
	content string
	err     error
}

func (f *processStorageFake) Save(context.Context, string, io.Reader) error {
	return errors.New("not implemented")
}

func (f *processStorageFake) Open(context.Context, string) (io.ReadCloser, error) {
	if f.err != nil {
		return nil, f.err
	}
	return io.NopCloser(strings.NewReader(f.content)), nil
}

type processExtractorFake struct {
	text string
	err  error
}

func (f *processExtractorFake) Extract(_ context.Context, r io.Reader) (string, int, error) {
	_, _ = io.ReadAll(r)
	if f.err != nil {
		return "", 0, f.err
	}
	return f.text, 1, nil
}

type processEmbedderFake struct {
	err   error
	texts []string
}

func (f *processEmbedderFake) Embed(_ context.Context, texts []string) ([][]float32, error) {
	f.texts = texts
	if f.err != nil {
		return nil, f.err
	}
	vectors := make([][]float32, len(texts))
	for i := range vectors {
		vectors[i] = []float32{float32(i)}
	}
	return vectors, nil
}

func (f *processEmbedderFake) EmbedQuery(context.Context, string) ([]float32, error) {
	return nil, errors.New("not implemented")
}

type processVectorFake struct {
	chunks  []domain.Chunk
	vectors [][]float32
	err     error
}

func (f *processVectorFake) UpsertChunks(_ context.Context, chunks []domain.Chunk, vectors [][]float32) error {
	if f.err != nil {
		return f.err
	}
	f.chunks = chunks
	f.vectors = vectors
	return nil
}

func (f *processVectorFake) Search(context.Context, []float32, int, domain.SearchFilter) ([]domain.RelevantChunk, error) {
	return nil, errors.New("not implemented")
}

func newProcessUseCase(repo *processRepoFake, storage *processStorageFake, extractor *processExtractorFake, embedder *processEmbedderFake, vector *processVectorFake) *ProcessManifestoUseCase {
	return NewProcessManifestoUseCase(repo, storage, extractor, ingestChunkerFake{}, embedder, vector, &ingestStoreFake{})
}

func readyRecord() *domain.ManifestoRecord {
	return &domain.ManifestoRecord{
		PartyID:     "green",
		PartyName:   "Green Party",
		Filename:    "green.pdf",
		StoragePath: "green.pdf",
		Status:      domain.StatusUploaded,
	}
}

func TestProcessByPartyIDSuccess(t *testing.T) {
	repo := &processRepoFake{rec: readyRecord()}
	vector := &processVectorFake{}
	uc := newProcessUseCase(repo, &processStorageFake{content: "%PDF"}, &processExtractorFake{text: "We will invest. Roads get fixed"}, &processEmbedderFake{}, vector)

	if err := uc.ProcessByPartyID(context.Background(), "green"); err != nil {
		t.Fatalf("ProcessByPartyID() error = %v", err)
	}

	if len(repo.statuses) != 2 || repo.statuses[0] != domain.StatusProcessing || repo.statuses[1] != domain.StatusReady {
		t.Fatalf("unexpected status sequence: %v", repo.statuses)
	}
	if len(vector.chunks) != 2 || len(vector.vectors) != 2 {
		t.Fatalf("expected 2 chunks indexed, got %d chunks / %d vectors", len(vector.chunks), len(vector.vectors))
	}
	if vector.chunks[0].ChunkID != "green_chunk_0" {
		t.Fatalf("expected deterministic chunk id, got %s", vector.chunks[0].ChunkID)
	}
}

func TestProcessByPartyIDMarksFailedOnEmbedError(t *testing.T) {
	repo := &processRepoFake{rec: readyRecord()}
	uc := newProcessUseCase(
		repo,
		&processStorageFake{content: "%PDF"},
		&processExtractorFake{text: "We will invest"},
		&processEmbedderFake{err: errors.New("embedder down")},
		&processVectorFake{},
	)

	err := uc.ProcessByPartyID(context.Background(), "green")
	if err == nil {
		t.Fatalf("expected error")
	}
	if len(repo.statuses) != 2 || repo.statuses[1] != domain.StatusFailed {
		t.Fatalf("expected failed status recorded, got %v", repo.statuses)
	}
	if !strings.Contains(repo.errMsgs[1], "embedder down") {
		t.Fatalf("expected error message persisted, got %q", repo.errMsgs[1])
	}
}

func TestProcessByPartyIDMarksFailedOnMissingPDF(t *testing.T) {
	repo := &processRepoFake{rec: readyRecord()}
	uc := newProcessUseCase(
		repo,
		&processStorageFake{err: errors.New("no such file")},
		&processExtractorFake{text: "x"},
		&processEmbedderFake{},
		&processVectorFake{},
	)

	err := uc.ProcessByPartyID(context.Background(), "green")
	if err == nil {
		t.Fatalf("expected error")
	}
	if repo.statuses[len(repo.statuses)-1] != domain.StatusFailed {
		t.Fatalf("expected failed status, got %v", repo.statuses)
	}
}
