package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/ballotline/manifesto-qa/internal/core/domain"
	"github.com/ballotline/manifesto-qa/internal/core/ports"
)

// IngestManifestoUseCase runs the synchronous half of ingestion: extract,
// chunk, publish into the shared store and the metadata repository. The
// lexical path can serve the manifesto as soon as Ingest returns; semantic
// indexing happens asynchronously behind the queue.
type IngestManifestoUseCase struct {
	extractor ports.TextExtractor
	chunker   ports.Chunker
	store     ports.ManifestoStore
	repo      ports.ManifestoRepository
	storage   ports.ObjectStorage
	queue     ports.MessageQueue
}

func NewIngestManifestoUseCase(
	extractor ports.TextExtractor,
	chunker ports.Chunker,
	store ports.ManifestoStore,
	repo ports.ManifestoRepository,
	storage ports.ObjectStorage,
	queue ports.MessageQueue,
) *IngestManifestoUseCase {
	return &IngestManifestoUseCase{
		extractor: extractor,
		chunker:   chunker,
		store:     store,
		repo:      repo,
		storage:   storage,
		queue:     queue,
	}
}

func (uc *IngestManifestoUseCase) Ingest(
	ctx context.Context,
	partyID, partyName, filename string,
	body io.Reader,
) (*ports.IngestResult, error) {
	partyID = strings.TrimSpace(partyID)
	partyName = strings.TrimSpace(partyName)
	if partyID == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "ingest manifesto", errors.New("missing party id"))
	}
	if partyName == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "ingest manifesto", errors.New("missing party name"))
	}

	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read upload body: %w", err)
	}
	if len(raw) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "ingest manifesto", errors.New("empty file"))
	}

	text, pageCount, err := uc.extractor.Extract(ctx, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("extract text: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, domain.WrapError(domain.ErrExtraction, "extract text", errors.New("no extractable text"))
	}

	chunks := uc.chunker.Chunk(partyID, partyName, text)
	if len(chunks) == 0 {
		return nil, domain.WrapError(domain.ErrExtraction, "chunk manifesto", errors.New("chunking produced zero chunks"))
	}

	storageKey := sanitizePartyID(partyID) + ".pdf"
	if err := uc.storage.Save(ctx, storageKey, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("save to object storage: %w", err)
	}

	now := time.Now().UTC()
	uc.store.Put(domain.Manifesto{
		PartyID:     partyID,
		PartyName:   partyName,
		Text:        text,
		Chunks:      chunks,
		PageCount:   pageCount,
		ProcessedAt: now,
	})

	rec := &domain.ManifestoRecord{
		PartyID:     partyID,
		PartyName:   partyName,
		Filename:    filename,
		StoragePath: storageKey,
		PageCount:   pageCount,
		ChunkCount:  len(chunks),
		Status:      domain.StatusUploaded,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Upsert(ctx, rec); err != nil {
		return nil, fmt.Errorf("upsert manifesto metadata: %w", err)
	}

	// Publish failure is terminal: without the event the manifesto would
	// never reach the vector store, and re-uploading is a safe retry.
	if err := uc.queue.PublishManifestoIngested(ctx, partyID); err != nil {
		return nil, fmt.Errorf("publish ingestion event: %w", err)
	}

	return &ports.IngestResult{
		PartyID:    partyID,
		PartyName:  partyName,
		ChunkCount: len(chunks),
		PageCount:  pageCount,
	}, nil
}

func sanitizePartyID(id string) string {
	base := filepath.Base(id)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" {
		return "manifesto"
	}
	return base
}
