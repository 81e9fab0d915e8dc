package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ballotline/manifesto-qa/internal/core/domain"
	"github.com/ballotline/manifesto-qa/internal/core/ports"
)

// ProcessManifestoUseCase is the asynchronous half of ingestion: it re-reads
// the stored PDF, rebuilds the chunk sequence, embeds it and upserts the
// vectors. Chunk ids are deterministic, so reprocessing the same party
// overwrites rather than duplicates.
type ProcessManifestoUseCase struct {
	repo      ports.ManifestoRepository
	storage   ports.ObjectStorage
	extractor ports.TextExtractor
	chunker   ports.Chunker
	embedder  ports.Embedder
	vectorDB  ports.VectorStore
	store     ports.ManifestoStore
}

func NewProcessManifestoUseCase(
	repo ports.ManifestoRepository,
	storage ports.ObjectStorage,
	extractor ports.TextExtractor,
	chunker ports.Chunker,
	embedder ports.Embedder,
	vectorDB ports.VectorStore,
	store ports.ManifestoStore,
) *ProcessManifestoUseCase {
	return &ProcessManifestoUseCase{
		repo:      repo,
		storage:   storage,
		extractor: extractor,
		chunker:   chunker,
		embedder:  embedder,
		vectorDB:  vectorDB,
		store:     store,
	}
}

func (uc *ProcessManifestoUseCase) ProcessByPartyID(ctx context.Context, partyID string) error {
	if err := uc.markStatus(ctx, partyID, domain.StatusProcessing, ""); err != nil {
		return fmt.Errorf("set status=processing: %w", err)
	}

	if err := uc.processPipeline(ctx, partyID); err != nil {
		if failErr := uc.markFailed(ctx, partyID, err); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.markStatus(ctx, partyID, domain.StatusReady, ""); err != nil {
		return fmt.Errorf("set status=ready: %w", err)
	}
	return nil
}

func (uc *ProcessManifestoUseCase) processPipeline(ctx context.Context, partyID string) error {
	rec, err := uc.repo.GetByPartyID(ctx, partyID)
	if err != nil {
		return fmt.Errorf("fetch manifesto by party id: %w", err)
	}

	text, pageCount, err := uc.extractStoredText(ctx, rec)
	if err != nil {
		return err
	}

	chunks := uc.chunker.Chunk(rec.PartyID, rec.PartyName, text)
	if len(chunks) == 0 {
		return domain.WrapError(domain.ErrExtraction, "chunk manifesto", errors.New("chunking produced zero chunks"))
	}

	// Keep the worker's own lexical view current too: with a warm store the
	// worker process can answer lexical queries during reindexing runs.
	uc.store.Put(domain.Manifesto{
		PartyID:     rec.PartyID,
		PartyName:   rec.PartyName,
		Text:        text,
		Chunks:      chunks,
		PageCount:   pageCount,
		ProcessedAt: time.Now().UTC(),
	})

	vectors, err := uc.embedChunks(ctx, chunks)
	if err != nil {
		return err
	}

	if err := uc.vectorDB.UpsertChunks(ctx, chunks, vectors); err != nil {
		return fmt.Errorf("upsert chunks in vector db: %w", err)
	}
	return nil
}

func (uc *ProcessManifestoUseCase) extractStoredText(ctx context.Context, rec *domain.ManifestoRecord) (string, int, error) {
	rc, err := uc.storage.Open(ctx, rec.StoragePath)
	if err != nil {
		return "", 0, fmt.Errorf("open stored pdf: %w", err)
	}
	defer rc.Close()

	text, pageCount, err := uc.extractor.Extract(ctx, rc)
	if err != nil {
		return "", 0, fmt.Errorf("extract text: %w", err)
	}
	if text == "" {
		return "", 0, domain.WrapError(domain.ErrExtraction, "extract text", errors.New("no extractable text"))
	}
	return text, pageCount, nil
}

func (uc *ProcessManifestoUseCase) embedChunks(ctx context.Context, chunks []domain.Chunk) ([][]float32, error) {
	texts := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		texts = append(texts, chunk.Text)
	}

	vectors, err := uc.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return nil, domain.WrapError(
			domain.ErrInvalidInput,
			"embed chunks",
			fmt.Errorf("vectors/chunks mismatch: %d/%d", len(vectors), len(chunks)),
		)
	}
	return vectors, nil
}

func (uc *ProcessManifestoUseCase) markStatus(ctx context.Context, partyID string, status domain.ManifestoStatus, errMessage string) error {
	return uc.repo.UpdateStatus(ctx, partyID, status, errMessage)
}

func (uc *ProcessManifestoUseCase) markFailed(ctx context.Context, partyID string, processErr error) error {
	if processErr == nil {
		return nil
	}
	return uc.markStatus(ctx, partyID, domain.StatusFailed, processErr.Error())
}
