package usecase

import (
	"context"
	"log/slog"

	"github.com/ballotline/manifesto-qa/internal/core/domain"
	"github.com/ballotline/manifesto-qa/internal/core/ports"
)

// ListManifestosUseCase serves the manifesto inventory. The durable
// repository is authoritative; when it is unreachable the in-memory store
// still knows everything ingested by this process, so listing degrades
// instead of failing.
type ListManifestosUseCase struct {
	repo   ports.ManifestoRepository
	store  ports.ManifestoStore
	logger *slog.Logger
}

func NewListManifestosUseCase(repo ports.ManifestoRepository, store ports.ManifestoStore, logger *slog.Logger) *ListManifestosUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &ListManifestosUseCase{repo: repo, store: store, logger: logger}
}

func (uc *ListManifestosUseCase) List(ctx context.Context) ([]domain.ManifestoSummary, error) {
	records, err := uc.repo.List(ctx)
	if err != nil {
		uc.logger.Warn("repository list failed, serving in-memory summaries", "error", err)
		return uc.store.List(), nil
	}

	summaries := make([]domain.ManifestoSummary, 0, len(records))
	for _, rec := range records {
		summaries = append(summaries, domain.ManifestoSummary{
			PartyID:     rec.PartyID,
			PartyName:   rec.PartyName,
			ChunkCount:  rec.ChunkCount,
			ProcessedAt: rec.UpdatedAt,
		})
	}
	return summaries, nil
}
