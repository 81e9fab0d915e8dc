// Package bootstrap wires configuration, infrastructure and use cases into
// a runnable application.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ballotline/manifesto-qa/internal/config"
	"github.com/ballotline/manifesto-qa/internal/core/ports"
	"github.com/ballotline/manifesto-qa/internal/core/usecase"
	"github.com/ballotline/manifesto-qa/internal/infrastructure/chunking"
	"github.com/ballotline/manifesto-qa/internal/infrastructure/extractor/pdftext"
	"github.com/ballotline/manifesto-qa/internal/infrastructure/lexical"
	"github.com/ballotline/manifesto-qa/internal/infrastructure/llm/ollama"
	"github.com/ballotline/manifesto-qa/internal/infrastructure/queue/nats"
	"github.com/ballotline/manifesto-qa/internal/infrastructure/repository/postgres"
	"github.com/ballotline/manifesto-qa/internal/infrastructure/resilience"
	"github.com/ballotline/manifesto-qa/internal/infrastructure/storage/localfs"
	"github.com/ballotline/manifesto-qa/internal/infrastructure/store/memory"
	"github.com/ballotline/manifesto-qa/internal/infrastructure/vector/qdrant"
)

type App struct {
	Config config.Config

	Queue     ports.MessageQueue
	Repo      ports.ManifestoRepository
	IngestUC  ports.ManifestoIngestor
	SearchUC  ports.ManifestoSearcher
	AnswerUC  ports.QuestionAnswerer
	AnalyzeUC ports.ManifestoAnalyzer
	CompareUC ports.ManifestoComparer
	ListUC    ports.ManifestoLister
	ProcessUC ports.ManifestoProcessor

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewManifestoRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())
	generationExecutor := resilience.NewExecutor(resilience.GenerationConfig())

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	ollamaClient := ollama.NewWithOptions(cfg.OllamaURL, cfg.OllamaGenModel, cfg.OllamaEmbedModel, ollama.Options{
		RequestsPerSecond:  cfg.OllamaRequestsPerSecond,
		Executor:           executor,
		GenerationExecutor: generationExecutor,
	})
	embedder := ollama.NewEmbedder(ollamaClient)
	generator := ollama.NewGenerator(ollamaClient)

	vectorDB := qdrant.NewWithOptions(cfg.QdrantURL, cfg.QdrantCollection, qdrant.Options{
		Executor: executor,
	})
	chunker := chunking.NewSplitter(cfg.ChunkTargetWords)
	extractor := pdftext.New()
	store := memory.NewStore()
	lexicalIndex := lexical.NewIndex(cfg.LexicalPhraseBonus, cfg.LexicalScoreDivisor)

	generateTimeout := time.Duration(cfg.GenerateTimeoutSeconds) * time.Second

	ingestUC := usecase.NewIngestManifestoUseCase(extractor, chunker, store, repo, storage, queue)
	searchUC := usecase.NewSearchManifestosUseCase(embedder, vectorDB, store, lexicalIndex, cfg.RetrievalMode, logger)
	answerUC := usecase.NewAnswerQuestionUseCase(
		searchUC,
		generator,
		cfg.SearchTopK,
		generateTimeout,
		logger,
	)
	analyzeUC := usecase.NewAnalyzeManifestoUseCase(store, generator, generateTimeout)
	compareUC := usecase.NewCompareManifestosUseCase(store, generator, generateTimeout)
	listUC := usecase.NewListManifestosUseCase(repo, store, logger)
	processUC := usecase.NewProcessManifestoUseCase(repo, storage, extractor, chunker, embedder, vectorDB, store)

	return &App{
		Config: cfg,
		Queue:  queue,
		Repo:   repo,

		IngestUC:  ingestUC,
		SearchUC:  searchUC,
		AnswerUC:  answerUC,
		AnalyzeUC: analyzeUC,
		CompareUC: compareUC,
		ListUC:    listUC,
		ProcessUC: processUC,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
