package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ballotline/manifesto-qa/internal/core/domain"
	"github.com/ballotline/manifesto-qa/internal/core/ports"
)

const defaultGenerateTimeout = 30 * time.Second

// noResultsAnswer is returned when retrieval finds nothing. It is a normal
// answer, not an error: the caller asked a valid question that the indexed
// manifestos simply do not cover.
const noResultsAnswer = "I couldn't find specific information about that topic in the available manifestos. Could you try rephrasing your question or ask about a different topic?"

// AnswerQuestionUseCase runs the full question pipeline: retrieve, assemble
// context, generate. Generation failures are recovered locally with the
// extractive fallback, so a reachable retrieval path always yields an answer.
type AnswerQuestionUseCase struct {
	searcher        ports.ManifestoSearcher
	generator       ports.AnswerGenerator
	topK            int
	generateTimeout time.Duration
	logger          *slog.Logger
}

func NewAnswerQuestionUseCase(
	searcher ports.ManifestoSearcher,
	generator ports.AnswerGenerator,
	topK int,
	generateTimeout time.Duration,
	logger *slog.Logger,
) *AnswerQuestionUseCase {
	if topK <= 0 {
		topK = defaultTopK
	}
	if generateTimeout <= 0 {
		generateTimeout = defaultGenerateTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AnswerQuestionUseCase{
		searcher:        searcher,
		generator:       generator,
		topK:            topK,
		generateTimeout: generateTimeout,
		logger:          logger,
	}
}

func (uc *AnswerQuestionUseCase) Answer(
	ctx context.Context,
	question string,
	filter domain.SearchFilter,
	history []domain.ConversationTurn,
) (*domain.Answer, error) {
	if question == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "answer question", errors.New("empty question"))
	}

	result, err := uc.searcher.Search(ctx, question, uc.topK, filter)
	if err != nil {
		return nil, err
	}

	if len(result.Chunks) == 0 {
		return &domain.Answer{
			Text:    noResultsAnswer,
			Sources: []string{},
		}, nil
	}

	contextBlock, sources := assembleContext(result.Chunks)
	prompt := buildPrompt(question, contextBlock, history)

	genCtx, cancel := context.WithTimeout(ctx, uc.generateTimeout)
	defer cancel()

	text, err := uc.generator.Generate(genCtx, prompt)
	if err != nil {
		// The caller walking away is not a generator outage.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		uc.logger.Warn("answer generation failed, using extractive fallback",
			"retrieval_mode", result.Mode,
			"error", err,
		)
		return &domain.Answer{
			Text:     buildExtractiveFallback(question, result.Chunks),
			Sources:  sources,
			Degraded: true,
		}, nil
	}

	return &domain.Answer{
		Text:    text,
		Sources: sources,
	}, nil
}
