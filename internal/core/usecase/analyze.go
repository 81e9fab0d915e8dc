package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ballotline/manifesto-qa/internal/core/domain"
	"github.com/ballotline/manifesto-qa/internal/core/ports"
)

const analysisPromptTemplate = `Analyze the following political manifesto for %s and extract:

1. Key policy areas and promises
2. Economic policies
3. Social policies
4. Infrastructure plans
5. Education and healthcare initiatives
6. Environmental policies
7. Main slogans or themes

MANIFESTO TEXT:
%s

Please provide a structured analysis in JSON format with clear categories and key points.`

// AnalyzeManifestoUseCase runs the key-point extraction prompt over one
// stored manifesto. There is no retrieval result to degrade to, so generator
// failures are returned instead of recovered.
type AnalyzeManifestoUseCase struct {
	store           ports.ManifestoStore
	generator       ports.AnswerGenerator
	generateTimeout time.Duration
}

func NewAnalyzeManifestoUseCase(
	store ports.ManifestoStore,
	generator ports.AnswerGenerator,
	generateTimeout time.Duration,
) *AnalyzeManifestoUseCase {
	if generateTimeout <= 0 {
		generateTimeout = defaultGenerateTimeout
	}
	return &AnalyzeManifestoUseCase{
		store:           store,
		generator:       generator,
		generateTimeout: generateTimeout,
	}
}

func (uc *AnalyzeManifestoUseCase) Analyze(ctx context.Context, partyID string) (*domain.ManifestoAnalysis, error) {
	if strings.TrimSpace(partyID) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "analyze manifesto", errors.New("empty party id"))
	}

	m, ok := uc.store.Get(partyID)
	if !ok {
		return nil, domain.WrapError(domain.ErrManifestoNotFound, "analyze manifesto", fmt.Errorf("party %q", partyID))
	}

	prompt := fmt.Sprintf(analysisPromptTemplate, m.PartyName, m.Text)

	genCtx, cancel := context.WithTimeout(ctx, uc.generateTimeout)
	defer cancel()

	analysis, err := uc.generator.Generate(genCtx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate analysis: %w", err)
	}

	return &domain.ManifestoAnalysis{
		PartyID:    m.PartyID,
		PartyName:  m.PartyName,
		Analysis:   analysis,
		TextLength: len(m.Text),
	}, nil
}
