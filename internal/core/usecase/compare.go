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

const defaultComparisonTopic = "general policies"

const comparisonPromptTemplate = `Compare the following political party manifestos on the topic of "%s":

%s
Please provide a detailed comparison highlighting:
1. Similarities between parties
2. Key differences in approach
3. Specific promises or policies for each party
4. Which party has more detailed plans on this topic

Be neutral and factual in your comparison.`

// CompareManifestosUseCase contrasts stored manifestos on a topic. At least
// two distinct parties are required; every requested party must already be
// ingested.
type CompareManifestosUseCase struct {
	store           ports.ManifestoStore
	generator       ports.AnswerGenerator
	generateTimeout time.Duration
}

func NewCompareManifestosUseCase(
	store ports.ManifestoStore,
	generator ports.AnswerGenerator,
	generateTimeout time.Duration,
) *CompareManifestosUseCase {
	if generateTimeout <= 0 {
		generateTimeout = defaultGenerateTimeout
	}
	return &CompareManifestosUseCase{
		store:           store,
		generator:       generator,
		generateTimeout: generateTimeout,
	}
}

func (uc *CompareManifestosUseCase) Compare(
	ctx context.Context,
	partyIDs []string,
	topic string,
) (*domain.ManifestoComparison, error) {
	ids := distinctPartyIDs(partyIDs)
	if len(ids) < 2 {
		return nil, domain.WrapError(
			domain.ErrInvalidInput,
			"compare manifestos",
			errors.New("at least two distinct party ids required"),
		)
	}

	topic = strings.TrimSpace(topic)
	if topic == "" {
		topic = defaultComparisonTopic
	}

	sections := make([]string, 0, len(ids))
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		m, ok := uc.store.Get(id)
		if !ok {
			return nil, domain.WrapError(domain.ErrManifestoNotFound, "compare manifestos", fmt.Errorf("party %q", id))
		}
		sections = append(sections, fmt.Sprintf("=== %s MANIFESTO ===\n%s\n", m.PartyName, m.Text))
		names = append(names, m.PartyName)
	}

	prompt := fmt.Sprintf(comparisonPromptTemplate, topic, strings.Join(sections, "\n"))

	genCtx, cancel := context.WithTimeout(ctx, uc.generateTimeout)
	defer cancel()

	comparison, err := uc.generator.Generate(genCtx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate comparison: %w", err)
	}

	return &domain.ManifestoComparison{
		Topic:      topic,
		PartyNames: names,
		Comparison: comparison,
	}, nil
}

func distinctPartyIDs(partyIDs []string) []string {
	seen := make(map[string]struct{}, len(partyIDs))
	out := make([]string, 0, len(partyIDs))
	for _, id := range partyIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
