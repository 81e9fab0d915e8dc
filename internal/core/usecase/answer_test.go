package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ballotline/manifesto-qa/internal/core/domain"
)

type answerSearcherFake struct {
	result *domain.SearchResult
	err    error
}

func (f *answerSearcherFake) Search(context.Context, string, int, domain.SearchFilter) (*domain.SearchResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type answerGeneratorFake struct {
	text   string
	err    error
	prompt string
}

func (f *answerGeneratorFake) Generate(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func rankedChunks() []domain.RelevantChunk {
	return []domain.RelevantChunk{
		{Text: "We will ensure free school meals", PartyID: "green", PartyName: "Green Party", Similarity: 0.9},
		{Text: "Hospitals receive new funding", PartyID: "labour", PartyName: "Labour Party", Similarity: 0.6},
	}
}

func TestAnswerSuccess(t *testing.T) {
	searcher := &answerSearcherFake{result: &domain.SearchResult{Chunks: rankedChunks(), Mode: domain.RetrievalModeSemantic}}
	generator := &answerGeneratorFake{text: "The Green Party promises free school meals."}
	uc := NewAnswerQuestionUseCase(searcher, generator, 5, time.Second, nil)

	answer, err := uc.Answer(context.Background(), "school meals", domain.SearchFilter{}, nil)
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	if answer.Degraded {
		t.Fatalf("expected non-degraded answer")
	}
	if answer.Text != "The Green Party promises free school meals." {
		t.Fatalf("expected verbatim generator text, got %q", answer.Text)
	}
	if len(answer.Sources) != 2 || answer.Sources[0] != "Green Party (Manifesto)" {
		t.Fatalf("unexpected sources: %v", answer.Sources)
	}
	if !strings.Contains(generator.prompt, "User Question: school meals") {
		t.Fatalf("expected question in prompt, got %q", generator.prompt)
	}
	if !strings.Contains(generator.prompt, "Party: Green Party\nContent: We will ensure free school meals\n\n") {
		t.Fatalf("expected context block in prompt, got %q", generator.prompt)
	}
}

func TestAnswerNoResults(t *testing.T) {
	searcher := &answerSearcherFake{result: &domain.SearchResult{Chunks: nil, Mode: domain.RetrievalModeLexical}}
	generator := &answerGeneratorFake{text: "should never be called"}
	uc := NewAnswerQuestionUseCase(searcher, generator, 5, time.Second, nil)

	answer, err := uc.Answer(context.Background(), "obscure topic", domain.SearchFilter{}, nil)
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	if answer.Degraded {
		t.Fatalf("expected non-degraded answer")
	}
	if !strings.Contains(answer.Text, "couldn't find specific information") {
		t.Fatalf("expected no-results message, got %q", answer.Text)
	}
	if len(answer.Sources) != 0 {
		t.Fatalf("expected empty sources, got %v", answer.Sources)
	}
	if generator.prompt != "" {
		t.Fatalf("expected generator untouched, got prompt %q", generator.prompt)
	}
}

func TestAnswerDegradesWhenGeneratorFails(t *testing.T) {
	searcher := &answerSearcherFake{result: &domain.SearchResult{Chunks: rankedChunks(), Mode: domain.RetrievalModeSemantic}}
	generator := &answerGeneratorFake{err: errors.New("connection refused")}
	uc := NewAnswerQuestionUseCase(searcher, generator, 5, time.Second, nil)

	answer, err := uc.Answer(context.Background(), "school meals", domain.SearchFilter{}, nil)
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	if !answer.Degraded {
		t.Fatalf("expected degraded answer")
	}
	if !strings.Contains(answer.Text, "**Green Party**:") {
		t.Fatalf("expected bolded party bullet, got %q", answer.Text)
	}
	if len(answer.Sources) != 2 {
		t.Fatalf("expected sources kept on degraded answer, got %v", answer.Sources)
	}

	again, err := uc.Answer(context.Background(), "school meals", domain.SearchFilter{}, nil)
	if err != nil {
		t.Fatalf("second Answer() error = %v", err)
	}
	if again.Text != answer.Text {
		t.Fatalf("expected deterministic fallback, got %q then %q", answer.Text, again.Text)
	}
}

func TestAnswerPropagatesCallerCancellation(t *testing.T) {
	searcher := &answerSearcherFake{result: &domain.SearchResult{Chunks: rankedChunks(), Mode: domain.RetrievalModeSemantic}}
	generator := &answerGeneratorFake{err: context.Canceled}
	uc := NewAnswerQuestionUseCase(searcher, generator, 5, time.Second, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := uc.Answer(ctx, "school meals", domain.SearchFilter{}, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestAnswerPropagatesSearchErrors(t *testing.T) {
	searcher := &answerSearcherFake{err: domain.WrapError(domain.ErrManifestoNotFound, "search", errors.New("party"))}
	uc := NewAnswerQuestionUseCase(searcher, &answerGeneratorFake{}, 5, time.Second, nil)

	_, err := uc.Answer(context.Background(), "school meals", domain.SearchFilter{PartyID: "x"}, nil)
	if !domain.IsKind(err, domain.ErrManifestoNotFound) {
		t.Fatalf("expected ErrManifestoNotFound, got %v", err)
	}
}

func TestAnswerRejectsEmptyQuestion(t *testing.T) {
	uc := NewAnswerQuestionUseCase(&answerSearcherFake{}, &answerGeneratorFake{}, 5, time.Second, nil)

	_, err := uc.Answer(context.Background(), "", domain.SearchFilter{}, nil)
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAnswerIncludesRecentHistoryInPrompt(t *testing.T) {
	searcher := &answerSearcherFake{result: &domain.SearchResult{Chunks: rankedChunks(), Mode: domain.RetrievalModeSemantic}}
	generator := &answerGeneratorFake{text: "ok"}
	uc := NewAnswerQuestionUseCase(searcher, generator, 5, time.Second, nil)

	history := []domain.ConversationTurn{
		{Role: "user", Content: "too old"},
		{Role: "user", Content: "what about schools?"},
		{Role: "assistant", Content: "Schools are funded."},
		{Role: "user", Content: "and hospitals?"},
		{Role: "assistant", Content: "Hospitals too."},
	}

	if _, err := uc.Answer(context.Background(), "school meals", domain.SearchFilter{}, history); err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	if !strings.Contains(generator.prompt, "Recent Conversation:\n") {
		t.Fatalf("expected conversation section, got %q", generator.prompt)
	}
	if !strings.Contains(generator.prompt, "Human: what about schools?") {
		t.Fatalf("expected human turn, got %q", generator.prompt)
	}
	if !strings.Contains(generator.prompt, "Assistant: Hospitals too.") {
		t.Fatalf("expected assistant turn, got %q", generator.prompt)
	}
	if strings.Contains(generator.prompt, "too old") {
		t.Fatalf("expected only last turns in prompt, got %q", generator.prompt)
	}
}
