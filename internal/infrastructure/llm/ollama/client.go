// Package ollama adapts the Ollama HTTP API to the embedding and answer
// generation ports.
package ollama

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/ballotline/manifesto-qa/internal/core/domain"
	"github.com/ballotline/manifesto-qa/internal/infrastructure/resilience"
)

type Client struct {
	baseURL            string
	genModel           string
	embedModel         string
	httpClient         *http.Client
	limiter            *rate.Limiter
	executor           *resilience.Executor
	generationExecutor *resilience.Executor
}

type Options struct {
	HTTPTimeout time.Duration
	// RequestsPerSecond throttles outbound calls; zero disables the limiter.
	RequestsPerSecond float64
	Executor          *resilience.Executor
	// GenerationExecutor, when set, handles generate calls instead of
	// Executor. Generate runs against a much longer deadline than embed and
	// wants its own retry and breaker tuning.
	GenerationExecutor *resilience.Executor
}

func New(baseURL, genModel, embedModel string) *Client {
	return NewWithOptions(baseURL, genModel, embedModel, Options{})
}

func NewWithOptions(baseURL, genModel, embedModel string, options Options) *Client {
	httpTimeout := options.HTTPTimeout
	if httpTimeout <= 0 {
		httpTimeout = 120 * time.Second
	}
	var limiter *rate.Limiter
	if options.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(options.RequestsPerSecond), 1)
	}
	return &Client{
		baseURL:            strings.TrimRight(baseURL, "/"),
		genModel:           genModel,
		embedModel:         embedModel,
		httpClient:         &http.Client{Timeout: httpTimeout},
		limiter:            limiter,
		executor:           options.Executor,
		generationExecutor: options.GenerationExecutor,
	}
}

// Embedder implements the retrieval-side embedding port. Failures are
// surfaced as retrieval-unavailable so callers can fall back to the lexical
// path.
type Embedder struct {
	client *Client
}

func NewEmbedder(client *Client) *Embedder {
	return &Embedder{client: client}
}

func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	request := map[string]any{
		"model": e.client.embedModel,
		"input": texts,
	}

	var response struct {
		Embeddings [][]float32 `json:"embeddings"`
	}
	if err := e.client.call(ctx, "/api/embed", request, &response, "embed"); err != nil {
		return nil, domain.WrapError(domain.ErrRetrievalUnavailable, "embed", err)
	}
	if len(response.Embeddings) != len(texts) {
		return nil, domain.WrapError(
			domain.ErrRetrievalUnavailable,
			"embed",
			fmt.Errorf("embeddings/texts mismatch: %d/%d", len(response.Embeddings), len(texts)),
		)
	}
	return response.Embeddings, nil
}

func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, domain.WrapError(domain.ErrRetrievalUnavailable, "embed query", fmt.Errorf("empty embedding result"))
	}
	return vectors[0], nil
}

// Generator implements the answer generation port. Errors are returned as-is:
// the answer use case recovers them with the local extractive fallback.
type Generator struct {
	client *Client
}

func NewGenerator(client *Client) *Generator {
	return &Generator{client: client}
}

func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	request := map[string]any{
		"model":  g.client.genModel,
		"prompt": prompt,
		"stream": false,
	}

	var response struct {
		Response string `json:"response"`
	}
	if err := g.client.call(ctx, "/api/generate", request, &response, "generate"); err != nil {
		return "", err
	}
	return strings.TrimSpace(response.Response), nil
}

func (c *Client) call(ctx context.Context, path string, payload, out any, operation string) error {
	do := func(callCtx context.Context) error {
		return c.postJSON(callCtx, path, payload, out, operation)
	}

	executor := c.executor
	if operation == "generate" && c.generationExecutor != nil {
		executor = c.generationExecutor
	}

	var err error
	if executor != nil {
		err = executor.Execute(ctx, "ollama."+operation, do, classifyOllamaError)
	} else {
		err = do(ctx)
	}
	return wrapTemporaryIfNeeded(operation, err)
}
