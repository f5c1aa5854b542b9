// Package ollama hosts the local-model side of the pipeline: domain
// classification, query rewriting and query embedding. Calls go to the
// ollama HTTP API directly; no SDK.
package ollama

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jhpark-lab/career-coach/internal/core/domain"
	"github.com/jhpark-lab/career-coach/internal/infrastructure/resilience"
)

type Client struct {
	baseURL    string
	genModel   string
	embedModel string
	httpClient *http.Client
	executor   *resilience.Executor
}

type Options struct {
	Timeout            time.Duration
	ResilienceExecutor *resilience.Executor
}

func New(baseURL, genModel, embedModel string) *Client {
	return NewWithOptions(baseURL, genModel, embedModel, Options{})
}

func NewWithOptions(baseURL, genModel, embedModel string, options Options) *Client {
	timeout := options.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		genModel:   genModel,
		embedModel: embedModel,
		httpClient: &http.Client{Timeout: timeout},
		executor:   options.ResilienceExecutor,
	}
}

func (c *Client) call(ctx context.Context, operation string, fn func(context.Context) error) error {
	var err error
	if c.executor != nil {
		err = c.executor.Execute(ctx, operation, fn, classifyOllamaError)
	} else {
		err = fn(ctx)
	}
	return wrapTemporaryIfNeeded(operation, err)
}

// Classifier routes each question onto the closed category set. The model
// answers with a Korean label; anything outside the two known labels maps to
// the unrelated category instead of guessing.
type Classifier struct {
	client *Client
}

func NewClassifier(client *Client) *Classifier {
	return &Classifier{client: client}
}

func (c *Classifier) ClassifyDomain(ctx context.Context, userProfile, question string) (domain.Category, error) {
	raw, err := c.client.generateText(ctx, buildClassifyPrompt(userProfile, question), "classify")
	if err != nil {
		return domain.CategoryUnrelated, err
	}
	return normalizeCategory(raw), nil
}

func normalizeCategory(raw string) domain.Category {
	label := strings.TrimSpace(strings.Trim(strings.TrimSpace(raw), `"'`))
	switch {
	case strings.Contains(label, "면접"):
		return domain.CategoryInterview
	case strings.Contains(label, "대학"):
		return domain.CategoryCollege
	default:
		return domain.CategoryUnrelated
	}
}

// Rewriter refines a question into a single retrieval-friendly query.
type Rewriter struct {
	client *Client
}

func NewRewriter(client *Client) *Rewriter {
	return &Rewriter{client: client}
}

func (r *Rewriter) Rewrite(ctx context.Context, userProfile string, category domain.Category, question string) (string, error) {
	raw, err := r.client.generateText(ctx, buildRewritePrompt(userProfile, category, question), "rewrite")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(raw), nil
}

type Embedder struct {
	client *Client
}

func NewEmbedder(client *Client) *Embedder {
	return &Embedder{client: client}
}

func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	request := map[string]any{
		"model": e.client.embedModel,
		"input": []string{text},
	}

	var response struct {
		Embeddings [][]float32 `json:"embeddings"`
	}
	err := e.client.call(ctx, "ollama.embed", func(ctx context.Context) error {
		return e.client.postJSON(ctx, "/api/embed", request, &response, "embed")
	})
	if err != nil {
		return nil, err
	}
	if len(response.Embeddings) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}
	return response.Embeddings[0], nil
}

func (c *Client) generateText(ctx context.Context, prompt, operation string) (string, error) {
	request := map[string]any{
		"model":  c.genModel,
		"prompt": prompt,
		"stream": false,
	}

	var response struct {
		Response string `json:"response"`
	}
	err := c.call(ctx, "ollama."+operation, func(ctx context.Context) error {
		return c.postJSON(ctx, "/api/generate", request, &response, operation)
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(response.Response), nil
}
