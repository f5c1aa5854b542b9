// Package openai hosts the hosted-model side of the pipeline: chunk
// relevance scoring, final answer generation and answer verification.
// Every call passes a shared rate limiter before hitting the API.
package openai

import (
	"context"
	"fmt"
	"strings"

	sdk "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"golang.org/x/time/rate"

	"github.com/jhpark-lab/career-coach/internal/infrastructure/resilience"
)

type Client struct {
	api         sdk.Client
	evalModel   string
	genModel    string
	verifyModel string
	evalTemp    float64
	genTemp     float64
	limiter     *rate.Limiter
	executor    *resilience.Executor
}

type Options struct {
	EvalModel   string
	GenModel    string
	VerifyModel string

	EvalTemperature float64
	GenTemperature  float64

	RequestsPerSecond  float64
	Burst              int
	ResilienceExecutor *resilience.Executor

	// BaseURL overrides the API endpoint, used by tests.
	BaseURL string
}

func New(apiKey string, options Options) *Client {
	if options.EvalModel == "" {
		options.EvalModel = "gpt-4o-mini"
	}
	if options.GenModel == "" {
		options.GenModel = "gpt-4o"
	}
	if options.VerifyModel == "" {
		options.VerifyModel = "gpt-4.1-mini"
	}
	if options.GenTemperature <= 0 {
		options.GenTemperature = 0.2
	}
	if options.RequestsPerSecond <= 0 {
		options.RequestsPerSecond = 5
	}
	if options.Burst <= 0 {
		options.Burst = 5
	}

	requestOptions := []option.RequestOption{option.WithAPIKey(apiKey)}
	if options.BaseURL != "" {
		requestOptions = append(requestOptions, option.WithBaseURL(options.BaseURL))
	}

	return &Client{
		api:         sdk.NewClient(requestOptions...),
		evalModel:   options.EvalModel,
		genModel:    options.GenModel,
		verifyModel: options.VerifyModel,
		evalTemp:    options.EvalTemperature,
		genTemp:     options.GenTemperature,
		limiter:     rate.NewLimiter(rate.Limit(options.RequestsPerSecond), options.Burst),
		executor:    options.ResilienceExecutor,
	}
}

func (c *Client) complete(ctx context.Context, operation, model string, temperature float64, system, user string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	params := sdk.ChatCompletionNewParams{
		Model: sdk.ChatModel(model),
		Messages: []sdk.ChatCompletionMessageParamUnion{
			sdk.SystemMessage(system),
			sdk.UserMessage(user),
		},
		Temperature: sdk.Float(temperature),
	}

	var content string
	call := func(ctx context.Context) error {
		resp, err := c.api.Chat.Completions.New(ctx, params)
		if err != nil {
			return fmt.Errorf("openai %s: %w", operation, err)
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("openai %s: empty choices", operation)
		}
		content = resp.Choices[0].Message.Content
		return nil
	}

	var err error
	if c.executor != nil {
		err = c.executor.Execute(ctx, operation, call, classifyOpenAIError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return "", wrapUnavailableIfNeeded(operation, err)
	}
	return strings.TrimSpace(content), nil
}
