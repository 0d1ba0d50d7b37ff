package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// OpenAIClient implements Client for the OpenAI text-completions endpoint
type OpenAIClient struct {
	client *openai.Client
	config *Config
}

// NewOpenAIClient creates a new OpenAI client. SDK retries are disabled; Config owns retry policy.
func NewOpenAIClient(config *Config, apiKey string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if config == nil {
		config = DefaultConfig()
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	return &OpenAIClient{
		client: openai.NewClient(opts...),
		config: config,
	}, nil
}

// Complete implements Client.
func (c *OpenAIClient) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	model := modelFor(req, c.config)

	params := openai.CompletionNewParams{
		Model:            openai.F(openai.CompletionNewParamsModel(model)),
		Prompt:           openai.F[openai.CompletionNewParamsPromptUnion](shared.UnionString(req.Prompt)),
		MaxTokens:        openai.F(int64(req.MaxTokens)),
		Temperature:      openai.F(req.Sampling.Temperature),
		TopP:             openai.F(req.Sampling.TopP),
		FrequencyPenalty: openai.F(req.Sampling.FrequencyPenalty),
		PresencePenalty:  openai.F(req.Sampling.PresencePenalty),
	}

	return c.config.call(ctx, model, openAIStatus, func(ctx context.Context) (*CompletionResponse, error) {
		completion, err := c.client.Completions.New(ctx, params)
		if err != nil {
			return nil, err
		}
		if len(completion.Choices) == 0 {
			return nil, fmt.Errorf("no choices in response")
		}

		choice := completion.Choices[0]
		return &CompletionResponse{
			Text:             choice.Text,
			Model:            completion.Model,
			FinishReason:     string(choice.FinishReason),
			PromptTokens:     int(completion.Usage.PromptTokens),
			CompletionTokens: int(completion.Usage.CompletionTokens),
		}, nil
	})
}

// Model implements Client.
func (c *OpenAIClient) Model() string {
	return modelFor(CompletionRequest{}, c.config)
}

// Close implements Client. The HTTP client holds no resources of its own.
func (c *OpenAIClient) Close() error {
	return nil
}

func openAIStatus(err error) int {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
