package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GeminiClient implements Client for Google Gemini
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if config == nil {
		config = DefaultGeminiConfig()
	}

	opts := []option.ClientOption{option.WithAPIKey(apiKey)}
	if config.BaseURL != "" {
		opts = append(opts, option.WithEndpoint(config.BaseURL))
	}

	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		config: config,
	}, nil
}

// Complete implements Client.
func (c *GeminiClient) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	modelName := modelFor(req, c.config)

	model := c.client.GenerativeModel(modelName)
	model.SetTemperature(float32(req.Sampling.Temperature))
	model.SetTopP(float32(req.Sampling.TopP))
	model.SetMaxOutputTokens(int32(req.MaxTokens))
	if req.JSON {
		model.ResponseMIMEType = "application/json"
	}

	return c.config.call(ctx, modelName, geminiStatus, func(ctx context.Context) (*CompletionResponse, error) {
		resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
		if err != nil {
			return nil, err
		}

		text, err := extractTextFromResponse(resp)
		if err != nil {
			return nil, err
		}

		out := &CompletionResponse{
			Text:         text,
			Model:        modelName,
			FinishReason: strings.ToLower(resp.Candidates[0].FinishReason.String()),
		}
		if resp.UsageMetadata != nil {
			out.PromptTokens = int(resp.UsageMetadata.PromptTokenCount)
			out.CompletionTokens = int(resp.UsageMetadata.CandidatesTokenCount)
		}
		return out, nil
	})
}

// Count returns the exact prompt token count reported by the Gemini API.
// It makes GeminiClient usable as a token counter for budgeting.
func (c *GeminiClient) Count(ctx context.Context, text, model string) (int, error) {
	if model == "" {
		model = modelFor(CompletionRequest{}, c.config)
	}
	resp, err := c.client.GenerativeModel(model).CountTokens(ctx, genai.Text(text))
	if err != nil {
		return 0, fmt.Errorf("failed to count tokens: %w", err)
	}
	return int(resp.TotalTokens), nil
}

// Name identifies the counter in logs.
func (c *GeminiClient) Name() string {
	return "gemini"
}

// Model implements Client.
func (c *GeminiClient) Model() string {
	return modelFor(CompletionRequest{}, c.config)
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// extractTextFromResponse extracts text from Gemini API response
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}

func geminiStatus(err error) int {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return 0
}
