package llm

import (
	"context"
	"fmt"
	"strings"
)

// Sampling holds the generation parameters sent with every completion.
type Sampling struct {
	Temperature      float64
	TopP             float64
	FrequencyPenalty float64
	PresencePenalty  float64
}

// DefaultSampling is deterministic decoding: temperature 0, top_p 1, no penalties.
func DefaultSampling() Sampling {
	return Sampling{Temperature: 0, TopP: 1}
}

// CompletionRequest is one prompt sent to the model.
type CompletionRequest struct {
	Prompt string
	// Model overrides the client's configured model when set.
	Model     string
	MaxTokens int
	Sampling  Sampling
	// JSON asks providers that support it for a JSON response body.
	JSON bool
}

// CompletionResponse is the first choice of a completion.
type CompletionResponse struct {
	Text             string
	Model            string
	FinishReason     string
	PromptTokens     int
	CompletionTokens int
	Attempts         int
}

// Client is an abstraction over completion providers
type Client interface {
	// Complete sends the request and returns the generated text of the first choice.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	// Model returns the default model used when a request names none.
	Model() string
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a completion client for the configured provider
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderOpenAI, "":
		return NewOpenAIClient(config, apiKey)
	case ProviderGemini:
		return NewGeminiClient(ctx, config, apiKey)
	default:
		return nil, fmt.Errorf("unsupported provider %q", config.Provider)
	}
}

func validateRequest(req CompletionRequest) error {
	if strings.TrimSpace(req.Prompt) == "" {
		return fmt.Errorf("prompt is required")
	}
	if req.MaxTokens <= 0 {
		return fmt.Errorf("max tokens must be positive, got %d", req.MaxTokens)
	}
	return nil
}

func modelFor(req CompletionRequest, config *Config) string {
	if req.Model != "" {
		return req.Model
	}
	if config.Model != "" {
		return config.Model
	}
	return DefaultModel(config.Provider)
}
