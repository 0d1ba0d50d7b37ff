// Package llm sends resume prompts to a text-completion provider.
// Calls are bounded by a per-attempt timeout and transient failures are retried with backoff.
package llm

import (
	"log/slog"
	"time"
)

// Provider represents an LLM provider
type Provider string

const (
	// ProviderOpenAI is the OpenAI text-completions API
	ProviderOpenAI Provider = "openai"
	// ProviderGemini is the Google Gemini API
	ProviderGemini Provider = "gemini"
)

// Default models per provider.
const (
	DefaultOpenAIModel = "gpt-3.5-turbo-instruct"
	DefaultGeminiModel = "gemini-2.5-flash"
)

// Defaults for call bounding.
const (
	DefaultTimeout        = 60 * time.Second
	DefaultMaxRetries     = 2
	DefaultInitialBackoff = 500 * time.Millisecond
	DefaultMaxBackoff     = 8 * time.Second
)

// Config holds the completion client configuration
type Config struct {
	Provider Provider
	Model    string
	// BaseURL overrides the provider endpoint (OpenAI-compatible servers, tests).
	BaseURL string

	// Timeout bounds each attempt, not the whole call.
	Timeout time.Duration
	// MaxRetries is the number of retries after the first attempt. Zero disables retry.
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration

	// Logger receives retry events. Nil discards them.
	Logger *slog.Logger
}

// DefaultConfig returns the default configuration (OpenAI completions)
func DefaultConfig() *Config {
	return &Config{
		Provider:       ProviderOpenAI,
		Model:          DefaultOpenAIModel,
		Timeout:        DefaultTimeout,
		MaxRetries:     DefaultMaxRetries,
		InitialBackoff: DefaultInitialBackoff,
		MaxBackoff:     DefaultMaxBackoff,
	}
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	config := DefaultConfig()
	config.Provider = ProviderGemini
	config.Model = DefaultGeminiModel
	return config
}

// DefaultModel returns the default model of a provider.
func DefaultModel(provider Provider) string {
	if provider == ProviderGemini {
		return DefaultGeminiModel
	}
	return DefaultOpenAIModel
}

// WithModel returns a copy of the config using model.
func (c *Config) WithModel(model string) *Config {
	newConfig := *c
	newConfig.Model = model
	return &newConfig
}

func (c *Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}

func (c *Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.Timeout
}
