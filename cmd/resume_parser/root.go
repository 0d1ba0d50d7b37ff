package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-parser/internal/config"
	"github.com/jonathan/resume-parser/internal/llm"
	"github.com/jonathan/resume-parser/internal/logging"
	"github.com/jonathan/resume-parser/internal/pipeline"
	"github.com/jonathan/resume-parser/internal/prompts"
	"github.com/jonathan/resume-parser/internal/tokens"
)

var (
	configPath string
	logLevel   string
	logFormat  string
	logFile    string
)

// Loaded by setupRuntime before any subcommand runs.
var (
	cfg       *config.Config
	logger    *slog.Logger
	logCloser io.Closer
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a JSON config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: color, text or json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Append logs to this file instead of stderr")
}

// setupRuntime loads configuration, builds the logger and tags the command
// context with a request id.
func setupRuntime(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		loaded.LogLevel = logLevel
	}
	if flags.Changed("log-format") {
		loaded.LogFormat = logFormat
	}
	if flags.Changed("log-file") {
		loaded.LogFile = logFile
	}

	l, closer, err := logging.New(logging.Config{Level: loaded.LogLevel, Format: loaded.LogFormat, File: loaded.LogFile})
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}

	cfg, logger, logCloser = loaded, l, closer

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.WithRequestID(ctx, logging.NewRequestID()))
	return nil
}

func teardownRuntime(_ *cobra.Command, _ []string) error {
	if logCloser == nil {
		return nil
	}
	err := logCloser.Close()
	logCloser = nil
	return err
}

// newParser builds the completion client and pipeline described by c.
func newParser(ctx context.Context, c *config.Config, sections []prompts.Section, onProgress pipeline.ProgressCallback) (*pipeline.ResumeParser, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	format, err := c.ResponseFormat()
	if err != nil {
		return nil, err
	}

	apiKey := c.APIKey()
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required (set %s or %s)", config.EnvOpenAIAPIKey, config.EnvGeminiAPIKey)
	}

	client, err := llm.NewClient(ctx, c.LLMConfig(logger), apiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create completion client: %w", err)
	}

	return pipeline.NewResumeParser(pipeline.Options{
		Format:             format,
		Client:             client,
		Budgeter:           newBudgeter(c, client.Model(), client),
		Logger:             logger,
		BasicInfoMaxTokens: c.BasicInfoMaxTokens,
		WorkMaxTokens:      c.WorkMaxTokens,
		JSONMaxTokens:      c.JSONMaxTokens,
		Sections:           sections,
		Verify:             c.Verify,
		OnProgress:         onProgress,
	})
}

// newBudgeter honors the configured context window override for model. With
// exact counting, a client that counts tokens itself (Gemini) is preferred over tiktoken.
func newBudgeter(c *config.Config, model string, client llm.Client) *tokens.Budgeter {
	budgeter := tokens.NewBudgeter(c.ExactTokens)
	if counter, ok := client.(tokens.Counter); ok && c.ExactTokens {
		budgeter = tokens.NewProviderBudgeter(counter)
	}
	if c.ContextWindow > 0 {
		budgeter.Windows = map[string]int{model: c.ContextWindow}
	}
	return budgeter
}

// sectionMaxTokens returns the configured completion limit of a section.
func sectionMaxTokens(c *config.Config, section prompts.Section) int {
	switch section {
	case prompts.SectionBasicInfo:
		return c.BasicInfoMaxTokens
	case prompts.SectionWorkExperience:
		return c.WorkMaxTokens
	default:
		return c.JSONMaxTokens
	}
}
