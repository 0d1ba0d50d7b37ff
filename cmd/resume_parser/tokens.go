package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-parser/internal/ingestion"
	"github.com/jonathan/resume-parser/internal/llm"
	"github.com/jonathan/resume-parser/internal/observability"
	"github.com/jonathan/resume-parser/internal/prompts"
	"github.com/jonathan/resume-parser/internal/types"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens",
	Short: "Estimate prompt tokens and completion allowance for a resume",
	Long:  "Build every prompt the parse command would send for a resume and print the estimated prompt size and the max tokens that would be requested.",
	RunE:  runTokens,
}

var (
	tokensInputFile string
	tokensModel     string
	tokensFormat    string
	tokensExact     bool
	tokensMaxTokens int
	tokensMetadata  bool
)

func init() {
	tokensCmd.Flags().StringVarP(&tokensInputFile, "in", "i", "", "Path to the resume file (required)")
	tokensCmd.Flags().StringVar(&tokensModel, "model", "", "Model whose context window and vocabulary apply")
	tokensCmd.Flags().StringVar(&tokensFormat, "format", "", "Response format: delimited or json")
	tokensCmd.Flags().BoolVar(&tokensExact, "exact", false, "Count with the model vocabulary instead of the estimate")
	tokensCmd.Flags().IntVar(&tokensMaxTokens, "max-tokens", 0, "Requested completion tokens (default per section)")
	tokensCmd.Flags().BoolVar(&tokensMetadata, "metadata", false, "Also print the ingested file metadata as JSON")

	_ = tokensCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(tokensCmd)
}

//nolint:errcheck // writing to stdout; errors are not recoverable
func runTokens(cmd *cobra.Command, _ []string) error {
	if cmd.Flags().Changed("format") {
		cfg.Format = tokensFormat
	}
	if tokensExact {
		cfg.ExactTokens = true
	}
	format, err := types.ParseResponseFormat(cfg.Format)
	if err != nil {
		return err
	}

	model := tokensModel
	if model == "" {
		model = cfg.Model
	}
	if model == "" {
		model = llm.DefaultModel(llm.Provider(cfg.Provider))
	}

	doc, err := loadDocument(tokensInputFile)
	if err != nil {
		return err
	}
	if tokensMetadata {
		data, err := doc.Metadata.ToJSON()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	}

	budgeter := newBudgeter(cfg, model, nil)
	printer := observability.NewPrinter(cmd.OutOrStdout())
	for _, section := range prompts.Sections(format) {
		prompt, err := prompts.Build(format, section, doc.Text)
		if err != nil {
			return err
		}

		requested := tokensMaxTokens
		if requested <= 0 {
			requested = sectionMaxTokens(cfg, section)
		}
		budget, err := budgeter.Plan(cmd.Context(), prompt, model, requested)
		if err != nil {
			return err
		}
		printer.PrintBudget(string(section), budget)
	}
	return nil
}

// loadDocument ingests a resume file; plain .txt files are only normalized.
func loadDocument(path string) (*ingestion.Document, error) {
	if !isPlainText(path) {
		return ingestion.IngestFile(path)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	text := ingestion.NormalizeString(string(content))
	return &ingestion.Document{Text: text, Metadata: ingestion.NewMetadata(text, path, 1)}, nil
}
