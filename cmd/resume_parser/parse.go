package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-parser/internal/logging"
	"github.com/jonathan/resume-parser/internal/observability"
	"github.com/jonathan/resume-parser/internal/pipeline"
	"github.com/jonathan/resume-parser/internal/prompts"
	"github.com/jonathan/resume-parser/internal/schemas"
	"github.com/jonathan/resume-parser/internal/tokens"
	"github.com/jonathan/resume-parser/internal/types"
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse a resume into a ResumeRecord JSON",
	Long:  "Extract the text of a resume (.pdf, .docx or plain .txt), query the completion model and write the parsed ResumeRecord as JSON.",
	RunE:  runParse,
}

var (
	parseInputFile   string
	parseOutputFile  string
	parseFormat      string
	parseProvider    string
	parseModel       string
	parseNoInfo      bool
	parseNoWork      bool
	parseVerify      bool
	parseExactTokens bool
	parseVerbose     bool
)

func init() {
	parseCmd.Flags().StringVarP(&parseInputFile, "in", "i", "", "Path to the resume file (required)")
	parseCmd.Flags().StringVarP(&parseOutputFile, "out", "o", "", "Path to output JSON file (default stdout)")
	parseCmd.Flags().StringVar(&parseFormat, "format", "", "Response format: delimited or json")
	parseCmd.Flags().StringVar(&parseProvider, "provider", "", "Completion provider: openai or gemini")
	parseCmd.Flags().StringVar(&parseModel, "model", "", "Model name (default depends on provider)")
	parseCmd.Flags().BoolVar(&parseNoInfo, "no-info", false, "Skip the basic info query (delimited format)")
	parseCmd.Flags().BoolVar(&parseNoWork, "no-work", false, "Skip the work experience query (delimited format)")
	parseCmd.Flags().BoolVar(&parseVerify, "verify", false, "Null basic info values that do not occur in the resume text")
	parseCmd.Flags().BoolVar(&parseExactTokens, "exact-tokens", false, "Count prompt tokens with the model vocabulary")
	parseCmd.Flags().BoolVarP(&parseVerbose, "verbose", "v", false, "Print budgets and the parsed record to stderr")

	_ = parseCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Format = parseFormat
	}
	if flags.Changed("provider") {
		cfg.Provider = parseProvider
	}
	if flags.Changed("model") {
		cfg.Model = parseModel
	}
	if parseVerify {
		cfg.Verify = true
	}
	if parseExactTokens {
		cfg.ExactTokens = true
	}

	format, err := types.ParseResponseFormat(cfg.Format)
	if err != nil {
		return err
	}
	sections, err := selectSections(format, parseNoInfo, parseNoWork)
	if err != nil {
		return err
	}

	var printer *observability.Printer
	var onProgress pipeline.ProgressCallback
	if parseVerbose {
		printer = observability.NewPrinter(cmd.ErrOrStderr())
		onProgress = func(event pipeline.ProgressEvent) {
			if budget, ok := event.Content.(tokens.Budget); ok {
				printer.PrintBudget(event.Section, budget)
			}
		}
	}

	ctx := cmd.Context()
	parser, err := newParser(ctx, cfg, sections, onProgress)
	if err != nil {
		return err
	}

	var record *types.ResumeRecord
	if isPlainText(parseInputFile) {
		doc, err := loadDocument(parseInputFile)
		if err != nil {
			return err
		}
		record, err = parser.ParseText(ctx, doc.Text)
		if err != nil {
			return fmt.Errorf("failed to parse resume: %w", err)
		}
	} else {
		record, err = parser.ParseFile(ctx, parseInputFile)
		if err != nil {
			return fmt.Errorf("failed to parse resume: %w", err)
		}
	}

	if printer != nil {
		printer.PrintResume(record)
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	if err := schemas.ValidateResumeRecord(data); err != nil {
		logging.FromContext(ctx, logger).Warn("record does not match schema", "error", err)
	}

	return writeRecord(cmd.OutOrStdout(), parseOutputFile, data)
}

// selectSections maps --no-info and --no-work onto the queries of a format.
func selectSections(format types.ResponseFormat, noInfo, noWork bool) ([]prompts.Section, error) {
	if format == types.FormatJSON {
		if noInfo || noWork {
			return nil, fmt.Errorf("--no-info and --no-work apply to the delimited format only")
		}
		return prompts.Sections(format), nil
	}

	var sections []prompts.Section
	if !noInfo {
		sections = append(sections, prompts.SectionBasicInfo)
	}
	if !noWork {
		sections = append(sections, prompts.SectionWorkExperience)
	}
	if len(sections) == 0 {
		return nil, fmt.Errorf("nothing to parse: both --no-info and --no-work are set")
	}
	return sections, nil
}

func isPlainText(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".txt")
}

//nolint:errcheck // writing to stdout; errors are not recoverable
func writeRecord(stdout io.Writer, path string, data []byte) error {
	if path == "" {
		fmt.Fprintln(stdout, string(data))
		return nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	fmt.Fprintf(stdout, "Saved record to %s\n", path)
	return nil
}
