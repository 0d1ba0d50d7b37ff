// Package pipeline provides the high-level orchestration for parsing a resume:
// extract, normalize, build prompts, budget tokens, call the model and parse the reply.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jonathan/resume-parser/internal/ingestion"
	"github.com/jonathan/resume-parser/internal/llm"
	"github.com/jonathan/resume-parser/internal/logging"
	"github.com/jonathan/resume-parser/internal/parsing"
	"github.com/jonathan/resume-parser/internal/prompts"
	"github.com/jonathan/resume-parser/internal/tokens"
	"github.com/jonathan/resume-parser/internal/types"
)

// Default completion sizes per query.
const (
	DefaultBasicInfoMaxTokens = 500
	DefaultWorkMaxTokens      = 1500
	DefaultJSONMaxTokens      = 2000
)

// ProgressEvent represents a progress update during a parse
type ProgressEvent struct {
	Stage   string `json:"stage"`
	Section string `json:"section,omitempty"`
	Message string `json:"message"`
	Content any    `json:"content,omitempty"`
}

// ProgressCallback is called when parse progress occurs
type ProgressCallback func(event ProgressEvent)

// Stages reported through ProgressEvent.
const (
	StageExtract = "extract"
	StagePrompt  = "prompt"
	StageBudget  = "budget"
	StageQuery   = "query"
	StageParse   = "parse"
	StageVerify  = "verify"
)

// Options configures a ResumeParser.
type Options struct {
	Format types.ResponseFormat
	Client llm.Client
	// Budgeter sizes each request. Nil means the heuristic estimate with built-in windows.
	Budgeter *tokens.Budgeter
	Logger   *slog.Logger
	// Sampling defaults to llm.DefaultSampling when zero.
	Sampling *llm.Sampling

	BasicInfoMaxTokens int
	WorkMaxTokens      int
	JSONMaxTokens      int

	// Sections restricts which queries are sent. Nil sends every query of Format.
	Sections []prompts.Section
	// Verify nulls basic-info values that do not occur in the resume text.
	Verify bool

	// Extract turns a file into page texts. Nil means ingestion.ExtractFile.
	Extract func(path string) ([]string, error)

	OnProgress ProgressCallback
}

// ResumeParser runs the extract → prompt → budget → complete → parse pipeline.
// It holds no per-request state and is safe for concurrent use if its Client is.
type ResumeParser struct {
	opts     Options
	budgeter *tokens.Budgeter
	sampling llm.Sampling
	sections []prompts.Section
}

// NewResumeParser validates opts and fills defaults.
func NewResumeParser(opts Options) (*ResumeParser, error) {
	if opts.Client == nil {
		return nil, fmt.Errorf("completion client is required")
	}
	format, err := types.ParseResponseFormat(opts.Format.String())
	if err != nil {
		return nil, err
	}
	opts.Format = format

	sections := opts.Sections
	if sections == nil {
		sections = prompts.Sections(opts.Format)
	}
	for _, section := range sections {
		if _, err := prompts.Instructions(opts.Format, section); err != nil {
			return nil, err
		}
	}

	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Extract == nil {
		opts.Extract = ingestion.ExtractFile
	}
	if opts.BasicInfoMaxTokens <= 0 {
		opts.BasicInfoMaxTokens = DefaultBasicInfoMaxTokens
	}
	if opts.WorkMaxTokens <= 0 {
		opts.WorkMaxTokens = DefaultWorkMaxTokens
	}
	if opts.JSONMaxTokens <= 0 {
		opts.JSONMaxTokens = DefaultJSONMaxTokens
	}

	budgeter := opts.Budgeter
	if budgeter == nil {
		budgeter = tokens.NewBudgeter(false)
	}

	sampling := llm.DefaultSampling()
	if opts.Sampling != nil {
		sampling = *opts.Sampling
	}

	return &ResumeParser{opts: opts, budgeter: budgeter, sampling: sampling, sections: sections}, nil
}

// Format returns the response format the parser sends and expects.
func (p *ResumeParser) Format() types.ResponseFormat {
	return p.opts.Format
}

// ParseFile extracts, normalizes and parses the resume at path.
// Extraction failures are returned as *ingestion.ExtractionError.
func (p *ResumeParser) ParseFile(ctx context.Context, path string) (*types.ResumeRecord, error) {
	logger := logging.FromContext(ctx, p.opts.Logger)

	pages, err := p.opts.Extract(path)
	if err != nil {
		logger.Error("text extraction failed", "path", path, "error", err)
		return nil, err
	}

	text := ingestion.NormalizeText(pages)
	logger.Info("extracted resume text", "path", path, "pages", len(pages), "chars", len(text))
	p.emit(ProgressEvent{Stage: StageExtract, Message: fmt.Sprintf("extracted %d pages", len(pages))})

	return p.ParseText(ctx, text)
}

// ParseText parses already normalized resume text.
//
// With the delimited format each query is recovered on its own: a reply that cannot
// be parsed is logged with its raw text and yields empty fields. With the JSON format
// a parse failure is returned as *parsing.ParseError. Completion failures are always
// returned as *llm.APICallError.
func (p *ResumeParser) ParseText(ctx context.Context, text string) (*types.ResumeRecord, error) {
	if p.opts.Format == types.FormatJSON {
		return p.parseJSON(ctx, text)
	}
	return p.parseDelimited(ctx, text)
}

func (p *ResumeParser) parseDelimited(ctx context.Context, text string) (*types.ResumeRecord, error) {
	logger := logging.FromContext(ctx, p.opts.Logger)
	record := &types.ResumeRecord{
		BasicInfo:         &types.BasicInfo{},
		WorkExperience:    []types.WorkExperience{},
		ProjectExperience: []types.ProjectExperience{},
	}

	for _, section := range p.sections {
		raw, err := p.query(ctx, section, text)
		if err != nil {
			return nil, err
		}

		switch section {
		case prompts.SectionBasicInfo:
			info, err := parsing.ParseBasicInfo(raw)
			if err != nil {
				p.logParseError(logger, err)
			}
			if info != nil {
				record.BasicInfo = info
			}
		case prompts.SectionWorkExperience:
			jobs, err := parsing.ParseWorkExperience(raw)
			if err != nil {
				p.logParseError(logger, err)
			}
			if jobs != nil {
				record.WorkExperience = jobs
			}
		}
		p.emit(ProgressEvent{Stage: StageParse, Section: string(section), Message: "parsed response"})
	}

	p.verify(logger, record, text)
	logger.Info("parsed resume", "format", p.opts.Format.String(), "jobs", len(record.WorkExperience))
	return record, nil
}

func (p *ResumeParser) parseJSON(ctx context.Context, text string) (*types.ResumeRecord, error) {
	logger := logging.FromContext(ctx, p.opts.Logger)

	raw, err := p.query(ctx, prompts.SectionResume, text)
	if err != nil {
		return nil, err
	}

	record, err := parsing.ParseResumeJSON(raw)
	if err != nil {
		p.logParseError(logger, err)
		return nil, err
	}
	p.emit(ProgressEvent{Stage: StageParse, Section: string(prompts.SectionResume), Message: "parsed response"})

	p.verify(logger, record, text)
	logger.Info("parsed resume", "format", p.opts.Format.String(),
		"jobs", len(record.WorkExperience), "projects", len(record.ProjectExperience))
	return record, nil
}

// query builds the prompt for one section, sizes it and returns the raw completion text.
func (p *ResumeParser) query(ctx context.Context, section prompts.Section, text string) (string, error) {
	logger := logging.FromContext(ctx, p.opts.Logger).With("section", string(section))

	prompt, err := prompts.Build(p.opts.Format, section, text)
	if err != nil {
		return "", err
	}
	p.emit(ProgressEvent{Stage: StagePrompt, Section: string(section), Message: "built prompt"})

	model := p.opts.Client.Model()
	budget, err := p.budgeter.Plan(ctx, prompt, model, p.requested(section))
	if err != nil {
		return "", err
	}
	logger.Info("sized completion",
		"model", model,
		"estimator", budget.Estimator,
		"prompt_tokens", budget.PromptTokens,
		"context_window", budget.ContextWindow,
		"max_tokens", budget.MaxTokens)
	if budget.Warning != nil {
		logger.Warn(budget.Warning.String(),
			"kind", string(budget.Warning.Kind),
			"requested", budget.Warning.Requested,
			"allowed", budget.Warning.Allowed)
	}
	p.emit(ProgressEvent{Stage: StageBudget, Section: string(section), Message: "sized completion", Content: budget})

	resp, err := p.opts.Client.Complete(ctx, llm.CompletionRequest{
		Prompt:    prompt,
		Model:     model,
		MaxTokens: budget.MaxTokens,
		Sampling:  p.sampling,
		JSON:      p.opts.Format == types.FormatJSON,
	})
	if err != nil {
		logger.Error("completion failed", "model", model, "error", err)
		return "", err
	}
	logger.Info("received completion",
		"model", resp.Model,
		"finish_reason", resp.FinishReason,
		"attempts", resp.Attempts,
		"completion_tokens", resp.CompletionTokens)
	p.emit(ProgressEvent{Stage: StageQuery, Section: string(section), Message: "received completion"})

	return resp.Text, nil
}

func (p *ResumeParser) requested(section prompts.Section) int {
	switch section {
	case prompts.SectionBasicInfo:
		return p.opts.BasicInfoMaxTokens
	case prompts.SectionWorkExperience:
		return p.opts.WorkMaxTokens
	default:
		return p.opts.JSONMaxTokens
	}
}

func (p *ResumeParser) verify(logger *slog.Logger, record *types.ResumeRecord, text string) {
	if !p.opts.Verify || record.BasicInfo == nil {
		return
	}
	rejected := parsing.VerifyAgainstSource(record.BasicInfo, text)
	for _, v := range rejected {
		logger.Warn("value not found in resume text", "field", v.Field, "value", v.Value)
	}
	p.emit(ProgressEvent{Stage: StageVerify, Message: fmt.Sprintf("nulled %d values", len(rejected))})
}

func (p *ResumeParser) logParseError(logger *slog.Logger, err error) {
	var parseErr *parsing.ParseError
	if errors.As(err, &parseErr) {
		logger.Error("failed to parse response",
			"format", parseErr.Format.String(),
			"section", parseErr.Section,
			"error", err,
			"raw", parseErr.Raw)
		return
	}
	logger.Error("failed to parse response", "error", err)
}

func (p *ResumeParser) emit(event ProgressEvent) {
	if p.opts.OnProgress != nil {
		p.opts.OnProgress(event)
	}
}
