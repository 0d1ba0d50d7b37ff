// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-parser/internal/tokens"
	"github.com/jonathan/resume-parser/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate shortens s to width runes, ending in "..." when cut.
func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintResume outputs every section of a parsed record.
func (p *Printer) PrintResume(record *types.ResumeRecord) {
	if record == nil {
		return
	}
	p.PrintBasicInfo(record.BasicInfo)
	p.PrintWorkExperience(record.WorkExperience)
	p.PrintProjects(record.ProjectExperience)
}

// PrintBasicInfo outputs the non-empty basic-info fields in canonical order.
func (p *Printer) PrintBasicInfo(info *types.BasicInfo) {
	if info == nil || info.IsEmpty() {
		return
	}

	values := info.Values()
	var sb strings.Builder
	for _, key := range types.BasicInfoKeys {
		if value, ok := values[key]; ok {
			sb.WriteString(fmt.Sprintf("%-22s %s\n", key+":", value))
		}
	}
	if len(info.Majors) > 0 {
		sb.WriteString(fmt.Sprintf("%-22s %s\n", types.KeyMajors+":", strings.Join(info.Majors, ", ")))
	}
	p.printBox("BASIC INFO", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintWorkExperience outputs the first jobs with organization and duration.
func (p *Printer) PrintWorkExperience(jobs []types.WorkExperience) {
	if len(jobs) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total jobs: %d\n\n", len(jobs)))

	count := min(len(jobs), maxItemsToShow)
	for i := 0; i < count; i++ {
		job := jobs[i]
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, job.JobTitle))
		sb.WriteString(fmt.Sprintf("    %s", job.Organization))
		if job.Location != "" {
			sb.WriteString(fmt.Sprintf(", %s", job.Location))
		}
		sb.WriteString("\n")
		if job.Duration != "" {
			sb.WriteString(fmt.Sprintf("    %s\n", job.Duration))
		}
		if job.Description != "" {
			sb.WriteString(fmt.Sprintf("    %s\n", truncate(job.Description, 50)))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(jobs) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more jobs", len(jobs)-maxItemsToShow))
	}

	p.printBox("WORK EXPERIENCE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintProjects outputs project names with a short description.
func (p *Printer) PrintProjects(projects []types.ProjectExperience) {
	if len(projects) == 0 {
		return
	}

	var sb strings.Builder
	count := min(len(projects), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("• %s\n", projects[i].Name))
		if projects[i].Description != "" {
			sb.WriteString(fmt.Sprintf("  %s\n", truncate(projects[i].Description, 50)))
		}
	}
	if len(projects) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more projects\n", len(projects)-maxItemsToShow))
	}

	p.printBox("PROJECT EXPERIENCE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintBudget outputs the sizing decision for one request.
func (p *Printer) PrintBudget(section string, budget tokens.Budget) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Estimator:      %s\n", budget.Estimator))
	sb.WriteString(fmt.Sprintf("Prompt tokens:  %d\n", budget.PromptTokens))
	sb.WriteString(fmt.Sprintf("Context window: %d\n", budget.ContextWindow))
	sb.WriteString(fmt.Sprintf("Requested:      %d\n", budget.Requested))
	sb.WriteString(fmt.Sprintf("Max tokens:     %d", budget.MaxTokens))
	if budget.Warning != nil {
		sb.WriteString(fmt.Sprintf("\n\n⚠ %s", budget.Warning.String()))
	}
	p.printBox("TOKEN BUDGET ("+section+")", sb.String())
}

// PrintValidationErrors outputs schema validation failures of a record.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintValidationErrors(problems []string) {
	if len(problems) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ RECORD IS VALID")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d problems:\n\n", len(problems)))
	for _, problem := range problems {
		sb.WriteString(fmt.Sprintf("⚠ %s\n", problem))
	}

	p.printBox("SCHEMA VIOLATIONS", strings.TrimSuffix(sb.String(), "\n"))
}
