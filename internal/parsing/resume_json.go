package parsing

import (
	"encoding/json"

	"github.com/jonathan/resume-parser/internal/llm"
	"github.com/jonathan/resume-parser/internal/schemas"
	"github.com/jonathan/resume-parser/internal/types"
)

// ParseResumeJSON parses a JSON-format response into a ResumeRecord. Markdown fences
// and surrounding chatter are removed first. Text that is not JSON, or JSON missing
// the basic_info, work_experience or project_experience keys, yields a *ParseError.
// The URL and email sanity checks of the delimited format are applied as well.
func ParseResumeJSON(raw string) (*types.ResumeRecord, error) {
	cleaned := llm.CleanJSONBlock(raw)

	if !json.Valid([]byte(cleaned)) {
		return nil, &ParseError{
			Format:  types.FormatJSON,
			Section: SectionResume,
			Message: "response is not valid JSON",
			Raw:     raw,
		}
	}

	if err := schemas.ValidateResumeRecord([]byte(cleaned)); err != nil {
		return nil, &ParseError{
			Format:  types.FormatJSON,
			Section: SectionResume,
			Message: "response does not match the resume record schema",
			Raw:     raw,
			Cause:   err,
		}
	}

	var record types.ResumeRecord
	if err := json.Unmarshal([]byte(cleaned), &record); err != nil {
		return nil, &ParseError{
			Format:  types.FormatJSON,
			Section: SectionResume,
			Message: "failed to decode resume record",
			Raw:     raw,
			Cause:   err,
		}
	}

	if record.BasicInfo == nil {
		record.BasicInfo = &types.BasicInfo{}
	}
	if record.WorkExperience == nil {
		record.WorkExperience = []types.WorkExperience{}
	}
	if record.ProjectExperience == nil {
		record.ProjectExperience = []types.ProjectExperience{}
	}

	Sanitize(record.BasicInfo)
	return &record, nil
}
