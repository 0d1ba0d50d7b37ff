package parsing

import (
	"fmt"

	"github.com/jonathan/resume-parser/internal/types"
)

// Sections named in parse errors.
const (
	SectionBasicInfo      = "basic_info"
	SectionWorkExperience = "work_experience"
	SectionResume         = "resume"
)

// ParseError represents a model response that could not be turned into a record.
// Raw keeps the offending response text for diagnosis.
type ParseError struct {
	Format  types.ResponseFormat
	Section string
	Message string
	Raw     string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error (%s %s): %s: %v", e.Format, e.Section, e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error (%s %s): %s", e.Format, e.Section, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// ValidationError records a field value that was rejected and nulled.
type ValidationError struct {
	Message string
	Field   string
	Value   string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error in %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}
