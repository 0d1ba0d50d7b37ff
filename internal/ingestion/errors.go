// Package ingestion turns uploaded resume files into normalized plain text.
package ingestion

import "fmt"

// ExtractionError represents a resume file that could not be read or decoded.
// It is fatal for the request.
type ExtractionError struct {
	Path    string
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	prefix := "extraction error"
	if e.Path != "" {
		prefix = fmt.Sprintf("extraction error (%s)", e.Path)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}
