package types

import (
	"fmt"
	"strings"
)

// ResponseFormat selects the instruction templates sent to the model and the parser
// applied to its output. The two always travel together.
type ResponseFormat string

const (
	// FormatDelimited asks for line-based "key: value" basic info and
	// "Job Title: ..." marker-delimited work experience, in two requests.
	FormatDelimited ResponseFormat = "delimited"
	// FormatJSON asks for the whole record as a single JSON document.
	FormatJSON ResponseFormat = "json"
)

// ParseResponseFormat converts a user-supplied name into a ResponseFormat.
func ParseResponseFormat(name string) (ResponseFormat, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "delimited", "text":
		return FormatDelimited, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown response format %q (want delimited or json)", name)
	}
}

// String implements fmt.Stringer.
func (f ResponseFormat) String() string {
	return string(f)
}
