// Package parsing turns raw completion text into ResumeRecord values.
// Delimited-text responses are recovered field by field; JSON responses are all or nothing.
package parsing

import (
	"strings"

	"github.com/jonathan/resume-parser/internal/types"
)

// ParseBasicInfo parses "key: value" lines. Each line is split on its first colon;
// lines without a colon are skipped. Keys are mapped to canonical names, majors are
// split on commas, and URL and email values failing the sanity patterns are nulled.
//
// When no line yields a pair, an empty BasicInfo is returned with a *ParseError
// carrying the raw text. Callers treat that as recoverable.
func ParseBasicInfo(raw string) (*types.BasicInfo, error) {
	info := &types.BasicInfo{}

	pairs := 0
	for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = NormalizeKey(key)
		if key == "" {
			continue
		}
		info.Set(key, value)
		pairs++
	}

	if pairs == 0 {
		return info, &ParseError{
			Format:  types.FormatDelimited,
			Section: SectionBasicInfo,
			Message: "no key: value lines in response",
			Raw:     raw,
		}
	}

	Sanitize(info)
	return info, nil
}
