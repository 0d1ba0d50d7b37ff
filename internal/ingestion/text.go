package ingestion

import (
	"regexp"
	"strings"
)

// PageSeparator joins the text of consecutive pages before normalization.
const PageSeparator = "\n\n"

var (
	spaceBeforePunct = regexp.MustCompile(`\s[,.]`)
	newlineRun       = regexp.MustCompile(`\n+`)
	whitespaceRun    = regexp.MustCompile(`\s+`)

	schemePrefixes = []string{"https://", "http://"}
)

// NormalizeText joins extracted pages and normalizes the result for prompting.
// The output never contains two consecutive whitespace characters nor a literal
// "http://" or "https://".
func NormalizeText(pages []string) string {
	return NormalizeString(strings.Join(pages, PageSeparator))
}

// NormalizeString normalizes a single block of extracted text.
//
// Scheme prefixes are stripped first so that removing them cannot leave a double space behind.
// The final whitespace pass also folds the single newlines left by the newline pass into spaces.
func NormalizeString(content string) string {
	if content == "" {
		return ""
	}

	content = stripSchemes(content)
	content = spaceBeforePunct.ReplaceAllString(content, ",")
	content = newlineRun.ReplaceAllString(content, "\n")
	content = whitespaceRun.ReplaceAllString(content, " ")
	return content
}

// stripSchemes removes URL scheme prefixes, repeating until none remain
// ("hthttp://tp://" would otherwise reassemble one).
func stripSchemes(content string) string {
	for {
		stripped := content
		for _, prefix := range schemePrefixes {
			stripped = strings.ReplaceAll(stripped, prefix, "")
		}
		if stripped == content {
			return stripped
		}
		content = stripped
	}
}
