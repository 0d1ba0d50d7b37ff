package ingestion

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "collapse spaces",
			input:    "Jane    Doe\t\tEngineer",
			expected: "Jane Doe Engineer",
		},
		{
			name:     "whitespace before comma or period becomes comma",
			input:    "Go , Python .",
			expected: "Go, Python,",
		},
		{
			name:     "newline runs fold into a single space",
			input:    "Line 1\n\n\n\nLine 2",
			expected: "Line 1 Line 2",
		},
		{
			name:     "strip https scheme",
			input:    "Portfolio: https://jane.dev and http://github.com/jane",
			expected: "Portfolio: jane.dev and github.com/jane",
		},
		{
			name:     "scheme match is case-sensitive",
			input:    "HTTPS://Jane.dev",
			expected: "HTTPS://Jane.dev",
		},
		{
			name:     "bare scheme between spaces leaves no double space",
			input:    "see https:// here",
			expected: "see here",
		},
		{
			name:     "stripped scheme before a comma folds into the comma",
			input:    "a http://, b",
			expected: "a, b",
		},
		{
			name:     "nested scheme does not reassemble",
			input:    "hthttp://tp://example.com",
			expected: "example.com",
		},
		{
			name:     "unicode preserved",
			input:    "José  Müller 🚀",
			expected: "José Müller 🚀",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeString(tt.input))
		})
	}
}

func TestNormalizeText_JoinsPages(t *testing.T) {
	result := NormalizeText([]string{"Page one ends here", "Page two starts"})
	assert.Equal(t, "Page one ends here Page two starts", result)
}

func TestNormalizeText_Invariants(t *testing.T) {
	inputs := []string{
		"  lots   of\n\n\nspace  ",
		"https://https://double.example.com",
		"a \n , b \t. c",
		"http://\n\nhttp://",
		"\r\n\r\nwindows\r\nline endings\r\n",
		"tab\t\t\tseparated\fform feed",
		strings.Repeat(" https:// ", 20),
	}

	for _, input := range inputs {
		result := NormalizeText([]string{input, input})
		assert.NotContains(t, result, "  ", "input %q", input)
		assert.NotContains(t, result, "http://", "input %q", input)
		assert.NotContains(t, result, "https://", "input %q", input)
	}
}

func TestNormalizeString_Deterministic(t *testing.T) {
	input := "Test content   with   spaces\n\n\nhttps://example.com ."
	assert.Equal(t, NormalizeString(input), NormalizeString(input))
}

func TestExtractorFor(t *testing.T) {
	extract, err := ExtractorFor("resume.PDF")
	require.NoError(t, err)
	assert.NotNil(t, extract)

	extract, err = ExtractorFor("resume.docx")
	require.NoError(t, err)
	assert.NotNil(t, extract)

	_, err = ExtractorFor("resume.odt")
	assert.Error(t, err)
}

func TestExtractText_EmptyInput(t *testing.T) {
	pages, err := ExtractText(nil)
	assert.Nil(t, pages)

	var extractionErr *ExtractionError
	require.ErrorAs(t, err, &extractionErr)
}

func TestExtractText_Garbage(t *testing.T) {
	pages, err := ExtractText([]byte("not a pdf at all"))
	assert.Nil(t, pages)
	assert.Error(t, err)
}

func TestExtractDOCXText_Garbage(t *testing.T) {
	pages, err := ExtractDOCXText([]byte("not a zip archive"))
	assert.Nil(t, pages)

	var extractionErr *ExtractionError
	require.ErrorAs(t, err, &extractionErr)
}
