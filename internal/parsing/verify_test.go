package parsing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-parser/internal/types"
)

const sourceText = "JANE DOE New York, NY (555) 123-4567 jane@example.com jane.dev State University B.S. Computer Science, 2022 GPA 3.8"

// Values match once whitespace and punctuation are ignored, so "555.123.4567" matches "(555) 123-4567".
func TestVerifyAgainstSource_Matching(t *testing.T) {
	tests := []struct {
		info     string
		expected bool
	}{
		{"Jane", true},
		{"jane doe", true},
		{"555-123-4567", true},
		{"555.123.4567", true},
		{"Jane@Example.com", true},
		{"3.8", true},
		{"Acme Corp", false},
		{"3.9", false},
	}

	for _, tt := range tests {
		t.Run(tt.info, func(t *testing.T) {
			info := &types.BasicInfo{Location: strPtr(tt.info)}
			rejected := VerifyAgainstSource(info, sourceText)
			assert.Equal(t, tt.expected, info.Location != nil)
			assert.Equal(t, tt.expected, len(rejected) == 0)
		})
	}
}

func TestVerifyAgainstSource(t *testing.T) {
	info := &types.BasicInfo{
		FirstName:  strPtr("Jane"),
		LastName:   strPtr("Doe"),
		FullName:   strPtr("Jane Q. Doe"),
		Phone:      strPtr("555-123-4567"),
		University: strPtr("Harvard"),
		GPA:        strPtr("4.0"),
		Majors:     []string{"Computer Science"},
	}

	rejected := VerifyAgainstSource(info, sourceText)

	require.Len(t, rejected, 2)
	assert.Equal(t, types.KeyUniversity, rejected[0].Field)
	assert.Equal(t, "Harvard", rejected[0].Value)
	assert.Equal(t, types.KeyGPA, rejected[1].Field)

	assert.Nil(t, info.University)
	assert.Nil(t, info.GPA)
	assert.Equal(t, "Jane", *info.FirstName)
	assert.Equal(t, "Jane Q. Doe", *info.FullName, "full name is not verified")
	assert.Equal(t, []string{"Computer Science"}, info.Majors)

	assert.Nil(t, VerifyAgainstSource(nil, sourceText))
}
