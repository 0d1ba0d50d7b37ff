package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-parser/internal/types"
)

func TestGet_ValidPrompt(t *testing.T) {
	prompt, err := Get(ResumeFile, "basic-info")
	require.NoError(t, err)
	assert.Contains(t, prompt, "Summarize the resume text into key-value pairs")
	assert.Contains(t, prompt, "GitHub main page URL")
}

func TestGet_InvalidFile(t *testing.T) {
	_, err := Get("nonexistent.json", "some-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	_, err := Get(ResumeFile, "nonexistent-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestCaching(t *testing.T) {
	first, err := Get(ResumeFile, "resume-json")
	require.NoError(t, err)
	second, err := Get(ResumeFile, "resume-json")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestBuild(t *testing.T) {
	resume := "Jane Doe Software Engineer jane@example.com"

	t.Run("basic info", func(t *testing.T) {
		prompt, err := Build(types.FormatDelimited, SectionBasicInfo, resume)
		require.NoError(t, err)
		instructions, err := Get(ResumeFile, "basic-info")
		require.NoError(t, err)
		assert.Equal(t, instructions+"\n"+resume, prompt)
	})

	t.Run("work experience ends with newline", func(t *testing.T) {
		prompt, err := Build(types.FormatDelimited, SectionWorkExperience, resume)
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(prompt, resume+"\n"))
		assert.Contains(t, prompt, "Job Title, Job Organization, Job Location, Job Duration, Job Description")
	})

	t.Run("json", func(t *testing.T) {
		prompt, err := Build(types.FormatJSON, SectionResume, resume)
		require.NoError(t, err)
		assert.Contains(t, prompt, `"project_experience"`)
		assert.True(t, strings.HasSuffix(prompt, "\n"+resume))
	})

	t.Run("deterministic", func(t *testing.T) {
		a, err := Build(types.FormatJSON, SectionResume, resume)
		require.NoError(t, err)
		b, err := Build(types.FormatJSON, SectionResume, resume)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})
}

func TestInstructions_FormatMismatch(t *testing.T) {
	_, err := Instructions(types.FormatJSON, SectionBasicInfo)
	assert.Error(t, err)

	_, err = Instructions(types.FormatDelimited, SectionResume)
	assert.Error(t, err)
}

func TestSections(t *testing.T) {
	assert.Equal(t, []Section{SectionBasicInfo, SectionWorkExperience}, Sections(types.FormatDelimited))
	assert.Equal(t, []Section{SectionResume}, Sections(types.FormatJSON))

	for _, format := range []types.ResponseFormat{types.FormatDelimited, types.FormatJSON} {
		for _, section := range Sections(format) {
			instructions, err := Instructions(format, section)
			require.NoError(t, err, section)
			assert.NotEmpty(t, instructions, section)
		}
	}
}
