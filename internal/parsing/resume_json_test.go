package parsing

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-parser/internal/schemas"
	"github.com/jonathan/resume-parser/internal/types"
)

const fullRecordJSON = `{
  "basic_info": {
    "first_name": "Jane",
    "last_name": "Doe",
    "full_name": "Jane Doe",
    "email": "jane@example.com",
    "phone": "555-123-4567",
    "location": "New York, NY",
    "portfolio_website_url": "jane.dev",
    "linkedin_url": "linkedin.com/in/janedoe",
    "github_main_page_url": "github.com/janedoe",
    "university": "State University",
    "education_level": "MS",
    "graduation_year": "2022",
    "graduation_month": "5",
    "majors": ["Computer Science", "Mathematics"],
    "gpa": "3.8"
  },
  "work_experience": [
    {"job_title": "SWE", "organization": "Acme", "location": "NYC", "duration": "2020-2021", "description": "built things"}
  ],
  "project_experience": [
    {"name": "resume-parser", "description": "parses resumes"}
  ]
}`

func TestParseResumeJSON_RoundTrip(t *testing.T) {
	record, err := ParseResumeJSON(fullRecordJSON)
	require.NoError(t, err)

	out, err := json.Marshal(record)
	require.NoError(t, err)
	assert.JSONEq(t, fullRecordJSON, string(out))
}

func TestParseResumeJSON_KeepsEducationLevelVerbatim(t *testing.T) {
	raw := `{
  "basic_info": {"education_level": "Master of Business Administration", "university": "State University"},
  "work_experience": [],
  "project_experience": []
}`

	record, err := ParseResumeJSON(raw)
	require.NoError(t, err)
	require.NotNil(t, record.BasicInfo.EducationLevel)
	assert.Equal(t, "Master of Business Administration", *record.BasicInfo.EducationLevel)

	out, err := json.Marshal(record)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"education_level":"Master of Business Administration"`)
}

func TestParseResumeJSON_CodeFence(t *testing.T) {
	record, err := ParseResumeJSON("Here is the record:\n```json\n" + fullRecordJSON + "\n```")
	require.NoError(t, err)
	assert.Equal(t, "Jane", *record.BasicInfo.FirstName)
	require.Len(t, record.WorkExperience, 1)
	require.Len(t, record.ProjectExperience, 1)
}

func TestParseResumeJSON_SanitizesFields(t *testing.T) {
	raw := `{
  "basic_info": {"email": "not-an-email", "linkedin_url": "N/A", "github_main_page_url": "github.com/jane", "gpa": 3.9, "education_level": "Master of Science"},
  "work_experience": [],
  "project_experience": []
}`

	record, err := ParseResumeJSON(raw)
	require.NoError(t, err)
	assert.Nil(t, record.BasicInfo.Email)
	assert.Nil(t, record.BasicInfo.LinkedInURL)
	assert.Equal(t, "github.com/jane", *record.BasicInfo.GitHubURL)
	assert.Equal(t, "3.9", *record.BasicInfo.GPA)
	assert.Equal(t, "Master of Science", *record.BasicInfo.EducationLevel)
}

func TestParseResumeJSON_Failures(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantMessage string
		wantSchema  bool
	}{
		{name: "delimited text", raw: "first name: Jane\nlast name: Doe", wantMessage: "not valid JSON"},
		{name: "truncated", raw: `{"basic_info": {"first_name": "Ja`, wantMessage: "not valid JSON"},
		{name: "empty", raw: "", wantMessage: "not valid JSON"},
		{name: "missing keys", raw: `{"basic_info": {}}`, wantMessage: "schema", wantSchema: true},
		{name: "wrong shape", raw: `{"basic_info": [], "work_experience": [], "project_experience": []}`, wantMessage: "schema", wantSchema: true},
		{name: "array at root", raw: `[1, 2, 3]`, wantMessage: "schema", wantSchema: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, err := ParseResumeJSON(tt.raw)
			assert.Nil(t, record)

			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, types.FormatJSON, parseErr.Format)
			assert.Equal(t, tt.raw, parseErr.Raw)
			assert.Contains(t, parseErr.Message, tt.wantMessage)

			var schemaErr *schemas.ValidationError
			assert.Equal(t, tt.wantSchema, errors.As(err, &schemaErr))
		})
	}
}

func TestParseResumeJSON_NullCollections(t *testing.T) {
	record, err := ParseResumeJSON(`{"basic_info": {}, "work_experience": [], "project_experience": []}`)
	require.NoError(t, err)
	assert.NotNil(t, record.BasicInfo)
	assert.NotNil(t, record.WorkExperience)
	assert.NotNil(t, record.ProjectExperience)
}
