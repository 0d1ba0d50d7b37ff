package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasicInfo_Set(t *testing.T) {
	var info BasicInfo
	info.Set(KeyFirstName, "  John ")
	info.Set(KeyMajors, "CS, Math ,")
	info.Set("favorite_color", "blue")
	info.Set(KeyLocation, "   ")

	require.NotNil(t, info.FirstName)
	assert.Equal(t, "John", *info.FirstName)
	assert.Equal(t, []string{"CS", "Math"}, info.Majors)
	assert.Equal(t, map[string]string{"favorite_color": "blue"}, info.Extra)
	assert.Nil(t, info.Location)
}

func TestBasicInfo_UnmarshalJSON_NumbersAndMajors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		validate func(*testing.T, *BasicInfo)
	}{
		{
			name:  "numeric gpa and year",
			input: `{"gpa": 3.8, "graduation_year": 2022}`,
			validate: func(t *testing.T, info *BasicInfo) {
				require.NotNil(t, info.GPA)
				assert.Equal(t, "3.8", *info.GPA)
				require.NotNil(t, info.GraduationYear)
				assert.Equal(t, "2022", *info.GraduationYear)
			},
		},
		{
			name:  "majors as string",
			input: `{"majors": "Physics, Chemistry"}`,
			validate: func(t *testing.T, info *BasicInfo) {
				assert.Equal(t, []string{"Physics", "Chemistry"}, info.Majors)
			},
		},
		{
			name:  "nulls stay nil",
			input: `{"email": null, "majors": null}`,
			validate: func(t *testing.T, info *BasicInfo) {
				assert.Nil(t, info.Email)
				assert.Nil(t, info.Majors)
				assert.True(t, info.IsEmpty())
			},
		},
		{
			name:  "unknown keys kept in extra",
			input: `{"nickname": "JD"}`,
			validate: func(t *testing.T, info *BasicInfo) {
				assert.Equal(t, "JD", info.Extra["nickname"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var info BasicInfo
			require.NoError(t, json.Unmarshal([]byte(tt.input), &info))
			tt.validate(t, &info)
		})
	}
}

func TestBasicInfo_UnmarshalJSON_RejectsObjects(t *testing.T) {
	var info BasicInfo
	err := json.Unmarshal([]byte(`{"email": {"value": "x"}}`), &info)
	assert.Error(t, err)
}

func TestResumeRecord_JSONRoundTrip(t *testing.T) {
	source := `{
		"basic_info": {
			"first_name": "Ada", "last_name": "Lovelace", "full_name": "Ada Lovelace",
			"email": "ada@example.com", "phone": "555-0100", "location": "London",
			"portfolio_website_url": "ada.dev", "linkedin_url": "linkedin.com/in/ada",
			"github_main_page_url": "github.com/ada", "university": "University of London",
			"education_level": "BS", "graduation_year": "1835", "graduation_month": "6",
			"majors": ["Mathematics"], "gpa": "4.0"
		},
		"work_experience": [
			{"job_title": "Analyst", "organization": "Analytical Engine", "location": "London",
			 "duration": "1842-1843", "description": "Wrote the first program"}
		],
		"project_experience": [{"name": "Notes", "description": "Translation with notes"}]
	}`

	var record ResumeRecord
	require.NoError(t, json.Unmarshal([]byte(source), &record))

	out, err := json.Marshal(&record)
	require.NoError(t, err)
	assert.JSONEq(t, source, string(out))
}

func TestParseResponseFormat(t *testing.T) {
	f, err := ParseResponseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	f, err = ParseResponseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatDelimited, f)

	_, err = ParseResponseFormat("yaml")
	assert.Error(t, err)
}
