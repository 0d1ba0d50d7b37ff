// Package types provides type definitions for structured data used throughout the resume-parser system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Canonical basic-info keys, in the order they are asked for in the instructions.
const (
	KeyFirstName       = "first_name"
	KeyLastName        = "last_name"
	KeyFullName        = "full_name"
	KeyEmail           = "email"
	KeyPhone           = "phone"
	KeyLocation        = "location"
	KeyPortfolioURL    = "portfolio_website_url"
	KeyLinkedInURL     = "linkedin_url"
	KeyGitHubURL       = "github_main_page_url"
	KeyUniversity      = "university"
	KeyEducationLevel  = "education_level"
	KeyGraduationYear  = "graduation_year"
	KeyGraduationMonth = "graduation_month"
	KeyMajors          = "majors"
	KeyGPA             = "gpa"
	keyExtra           = "extra"
)

// BasicInfoKeys lists every canonical basic-info key.
var BasicInfoKeys = []string{
	KeyFirstName, KeyLastName, KeyFullName, KeyEmail, KeyPhone, KeyLocation,
	KeyPortfolioURL, KeyLinkedInURL, KeyGitHubURL, KeyUniversity, KeyEducationLevel,
	KeyGraduationYear, KeyGraduationMonth, KeyMajors, KeyGPA,
}

// ResumeRecord is the structured summary of one resume.
// It is built fresh for each request and never persisted.
type ResumeRecord struct {
	BasicInfo         *BasicInfo          `json:"basic_info"`
	WorkExperience    []WorkExperience    `json:"work_experience"`
	ProjectExperience []ProjectExperience `json:"project_experience"`
}

// BasicInfo holds contact and education fields. A nil field means the value was
// absent from the model output or failed validation.
type BasicInfo struct {
	FirstName       *string  `json:"first_name"`
	LastName        *string  `json:"last_name"`
	FullName        *string  `json:"full_name"`
	Email           *string  `json:"email"`
	Phone           *string  `json:"phone"`
	Location        *string  `json:"location"`
	PortfolioURL    *string  `json:"portfolio_website_url"`
	LinkedInURL     *string  `json:"linkedin_url"`
	GitHubURL       *string  `json:"github_main_page_url"`
	University      *string  `json:"university"`
	EducationLevel  *string  `json:"education_level"`
	GraduationYear  *string  `json:"graduation_year"`
	GraduationMonth *string  `json:"graduation_month"`
	Majors          []string `json:"majors"`
	GPA             *string  `json:"gpa"`

	// Extra keeps key-value pairs the model returned under keys we do not know.
	Extra map[string]string `json:"extra,omitempty"`
}

// WorkExperience is one job entry.
type WorkExperience struct {
	JobTitle     string `json:"job_title"`
	Organization string `json:"organization"`
	Location     string `json:"location"`
	Duration     string `json:"duration"`
	Description  string `json:"description"`
}

// ProjectExperience is one project entry. Only the JSON response format produces it.
type ProjectExperience struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// StringField returns the address of the string field stored under a canonical key,
// or nil if the key is unknown or refers to majors.
func (b *BasicInfo) StringField(key string) **string {
	switch key {
	case KeyFirstName:
		return &b.FirstName
	case KeyLastName:
		return &b.LastName
	case KeyFullName:
		return &b.FullName
	case KeyEmail:
		return &b.Email
	case KeyPhone:
		return &b.Phone
	case KeyLocation:
		return &b.Location
	case KeyPortfolioURL:
		return &b.PortfolioURL
	case KeyLinkedInURL:
		return &b.LinkedInURL
	case KeyGitHubURL:
		return &b.GitHubURL
	case KeyUniversity:
		return &b.University
	case KeyEducationLevel:
		return &b.EducationLevel
	case KeyGraduationYear:
		return &b.GraduationYear
	case KeyGraduationMonth:
		return &b.GraduationMonth
	case KeyGPA:
		return &b.GPA
	default:
		return nil
	}
}

// Set stores value under a canonical key. Majors are split on commas.
// Unknown keys go to Extra. An empty value leaves the field nil.
func (b *BasicInfo) Set(key, value string) {
	value = strings.TrimSpace(value)
	if key == KeyMajors {
		b.Majors = SplitMajors(value)
		return
	}
	if field := b.StringField(key); field != nil {
		if value == "" {
			*field = nil
			return
		}
		*field = &value
		return
	}
	if b.Extra == nil {
		b.Extra = make(map[string]string)
	}
	b.Extra[key] = value
}

// Values returns the non-nil scalar fields keyed by canonical key.
func (b *BasicInfo) Values() map[string]string {
	values := make(map[string]string)
	for _, key := range BasicInfoKeys {
		if field := b.StringField(key); field != nil && *field != nil {
			values[key] = **field
		}
	}
	return values
}

// IsEmpty reports whether no field is set.
func (b *BasicInfo) IsEmpty() bool {
	return len(b.Values()) == 0 && len(b.Majors) == 0 && len(b.Extra) == 0
}

// SplitMajors splits a comma-separated majors value into trimmed, non-empty entries.
func SplitMajors(value string) []string {
	parts := strings.Split(value, ",")
	majors := make([]string, 0, len(parts))
	for _, part := range parts {
		if major := strings.TrimSpace(part); major != "" {
			majors = append(majors, major)
		}
	}
	if len(majors) == 0 {
		return nil
	}
	return majors
}

// UnmarshalJSON accepts numbers for scalar fields (models often emit "gpa": 3.8)
// and either a list or a comma-separated string for majors.
func (b *BasicInfo) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*b = BasicInfo{}

	// Sorted so that repeated decoding is deterministic when Extra keys collide.
	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := raw[key]
		switch {
		case key == KeyMajors:
			majors, err := decodeMajors(value)
			if err != nil {
				return fmt.Errorf("basic_info.majors: %w", err)
			}
			b.Majors = majors
		case key == keyExtra:
			var extra map[string]string
			if err := json.Unmarshal(value, &extra); err != nil {
				return fmt.Errorf("basic_info.extra: %w", err)
			}
			for k, v := range extra {
				if b.Extra == nil {
					b.Extra = make(map[string]string)
				}
				b.Extra[k] = v
			}
		default:
			text, ok, err := decodeScalar(value)
			if err != nil {
				return fmt.Errorf("basic_info.%s: %w", key, err)
			}
			if field := b.StringField(key); field != nil {
				if ok {
					*field = &text
				}
				continue
			}
			if ok {
				if b.Extra == nil {
					b.Extra = make(map[string]string)
				}
				b.Extra[key] = text
			}
		}
	}
	return nil
}

// decodeScalar turns a JSON string, number or boolean into its text form.
// ok is false for null.
func decodeScalar(raw json.RawMessage) (string, bool, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", false, err
	}
	switch val := v.(type) {
	case nil:
		return "", false, nil
	case string:
		return val, true, nil
	case float64, bool:
		return strings.TrimSpace(string(raw)), true, nil
	default:
		return "", false, fmt.Errorf("expected string, number or null")
	}
}

func decodeMajors(raw json.RawMessage) ([]string, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	switch val := v.(type) {
	case nil:
		return nil, nil
	case string:
		return SplitMajors(val), nil
	case []any:
		majors := make([]string, 0, len(val))
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected list of strings")
			}
			majors = append(majors, s)
		}
		return majors, nil
	default:
		return nil, fmt.Errorf("expected list of strings, string or null")
	}
}
