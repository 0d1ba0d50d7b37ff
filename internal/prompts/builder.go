package prompts

import (
	"fmt"

	"github.com/jonathan/resume-parser/internal/types"
)

// ResumeFile is the embedded file holding the resume instruction templates.
const ResumeFile = "resume.json"

// Section names one query sent for a resume.
type Section string

const (
	// SectionBasicInfo asks for contact and education key-value lines.
	SectionBasicInfo Section = "basic-info"
	// SectionWorkExperience asks for marker-delimited job records.
	SectionWorkExperience Section = "work-experience"
	// SectionResume asks for the whole record as one JSON document.
	SectionResume Section = "resume-json"
)

// Sections returns the queries a response format needs, in the order they are sent.
func Sections(format types.ResponseFormat) []Section {
	if format == types.FormatJSON {
		return []Section{SectionResume}
	}
	return []Section{SectionBasicInfo, SectionWorkExperience}
}

// Instructions returns the template for a section. The section must belong to
// the format, so a JSON template is never paired with the delimited parser.
func Instructions(format types.ResponseFormat, section Section) (string, error) {
	if !belongsTo(format, section) {
		return "", fmt.Errorf("section %q is not used by the %s response format", section, format)
	}
	return Get(ResumeFile, string(section))
}

// Build concatenates the section instructions, a newline and the resume text.
// The work-experience prompt also ends with a newline so the model starts a fresh line.
func Build(format types.ResponseFormat, section Section, resumeText string) (string, error) {
	instructions, err := Instructions(format, section)
	if err != nil {
		return "", err
	}

	prompt := instructions + "\n" + resumeText
	if section == SectionWorkExperience {
		prompt += "\n"
	}
	return prompt, nil
}

func belongsTo(format types.ResponseFormat, section Section) bool {
	for _, s := range Sections(format) {
		if s == section {
			return true
		}
	}
	return false
}
