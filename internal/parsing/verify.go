package parsing

import (
	"strings"
	"unicode"

	"github.com/jonathan/resume-parser/internal/types"
)

// verifiedKeys are the basic-info values expected to appear verbatim in a resume.
var verifiedKeys = []string{
	types.KeyFirstName, types.KeyLastName, types.KeyEmail, types.KeyPhone, types.KeyLocation,
	types.KeyPortfolioURL, types.KeyUniversity, types.KeyGraduationYear, types.KeyGPA,
}

// squash lowercases s and drops everything except letters, digits and underscores.
func squash(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return unicode.ToLower(r)
		}
		return -1
	}, s)
}

// VerifyAgainstSource nulls basic-info values that do not occur in the resume text
// and returns one ValidationError per nulled field.
func VerifyAgainstSource(info *types.BasicInfo, resumeText string) []*ValidationError {
	if info == nil {
		return nil
	}

	source := squash(resumeText)
	var rejected []*ValidationError
	for _, key := range verifiedKeys {
		field := info.StringField(key)
		if *field == nil {
			continue
		}
		if !strings.Contains(source, squash(**field)) {
			rejected = append(rejected, &ValidationError{Field: key, Value: **field, Message: "value does not occur in the resume"})
			*field = nil
		}
	}
	return rejected
}
