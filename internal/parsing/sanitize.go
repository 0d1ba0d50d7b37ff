package parsing

import (
	"regexp"

	"github.com/jonathan/resume-parser/internal/types"
)

var (
	// urlPattern is a prefix match: a bare domain with an optional first path segment.
	urlPattern   = regexp.MustCompile(`^(\w+\.)?\w+\.\w+(/\w*)?`)
	emailPattern = regexp.MustCompile(`^\w+.*@(.+)\.([a-z]{2,4}|\d+)$`)
)

var urlKeys = []string{types.KeyPortfolioURL, types.KeyLinkedInURL, types.KeyGitHubURL}

// ValidURL reports whether value looks like a bare domain such as "github.com/jane".
func ValidURL(value string) bool {
	return urlPattern.MatchString(value)
}

// ValidEmail reports whether value loosely looks like an email address.
func ValidEmail(value string) bool {
	return emailPattern.MatchString(value)
}

// Sanitize nulls URL and email fields whose values fail the sanity patterns and
// returns one ValidationError per nulled field. It never fails.
func Sanitize(info *types.BasicInfo) []*ValidationError {
	if info == nil {
		return nil
	}

	var rejected []*ValidationError
	for _, key := range urlKeys {
		field := info.StringField(key)
		if *field != nil && !ValidURL(**field) {
			rejected = append(rejected, &ValidationError{Field: key, Value: **field, Message: "not a domain-like URL"})
			*field = nil
		}
	}
	if info.Email != nil && !ValidEmail(*info.Email) {
		rejected = append(rejected, &ValidationError{Field: types.KeyEmail, Value: *info.Email, Message: "not an email address"})
		info.Email = nil
	}
	return rejected
}
