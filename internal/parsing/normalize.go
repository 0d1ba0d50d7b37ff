package parsing

import (
	"regexp"
	"strings"

	"github.com/jonathan/resume-parser/internal/types"
)

var nonKeyChars = regexp.MustCompile(`[^a-z0-9]+`)

// keyAliases maps normalized model keys to canonical basic-info keys.
var keyAliases = map[string]string{
	"name":                     types.KeyFullName,
	"email_address":            types.KeyEmail,
	"e_mail":                   types.KeyEmail,
	"u_s_phone_number":         types.KeyPhone,
	"us_phone_number":          types.KeyPhone,
	"phone_number":             types.KeyPhone,
	"portfolio_website":        types.KeyPortfolioURL,
	"portfolio_url":            types.KeyPortfolioURL,
	"personal_website_url":     types.KeyPortfolioURL,
	"website":                  types.KeyPortfolioURL,
	"website_url":              types.KeyPortfolioURL,
	"linkedin":                 types.KeyLinkedInURL,
	"linked_in_url":            types.KeyLinkedInURL,
	"github":                   types.KeyGitHubURL,
	"github_url":               types.KeyGitHubURL,
	"git_hub_main_page_url":    types.KeyGitHubURL,
	"education_level_bs_or_ms": types.KeyEducationLevel,
	"degree":                   types.KeyEducationLevel,
	"major":                    types.KeyMajors,
	"college":                  types.KeyUniversity,
	"school":                   types.KeyUniversity,
}

// NormalizeKey turns a model key such as "U.S. phone number" into its canonical
// snake_case form ("phone"). Unknown keys are returned in snake_case.
func NormalizeKey(key string) string {
	normalized := strings.Trim(nonKeyChars.ReplaceAllString(strings.ToLower(strings.TrimSpace(key)), "_"), "_")
	if canonical, ok := keyAliases[normalized]; ok {
		return canonical
	}
	return normalized
}
