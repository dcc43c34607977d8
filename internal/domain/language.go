package domain

import (
	"strings"

	"golang.org/x/text/language"
)

// NormalizeLanguage validates and canonicalizes a language tag.
// Tags are parsed per BCP 47 ("en", "id", "en-US") and lowered to their base
// form, so "EN" and "en-US" both normalize to "en". Returns a ValidationError
// for empty or unparseable tags.
func NormalizeLanguage(tag string) (string, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return "", NewValidationError("language", "must not be empty")
	}

	parsed, err := language.Parse(tag)
	if err != nil {
		return "", NewValidationError("language", "invalid language tag: "+tag)
	}

	base, _ := parsed.Base()
	return base.String(), nil
}
