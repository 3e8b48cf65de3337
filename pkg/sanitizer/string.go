package sanitizer

import (
	"strings"
	"unicode"
)

// TrimAndNormalize trims surrounding whitespace and collapses interior
// whitespace runs to a single space.
func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

func NormalizeName(name string) string {
	return TrimAndNormalize(name)
}

func NormalizeTitle(title string) string {
	return TrimAndNormalize(title)
}

// NormalizeEmail lowercases the address; email comparison in lookups is
// byte equality, so storage must be canonical.
func NormalizeEmail(email string) string {
	return trimAndLower(email)
}

// NormalizeCategory lowercases category labels so category queries match
// regardless of how the host typed them.
func NormalizeCategory(category string) string {
	return Pipeline{TrimAndNormalize, strings.ToLower}.Apply(category)
}
