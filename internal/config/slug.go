package config

import (
	"strings"
	"unicode"
)

// FallbackDomainName is used when a location's name has no usable characters.
const FallbackDomainName = "domain"

// Slugify lower-cases ASCII alphanumerics and joins runs of whitespace,
// underscores and dashes with a single '-'. Other punctuation is dropped.
func Slugify(input string) string {
	var b strings.Builder
	pendingDash := false

	for _, r := range strings.TrimSpace(input) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if pendingDash {
				b.WriteByte('-')
				pendingDash = false
			}
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsSpace(r) || r == '_' || r == '-':
			if b.Len() > 0 {
				pendingDash = true
			}
		}
	}

	if b.Len() == 0 {
		return FallbackDomainName
	}
	return b.String()
}
