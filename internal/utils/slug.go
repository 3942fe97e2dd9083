package utils

import (
	"strings"
	"unicode"
)

// GenerateSlug derives a URL-safe slug from a display name. Letters and digits of
// any script are kept, so Cyrillic and Turkish names produce readable slugs.
// The result is stable under repeated application.
func GenerateSlug(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	pendingHyphen := false
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-':
			pendingHyphen = true
		}
	}
	return b.String()
}
