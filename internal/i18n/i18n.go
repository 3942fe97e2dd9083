// Package i18n holds the short, user-facing messages the API returns in the
// user's language.
package i18n

import (
	"strings"

	"github.com/chimgan/sales/internal/apperr"
)

// Language is a supported UI language.
type Language string

const (
	RU Language = "ru"
	EN Language = "en"
	TR Language = "tr"
)

// Default is used when nothing better is known.
const Default = RU

// Parse returns the supported language matching s ("en", "en-US", "tr-TR;q=0.8"...).
func Parse(s string) (Language, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if i := strings.IndexAny(s, "-_;,"); i >= 0 {
		s = s[:i]
	}
	switch Language(s) {
	case RU, EN, TR:
		return Language(s), true
	}
	return "", false
}

// FromAcceptLanguage picks the first supported language of an Accept-Language header.
func FromAcceptLanguage(header string, fallback Language) Language {
	for _, part := range strings.Split(header, ",") {
		if l, ok := Parse(part); ok {
			return l
		}
	}
	return fallback
}

// T returns the message for key in lang, falling back to English, then to the key.
func T(lang Language, key string) string {
	if m, ok := catalog[lang][key]; ok {
		return m
	}
	if m, ok := catalog[EN][key]; ok {
		return m
	}
	return key
}

// ErrorMessage translates an application error into a short localized message.
func ErrorMessage(lang Language, err error) string {
	if key, ok := errorKeys[apperr.MessageOf(err)]; ok {
		return T(lang, key)
	}
	switch apperr.CodeOf(err) {
	case apperr.CodeInvalidArgument:
		return T(lang, "error.invalid")
	case apperr.CodeNotFound:
		return T(lang, "error.notFound")
	case apperr.CodePermissionDenied:
		return T(lang, "error.forbidden")
	case apperr.CodeUnauthenticated:
		return T(lang, "error.unauthenticated")
	case apperr.CodeAlreadyExists:
		return T(lang, "error.exists")
	}
	return T(lang, "error.generic")
}

// errorKeys maps domain error messages to catalog keys.
var errorKeys = map[string]string{
	apperr.MessageOf(apperr.ErrEmptyMessage):       "error.emptyMessage",
	apperr.MessageOf(apperr.ErrRequiredFields):     "error.required",
	apperr.MessageOf(apperr.ErrContactRequired):    "error.contactRequired",
	apperr.MessageOf(apperr.ErrInvalidDiscount):    "error.discount",
	apperr.MessageOf(apperr.ErrBlockedFromPosting): "error.blocked",
	apperr.MessageOf(apperr.ErrDailyLimitReached):  "error.dailyLimit",
	apperr.MessageOf(apperr.ErrItemNotFound):       "error.itemNotFound",
	apperr.MessageOf(apperr.ErrSlugTaken):          "error.slugTaken",
	apperr.MessageOf(apperr.ErrEmailTaken):         "auth.emailAlreadyInUse",
	apperr.MessageOf(apperr.ErrInvalidEmail):       "auth.invalidEmail",
	apperr.MessageOf(apperr.ErrWeakPassword):       "auth.weakPassword",
	apperr.MessageOf(apperr.ErrInvalidCredentials): "auth.wrongPassword",
}
