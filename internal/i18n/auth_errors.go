package i18n

import (
	"errors"

	"github.com/chimgan/sales/internal/apperr"
)

// Auth error codes returned by the account endpoints.
const (
	AuthEmailAlreadyInUse      = "auth/email-already-in-use"
	AuthInvalidEmail           = "auth/invalid-email"
	AuthWeakPassword           = "auth/weak-password"
	AuthUserNotFound           = "auth/user-not-found"
	AuthWrongPassword          = "auth/wrong-password"
	AuthTooManyRequests        = "auth/too-many-requests"
	AuthNetworkRequestFailed   = "auth/network-request-failed"
	AuthPopupClosedByUser      = "auth/popup-closed-by-user"
	AuthAccountExistsOtherCred = "auth/account-exists-with-different-credential"
	AuthOperationNotAllowed    = "auth/operation-not-allowed"
	AuthConfigurationNotFound  = "auth/configuration-not-found"
)

var authErrorKeys = map[string]string{
	AuthEmailAlreadyInUse:      "auth.emailAlreadyInUse",
	AuthInvalidEmail:           "auth.invalidEmail",
	AuthWeakPassword:           "auth.weakPassword",
	AuthUserNotFound:           "auth.userNotFound",
	AuthWrongPassword:          "auth.wrongPassword",
	AuthTooManyRequests:        "auth.tooManyRequests",
	AuthNetworkRequestFailed:   "auth.networkError",
	AuthPopupClosedByUser:      "auth.popupClosed",
	AuthAccountExistsOtherCred: "auth.accountExistsWithDifferentCredential",
	AuthOperationNotAllowed:    "auth.operationNotAllowed",
	AuthConfigurationNotFound:  "auth.configurationNotFound",
}

// AuthErrorMessage translates an auth error code; unknown codes get the generic message.
func AuthErrorMessage(lang Language, code string) string {
	if key, ok := authErrorKeys[code]; ok {
		return T(lang, key)
	}
	return T(lang, "auth.unknownError")
}

// AuthCodeOf maps an account error to its auth error code.
func AuthCodeOf(err error) string {
	switch {
	case errors.Is(err, apperr.ErrEmailTaken):
		return AuthEmailAlreadyInUse
	case errors.Is(err, apperr.ErrInvalidEmail):
		return AuthInvalidEmail
	case errors.Is(err, apperr.ErrWeakPassword):
		return AuthWeakPassword
	case errors.Is(err, apperr.ErrInvalidCredentials):
		return AuthWrongPassword
	case errors.Is(err, apperr.ErrUserNotFound):
		return AuthUserNotFound
	case apperr.CodeOf(err) == apperr.CodeResourceExhausted:
		return AuthTooManyRequests
	}
	return ""
}
