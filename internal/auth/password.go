package auth

import (
	"crypto/subtle"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword generates a bcrypt hash of the password.
func HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// CheckPasswordHash compares a plaintext password with a stored bcrypt hash.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// StrongEnough reports whether password has at least minLen characters.
func StrongEnough(password string, minLen int) bool {
	return utf8.RuneCountInString(password) >= minLen
}

// CheckAdminCredentials matches a login against the configured admin account.
// An unconfigured account never matches.
func CheckAdminCredentials(email, password, adminEmail, adminPasswordHash string) bool {
	if adminEmail == "" || adminPasswordHash == "" {
		return false
	}
	emailOK := subtle.ConstantTimeCompare([]byte(strings.ToLower(strings.TrimSpace(email))), []byte(strings.ToLower(adminEmail))) == 1
	passwordOK := CheckPasswordHash(password, adminPasswordHash)
	return emailOK && passwordOK
}
