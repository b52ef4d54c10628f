package service

import (
	"unicode"
	"unicode/utf8"

	"userhub/internal/errors"
)

const minPasswordLength = 6

// ValidatePassword checks a password against the strength policy:
// at least 6 characters, with at least one uppercase letter, one
// lowercase letter, and one digit. The length rule is checked first so
// its message takes precedence over the composition message.
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < minPasswordLength {
		return &errors.PolicyError{Message: "Password must be at least 6 characters"}
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return &errors.PolicyError{Message: "Password must contain uppercase, lowercase and number"}
	}

	return nil
}
