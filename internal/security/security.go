// Package security holds stateless input predicates shared by the
// authentication service and request validation.
package security

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// PasswordMinLength is the minimum accepted password length
const PasswordMinLength = 8

// PasswordSpecialChars is the set a password must draw at least one character from
const PasswordSpecialChars = `!@#$%^&*(),.?":{}|<>-`

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail matches local@domain.tld with an ASCII local part and a TLD of at least two letters.
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidatePassword requires PasswordMinLength characters and at least one
// uppercase letter, lowercase letter, digit and special character.
func ValidatePassword(password string) bool {
	if utf8.RuneCountInString(password) < PasswordMinLength {
		return false
	}

	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(PasswordSpecialChars, r):
			special = true
		}
	}
	return upper && lower && digit && special
}

var unsafeChars = strings.NewReplacer("<", "", ">", "", `"`, "", "'", "", ";", "")

// Sanitize strips characters unsafe for direct storage or display.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return unsafeChars.Replace(s)
}

// Clean is the stored form of free text: sanitized, then trimmed.
func Clean(s string) string {
	return strings.TrimSpace(Sanitize(s))
}
