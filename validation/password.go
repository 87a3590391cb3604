package validation

import (
	_ "embed"
	"strings"
	"unicode"

	zxcvbn "github.com/nbutton23/zxcvbn-go"
)

const (
	minPasswordLength = 8
	// zxcvbn scores run 0..4; below this a password falls to an online
	// guessing attack.
	minPasswordScore = 2
)

//go:embed common_passwords.txt
var commonPasswordList string

var commonPasswords = map[string]struct{}{}

func init() {
	for _, p := range strings.Fields(commonPasswordList) {
		commonPasswords[strings.ToLower(p)] = struct{}{}
	}
}

// Password applies the baseline strength rules. userAttrs are values the
// password must not resemble (username, email, display name).
func Password(password string, userAttrs ...string) []FieldError {
	var problems []FieldError

	if len([]rune(password)) < minPasswordLength {
		problems = append(problems, FieldError{
			Code:    WeakPassword,
			Message: "This password is too short. It must contain at least 8 characters.",
		})
	}
	if _, ok := commonPasswords[strings.ToLower(strings.TrimSpace(password))]; ok {
		problems = append(problems, FieldError{Code: WeakPassword, Message: "This password is too common."})
	}
	if password != "" && isNumeric(password) {
		problems = append(problems, FieldError{Code: WeakPassword, Message: "This password is entirely numeric."})
	}
	if len(problems) == 0 && guessable(password, userAttrs) {
		problems = append(problems, FieldError{Code: WeakPassword, Message: "This password is too easy to guess."})
	}
	if similarToAny(password, userAttrs) {
		problems = append(problems, FieldError{
			Code:    WeakPassword,
			Message: "The password is too similar to your personal information.",
		})
	}
	return problems
}

// guessable reports whether zxcvbn finds the password inside its leaked
// password and dictionary lists, keyboard walks or sequences.
func guessable(password string, userAttrs []string) bool {
	if password == "" {
		return false
	}
	return zxcvbn.PasswordStrength(password, userAttrs).Score < minPasswordScore
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func similarToAny(password string, attrs []string) bool {
	pw := strings.ToLower(password)
	if len(pw) < 3 {
		return false
	}
	for _, attr := range attrs {
		attr = strings.ToLower(strings.TrimSpace(attr))
		if at := strings.IndexByte(attr, '@'); at > 0 {
			attr = attr[:at]
		}
		if len(attr) < 3 {
			continue
		}
		if strings.Contains(pw, attr) || strings.Contains(attr, pw) {
			return true
		}
	}
	return false
}
