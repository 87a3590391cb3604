// file: validation/errors.go

package validation

import (
	"sort"
	"strings"
)

// Code identifies why a field was rejected.
type Code string

const (
	Required          Code = "required"
	TooShort          Code = "too_short"
	TooLong           Code = "too_long"
	InvalidFormat     Code = "invalid_format"
	InvalidEmail      Code = "invalid_email"
	InvalidChoice     Code = "invalid_choice"
	Duplicate         Code = "duplicate"
	WeakPassword      Code = "weak_password"
	Mismatch          Code = "mismatch"
	TooLarge          Code = "too_large"
	UnsupportedFormat Code = "unsupported_format"
	InvalidLogin      Code = "invalid_login"
)

type FieldError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

// Errors collects field-scoped failures keyed by form field name.
// A nil or empty Errors means the input is valid.
type Errors map[string][]FieldError

func (e Errors) Add(field string, code Code, message string) {
	e[field] = append(e[field], FieldError{Code: code, Message: message})
}

// Has reports whether field was rejected with code.
func (e Errors) Has(field string, code Code) bool {
	for _, fe := range e[field] {
		if fe.Code == code {
			return true
		}
	}
	return false
}

func (e Errors) Empty() bool {
	return len(e) == 0
}

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		for _, fe := range e[field] {
			parts = append(parts, field+": "+fe.Message)
		}
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
