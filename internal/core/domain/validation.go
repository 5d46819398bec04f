package domain

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const (
	FieldUsername = "username"
	FieldEmail    = "email"
	FieldPassword = "password"
)

const (
	UsernameMinLen = 3
	UsernameMaxLen = 32
	PasswordMinLen = 8
	PasswordMaxLen = 128
)

const (
	MsgRequired      = "This field is required."
	MsgInvalidEmail  = "Enter a valid email address."
	MsgUsernameTaken = "Username already exists."
	MsgEmailTaken    = "Email is already registered."
)

// MsgMinLength and MsgMaxLength render the length rule messages.
func MsgMinLength(n int) string {
	return fmt.Sprintf("Ensure this field has at least %d characters.", n)
}

func MsgMaxLength(n int) string {
	return fmt.Sprintf("Ensure this field has no more than %d characters.", n)
}

var emailRule = validator.New()

// ValidationError collects every field-level problem of a request so a
// client can fix all of them in one round trip.
type ValidationError struct {
	Fields map[string][]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string][]string)}
}

func (e *ValidationError) Add(field, msg string) {
	e.Fields[field] = append(e.Fields[field], msg)
}

// Has reports whether field already failed a rule.
func (e *ValidationError) Has(field string) bool {
	return len(e.Fields[field]) > 0
}

// OrNil returns e as an error, or nil when nothing was collected.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], " "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NormalizeUsername trims and lowercases a username so that "Alice" and
// "alice" are the same account.
func NormalizeUsername(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// Registration is signup input after normalization.
type Registration struct {
	Username string
	Email    string
	Password string
}

// ValidateRegistration normalizes signup input and checks the format rules.
// Uniqueness is not checked here; the returned ValidationError may be empty
// and is meant to be extended by the caller.
func ValidateRegistration(username, email, password string) (Registration, *ValidationError) {
	reg := Registration{
		Username: NormalizeUsername(username),
		Email:    NormalizeEmail(email),
		Password: password,
	}
	verr := NewValidationError()

	checkLength(verr, FieldUsername, reg.Username, UsernameMinLen, UsernameMaxLen)

	switch {
	case reg.Email == "":
		verr.Add(FieldEmail, MsgRequired)
	case emailRule.Var(reg.Email, "email") != nil:
		verr.Add(FieldEmail, MsgInvalidEmail)
	}

	checkLength(verr, FieldPassword, reg.Password, PasswordMinLen, PasswordMaxLen)

	return reg, verr
}

// ValidateLogin normalizes the username and checks both fields are present.
// The password is left untouched.
func ValidateLogin(username, password string) (string, *ValidationError) {
	normalized := NormalizeUsername(username)
	verr := NewValidationError()
	if normalized == "" {
		verr.Add(FieldUsername, MsgRequired)
	}
	if password == "" {
		verr.Add(FieldPassword, MsgRequired)
	}
	return normalized, verr
}

func checkLength(verr *ValidationError, field, value string, minLen, maxLen int) {
	n := utf8.RuneCountInString(value)
	switch {
	case n == 0:
		verr.Add(field, MsgRequired)
	case n < minLen:
		verr.Add(field, MsgMinLength(minLen))
	case n > maxLen:
		verr.Add(field, MsgMaxLength(maxLen))
	}
}
