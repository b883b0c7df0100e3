// Package validation provides input checks for user-supplied account fields.
package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Result is the outcome of a validation check.
type Result struct {
	Valid  bool
	Errors []string
}

// Error returns the first error message, or "" when valid.
func (r Result) Error() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0]
}

const specialChars = `!@#$%^&*()_+-=[]{};':"\|,.<>/?`

var (
	upperRe    = regexp.MustCompile(`[A-Z]`)
	lowerRe    = regexp.MustCompile(`[a-z]`)
	digitRe    = regexp.MustCompile(`[0-9]`)
	emailRe    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
)

// Password checks a password against all structural rules and reports every
// unmet rule, not just the first, so callers can render a full checklist.
func Password(password string) Result {
	if password == "" {
		return Result{Valid: false, Errors: []string{"Password is required"}}
	}

	// Lengths count characters, not bytes; a multibyte rune is one character.
	var errs []string
	if utf8.RuneCountInString(password) < 8 {
		errs = append(errs, "Use 8 or more characters")
	}
	if !upperRe.MatchString(password) {
		errs = append(errs, "One Uppercase character")
	}
	if !lowerRe.MatchString(password) {
		errs = append(errs, "One lowercase character")
	}
	if !strings.ContainsAny(password, specialChars) {
		errs = append(errs, "One special character")
	}
	if !digitRe.MatchString(password) {
		errs = append(errs, "One number")
	}

	return Result{Valid: len(errs) == 0, Errors: errs}
}

// Email checks the basic shape of an email address. Single-dimension check,
// so at most one error is returned.
func Email(email string) Result {
	if email == "" {
		return Result{Valid: false, Errors: []string{"Email is required"}}
	}
	if !emailRe.MatchString(email) {
		return Result{Valid: false, Errors: []string{"Invalid email format"}}
	}
	return Result{Valid: true}
}

// Username checks length and character set. Checks short-circuit: only the
// first failed rule is reported.
func Username(username string) Result {
	if username == "" {
		return Result{Valid: false, Errors: []string{"Username is required"}}
	}
	if utf8.RuneCountInString(username) < 3 {
		return Result{Valid: false, Errors: []string{"Username must be at least 3 characters"}}
	}
	if utf8.RuneCountInString(username) > 30 {
		return Result{Valid: false, Errors: []string{"Username must be less than 30 characters"}}
	}
	if !usernameRe.MatchString(username) {
		return Result{Valid: false, Errors: []string{"Username can only contain letters, numbers, and underscores"}}
	}
	return Result{Valid: true}
}
