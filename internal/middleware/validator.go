package middleware

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Input validation and sanitization utilities

// ErrMissingCredentials is the login form error for blank fields.
var ErrMissingCredentials = errors.New("Por favor ingrese usuario y contraseña")

var auditIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ValidateCredentials rejects a login form with an empty field. Whitespace
// counts as empty.
func ValidateCredentials(username, password string) error {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" {
		return ErrMissingCredentials
	}
	return nil
}

// ValidateAuditID checks the {id} path segment before it is put into a
// backend URL.
func ValidateAuditID(id string) error {
	if !auditIDPattern.MatchString(id) {
		return fmt.Errorf("invalid audit id %q", id)
	}
	return nil
}

// ValidateClientID reports whether a cookie-provided client id is a UUID.
func ValidateClientID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	input = strings.ReplaceAll(input, "\x00", "")

	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}

// ValidateLimit clamps a limit query parameter.
func ValidateLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
