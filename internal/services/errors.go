package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Domain errors surfaced by the services. Handlers map these to 4xx
// responses; anything else is a 500.
var (
	ErrDuplicateEmail     = errors.New("duplicate email: owner or company email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrCompanyNotFound    = errors.New("company not found")
	ErrInvalidLocation    = errors.New("invalid location for company")
	ErrInvalidToken       = errors.New("invalid or expired invite token")
	ErrInviteNotActive    = errors.New("invite is not active")
	ErrPasswordMismatch   = errors.New("password and confirm_password do not match")
)

// ValidationError carries per-section missing-field detail for the
// registration wizard.
type ValidationError struct {
	Sections map[string]string // section name -> human-readable detail
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Sections))
	for k := range e.Sections {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Sections[k]))
	}
	return strings.Join(parts, "; ")
}

// NewMissingFieldsError builds a ValidationError from per-section missing
// field lists, skipping empty sections.
func NewMissingFieldsError(missing map[string][]string) *ValidationError {
	sections := make(map[string]string)
	for section, fields := range missing {
		if len(fields) > 0 {
			sections[section] = "Missing: " + strings.Join(fields, ", ")
		}
	}
	if len(sections) == 0 {
		return nil
	}
	return &ValidationError{Sections: sections}
}
