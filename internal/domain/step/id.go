package step

import (
	"errors"
	"regexp"
	"strings"
)

// ID uniquely identifies a step within a provisioning graph.
// Format: provider:resource (e.g., "docker:engine", "apt:package:curl").
type ID struct {
	value string
}

// Errors for ID validation.
var (
	ErrEmptyID   = errors.New("step ID cannot be empty")
	ErrInvalidID = errors.New("step ID format invalid: must be alphanumeric segments separated by colons")
)

// idPattern validates step ID format: alphanumeric segments with
// hyphens, underscores or slashes, separated by colons.
var idPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_/-]*(?::[a-zA-Z0-9][a-zA-Z0-9_/-]*)*$`)

// NewID creates a new ID from a string.
func NewID(value string) (ID, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ID{}, ErrEmptyID
	}

	if !idPattern.MatchString(trimmed) {
		return ID{}, ErrInvalidID
	}

	return ID{value: trimmed}, nil
}

// MustNewID creates a new ID, panicking on error.
// Use for compile-time known values that should never fail validation.
func MustNewID(value string) ID {
	id, err := NewID(value)
	if err != nil {
		panic("invalid step ID: " + value + ": " + err.Error())
	}
	return id
}

// String returns the string representation.
func (id ID) String() string {
	return id.value
}

// Provider extracts the provider name (first segment).
func (id ID) Provider() string {
	parts := strings.SplitN(id.value, ":", 2)
	return parts[0]
}
