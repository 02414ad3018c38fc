package errors

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxNameLength bounds node names; generated declarations can be long
// (full group paths) but never unbounded.
const maxNameLength = 1024

// ValidateName validates a node name for use in a graph declaration.
//
// The validation rules are:
//   - No empty names
//   - No control characters or null bytes
//   - Maximum length of 1024 characters
//
// Sigil and delimiter rules depend on the graph configuration and are
// checked by the caller.
func ValidateName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "name cannot be empty")
	}

	if len(name) > maxNameLength {
		return New(ErrCodeInvalidName, "name too long (max %d characters)", maxNameLength)
	}

	if !utf8.ValidString(name) {
		return New(ErrCodeInvalidName, "name is not valid UTF-8: %q", name)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "name contains invalid control characters: %q", name)
		}
	}

	return nil
}

// ValidateGroupPath validates a delimited group path.
// Every segment must be a valid name; empty segments ("a//b", trailing
// delimiters) are rejected.
func ValidateGroupPath(path, delimiter string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "group path cannot be empty")
	}

	for _, seg := range strings.Split(path, delimiter) {
		if seg == "" {
			return New(ErrCodeInvalidPath, "group path %q contains an empty segment", path)
		}
		if err := ValidateName(seg); err != nil {
			return Wrap(ErrCodeInvalidPath, err, "group path %q", path)
		}
	}

	return nil
}

// ValidateSymbol validates a configured delimiter or sigil.
// Both must be exactly one printable, non-space character.
func ValidateSymbol(kind, s string) error {
	if utf8.RuneCountInString(s) != 1 {
		return New(ErrCodeInvalidConfig, "%s must be a single character, got %q", kind, s)
	}

	r, _ := utf8.DecodeRuneInString(s)
	if unicode.IsSpace(r) || !unicode.IsPrint(r) {
		return New(ErrCodeInvalidConfig, "%s must be a printable non-space character, got %q", kind, s)
	}

	return nil
}
