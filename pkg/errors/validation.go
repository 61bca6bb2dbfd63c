package errors

import (
	"strings"
	"unicode"
)

// ValidateSampleName validates a sample or group name before it is used to
// build output file names. Names come from directory listings or API
// requests and must not escape the output directory.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of 200 characters
func ValidateSampleName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPath, "sample name cannot be empty")
	}

	if len(name) > 200 {
		return New(ErrCodeInvalidPath, "sample name too long (max 200 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "sample name contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\\",   // Backslash (Windows path)
		"\x00", // Null byte
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidPath, "sample name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateRunID validates a run identifier received over the API.
// Run IDs are UUIDs; anything else is rejected before reaching a store.
func ValidateRunID(id string) error {
	if len(id) != 36 {
		return New(ErrCodeInvalidInput, "run id must be a UUID")
	}
	for i, r := range id {
		switch {
		case i == 8 || i == 13 || i == 18 || i == 23:
			if r != '-' {
				return New(ErrCodeInvalidInput, "run id must be a UUID")
			}
		case !unicode.Is(unicode.ASCII_Hex_Digit, r):
			return New(ErrCodeInvalidInput, "run id must be a UUID")
		}
	}
	return nil
}
