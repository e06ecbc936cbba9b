package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateMappingText validates the text of a mapping before it reaches the resolver.
// It rejects input that can never name a column or form an expression.
//
// The validation rules are intentionally conservative:
//   - No empty mappings
//   - No control characters other than tab
//   - Maximum length of 1024 characters
func ValidateMappingText(text string) error {
	if strings.TrimSpace(text) == "" {
		return New(ErrCodeMapping, "mapping cannot be empty")
	}

	if len(text) > 1024 {
		return New(ErrCodeMapping, "mapping too long (max 1024 characters)")
	}

	for _, r := range text {
		if r != '\t' && unicode.IsControl(r) {
			return New(ErrCodeMapping, "mapping contains invalid control characters")
		}
	}

	return nil
}

// ValidateFrameRate checks that an animation frame rate is usable.
// Rates are frames per second; zero or negative rates would never advance.
func ValidateFrameRate(rate float64) error {
	if rate <= 0 {
		return New(ErrCodeConfiguration, "frame rate must be positive, got %g", rate)
	}
	if rate > 240 {
		return New(ErrCodeConfiguration, "frame rate too high (max 240), got %g", rate)
	}
	return nil
}

// ValidateGridSpec checks the facet grid parameters.
// At most one of cols and rows may be set; zero means unset.
func ValidateGridSpec(cols, rows int) error {
	if cols < 0 || rows < 0 {
		return New(ErrCodeConfiguration, "num_col and num_row must not be negative")
	}
	if cols > 0 && rows > 0 {
		return New(ErrCodeConfiguration, "can only specify one of num_col or num_row")
	}
	return nil
}

// ValidatePath validates a relative file path for safety.
// It prevents path traversal attacks and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// plotIDRegex matches the canonical textual form of stored plot IDs.
var plotIDRegex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// ValidatePlotID validates a stored plot identifier.
func ValidatePlotID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "plot id cannot be empty")
	}
	if !plotIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid plot id: %q", id)
	}
	return nil
}
