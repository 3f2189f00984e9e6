package errors

import (
	"strings"
	"unicode"
)

// ValidateName validates an object name from a design snapshot.
// Names appear in logs and as map keys during construction, so they must be
// non-empty and free of control characters.
//
// The kind parameter names the object class ("instance", "net", ...) and is
// only used in the error message.
func ValidateName(kind, name string) error {
	if name == "" {
		return New(ErrCodeInvalidDesign, 0, "%s name cannot be empty", kind)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidDesign, 0, "%s name %q contains invalid control characters", kind, name)
		}
	}

	return nil
}

// ValidateOutputPath validates a path the CLI is about to write.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 1024 characters
//   - No null bytes or control characters
//   - Must not name a directory (trailing separator)
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, 0, "output path cannot be empty")
	}

	const maxPathLength = 1024
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, 0, "output path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, 0, "output path contains invalid characters")
		}
	}

	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, "\\") {
		return New(ErrCodeInvalidInput, 0, "output path %q names a directory", path)
	}

	return nil
}
