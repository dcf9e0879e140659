package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateName validates a name that becomes a path component, such as a
// dataset name in an experiment configuration. kind is used in messages.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of 128 characters
//   - Only letters, digits, '.', '_' and '-'
func ValidateName(kind, name string) error {
	if name == "" {
		return New(ErrCodeInvalidConfig, "%s name cannot be empty", kind)
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidConfig, "%s name too long (max 128 characters)", kind)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidConfig, "%s name contains invalid control characters", kind)
		}
	}

	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidConfig, "%s name cannot contain path traversal sequences (..)", kind)
	}
	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidConfig, "%s name cannot contain path separators", kind)
	}

	if !nameRegex.MatchString(name) {
		return New(ErrCodeInvalidConfig, "invalid %s name: %q", kind, name)
	}

	return nil
}

var nameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidatePath validates a user-supplied file path.
// It rejects empty paths and paths containing null bytes or control characters.
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "path contains invalid characters")
		}
	}

	return nil
}
