package errors

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// ValidateRunID checks that id is a canonical UUID as issued by the history
// store. It rejects anything that could be used to address rows or files
// outside the store.
func ValidateRunID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidRunID, "run id cannot be empty")
	}
	u, err := uuid.Parse(id)
	if err != nil {
		return Wrap(ErrCodeInvalidRunID, err, "invalid run id %q", id)
	}
	if u.String() != strings.ToLower(id) {
		return New(ErrCodeInvalidRunID, "run id %q is not in canonical form", id)
	}
	return nil
}

// ValidatePath validates a user supplied output path.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "path cannot be empty")
	}

	const maxPathLength = 500
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
