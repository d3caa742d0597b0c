package errors

import (
	"strings"
	"unicode"
)

// maxPathLength bounds user-supplied file paths.
const maxPathLength = 4096

// ValidateOutputPath validates a destination path given on the command line.
//
// Validation rules:
//   - Path cannot be empty or whitespace
//   - Maximum length of 4096 bytes
//   - No null bytes or control characters
//
// Existence and permissions are not checked here; the save_file sink
// reports those as FILESYSTEM errors when it opens the file.
func ValidateOutputPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateIndent rejects negative indentation widths.
func ValidateIndent(n int) error {
	if n < 0 {
		return New(ErrCodeInvalidConfig, "indent must be non-negative, got %d", n)
	}
	return nil
}
