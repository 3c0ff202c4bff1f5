package recorder

import (
	"path/filepath"
	"strings"
)

// RelativePath returns path relative to base, using forward slashes, so
// that stored history does not depend on where the repository is checked
// out. Paths outside base, or any path when base is empty, are returned
// cleaned but otherwise unchanged.
func RelativePath(base, path string) string {
	if base == "" {
		return filepath.ToSlash(filepath.Clean(path))
	}

	absBase, err := filepath.Abs(base)
	if err != nil {
		return filepath.ToSlash(filepath.Clean(path))
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return filepath.ToSlash(filepath.Clean(path))
	}

	rel, err := filepath.Rel(absBase, absPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(filepath.Clean(path))
	}
	return filepath.ToSlash(rel)
}

// TruncateString truncates a string to the specified maximum length.
// If the string is longer than maxLen, it is truncated and "..." is appended.
// A non-positive maxLen disables truncation.
func TruncateString(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
