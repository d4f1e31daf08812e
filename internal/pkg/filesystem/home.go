package filesystem

import (
	"os"
	"path/filepath"
	"strings"
)

// UserHomeDir returns the current user's home directory.
// If the home directory cannot be determined, it returns "." as a fallback.
func UserHomeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

// StateDir returns the user-scoped paceline state directory (~/.paceline),
// optionally joined with sub-path elements.
func StateDir(elem ...string) string {
	parts := append([]string{UserHomeDir(), ".paceline"}, elem...)
	return filepath.Join(parts...)
}

// AbbreviateHome replaces a leading home-directory prefix in path with "~".
func AbbreviateHome(path string) string {
	home := UserHomeDir()
	if home == "." || home == "" {
		return path
	}
	if path == home {
		return "~"
	}
	if rel, err := filepath.Rel(home, path); err == nil && !strings.HasPrefix(rel, "..") && !filepath.IsAbs(rel) {
		return filepath.Join("~", rel)
	}
	return path
}
