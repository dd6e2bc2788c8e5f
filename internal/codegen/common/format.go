package common

import (
	"path/filepath"
	"strings"
)

// NormalizeFormat maps user-facing format names to one of "json", "yaml" or "toml".
// Unknown formats yield "".
func NormalizeFormat(f string) string {
	switch strings.ToLower(f) {
	case "json":
		return "json"
	case "yaml", "yml":
		return "yaml"
	case "toml":
		return "toml"
	default:
		return ""
	}
}

// FormatForPath infers the format from a file extension.
func FormatForPath(path string) string {
	return NormalizeFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}
