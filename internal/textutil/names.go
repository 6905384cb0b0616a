package textutil

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// HasExtension reports whether name ends with one of exts. Comparison is
// case-insensitive and tolerates extensions given with or without the dot.
func HasExtension(name string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return false
	}
	for _, candidate := range exts {
		candidate = strings.ToLower(strings.TrimSpace(candidate))
		if candidate == "" {
			continue
		}
		if !strings.HasPrefix(candidate, ".") {
			candidate = "." + candidate
		}
		if candidate == ext {
			return true
		}
	}
	return false
}

// TitleCase converts separators to spaces and title-cases the result.
// Scripts without case (CJK) pass through unchanged.
func TitleCase(value string) string {
	value = strings.NewReplacer(".", " ", "_", " ").Replace(value)
	value = strings.Join(strings.Fields(value), " ")
	return cases.Title(language.Und).String(value)
}

// Ternary is a generic conditional helper that returns a if cond is true, b otherwise.
func Ternary[T any](cond bool, a, b T) T {
	if cond {
		return a
	}
	return b
}
