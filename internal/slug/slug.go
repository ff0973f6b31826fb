// Package slug derives URL identifiers from human readable titles.
package slug

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
	gosimple "github.com/gosimple/slug"
)

const fallbackPrefix = "untitled"

// MaxLength bounds a generated slug so that a "-N" suffix still fits a
// 255 character column. Transliteration can make the slug longer than the
// title it came from.
const MaxLength = 240

// Generate lowercases title, transliterates non-ASCII letters and joins the
// remaining words with hyphens. Titles with nothing to keep ("!!!", emoji)
// map to a stable "untitled-<hash>" value so the result is never empty.
// Example: "Café Noël 2026" → "cafe-noel-2026"
func Generate(title string) string {
	result := gosimple.MakeLang(strings.TrimSpace(title), "en")
	result = strings.Trim(truncate(result), "-")
	if result != "" {
		return result
	}
	return fmt.Sprintf("%s-%016x", fallbackPrefix, xxhash.Sum64String(title))[:len(fallbackPrefix)+9]
}

// IsValid reports whether value only contains lowercase letters, digits and
// single hyphens between them.
func IsValid(value string) bool {
	return value != "" && gosimple.IsSlug(value)
}

// truncate cuts an ASCII slug to MaxLength, preferring a word boundary.
func truncate(value string) string {
	if len(value) <= MaxLength {
		return value
	}
	value = value[:MaxLength]
	if i := strings.LastIndexByte(value, '-'); i > MaxLength/2 {
		value = value[:i]
	}
	return value
}
