package schema

import (
	"fmt"
	"strings"
	"unicode"
)

// Slugify turns arbitrary human text into a machine identifier limited to
// [a-z0-9_]. It never fails: an empty result falls back to the supplied
// fallback, and identifiers starting with a digit get a "field_" prefix so
// they stay valid as JSON-schema property names everywhere.
func Slugify(text, fallback string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		case unicode.IsSpace(r) || r == '-' || r == '_':
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}

	slug := strings.Trim(b.String(), "_")
	if slug == "" {
		slug = fallback
	}
	if slug != "" && slug[0] >= '0' && slug[0] <= '9' {
		slug = "field_" + slug
	}
	return slug
}

// EnsureUnique returns base if unused, otherwise base_2, base_3, ... The
// chosen key is recorded in used.
func EnsureUnique(base string, used map[string]bool) string {
	key := base
	for n := 2; used[key]; n++ {
		key = fmt.Sprintf("%s_%d", base, n)
	}
	used[key] = true
	return key
}
