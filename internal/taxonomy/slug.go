// Package taxonomy builds the three-level failure vocabulary: static
// domains, data-derived categories, and extension-supplied terms.
package taxonomy

import "strings"

// Slug converts a human-readable label into a stable identifier fragment.
// Lowercases, folds separator characters (space, period, comma, slash,
// underscore) to a single hyphen, strips everything outside [a-z0-9-] and
// trims leading/trailing hyphens. Deterministic and total: an empty or
// all-punctuation label yields an empty slug, which callers must guard.
func Slug(label string) string {
	var b strings.Builder
	b.Grow(len(label))

	prevHyphen := false
	for _, r := range strings.ToLower(label) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			prevHyphen = false
		case r == ' ' || r == '.' || r == ',' || r == '/' || r == '_' || r == '-':
			if !prevHyphen && b.Len() > 0 {
				b.WriteByte('-')
				prevHyphen = true
			}
		default:
			// dropped
		}
	}

	return strings.TrimRight(b.String(), "-")
}
