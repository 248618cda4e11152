package content

import "strings"

// Slugify derives a URL slug from a display name: lower-cased, non-alnum
// stripped, whitespace runs collapsed to single hyphens, leading and
// trailing hyphens trimmed. Idempotent.
func Slugify(value string) string {
	s := strings.ToLower(strings.TrimSpace(value))

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		case r == ' ', r == '\t', r == '\n':
			b.WriteRune(' ')
		}
	}

	fields := strings.FieldsFunc(b.String(), func(r rune) bool { return r == ' ' })
	slug := strings.Join(fields, "-")

	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}
	return strings.Trim(slug, "-")
}
