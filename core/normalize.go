package core

import "strings"

// NormalizeFieldName sanitizes a raw field name into the canonical
// lower_snake form: lowercase, every run of characters outside [a-z0-9]
// collapsed to a single underscore, leading and trailing underscores
// stripped. The result may be empty when the input has no usable
// characters. Idempotent.
func NormalizeFieldName(raw string) string {
	lowered := strings.ToLower(raw)

	var b strings.Builder
	b.Grow(len(lowered))
	lastUnderscore := false
	for _, r := range lowered {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastUnderscore = false
			continue
		}
		if !lastUnderscore {
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	return strings.Trim(b.String(), "_")
}
