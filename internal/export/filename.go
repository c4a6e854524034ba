package export

import "strings"

// fallbackFilename is used when sanitization strips a title to nothing.
const fallbackFilename = "resume"

// SanitizeFilename reduces a resume title to a safe filename base:
// lower-cased with every character outside [a-z0-9] removed, including
// accented letters and whitespace.
func SanitizeFilename(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return fallbackFilename
	}
	return b.String()
}
