package sudoers

import (
	"regexp"
	"strings"
)

// commentRegex strips a #-comment to the end of its line. The dot does not
// cross newlines, so each line of a multi-line fragment is stripped
// independently.
var commentRegex = regexp.MustCompile(`#.*`)

// Normalize canonicalizes sudoers text for duplicate comparison: comments
// are stripped, the text is lowercased, and all runs of whitespace
// (newlines included) collapse to single spaces. The result is never
// persisted; it exists only to make containment checks insensitive to
// formatting.
func Normalize(text string) string {
	stripped := commentRegex.ReplaceAllString(text, "")
	return strings.Join(strings.Fields(strings.ToLower(stripped)), " ")
}
