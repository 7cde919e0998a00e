// Package sanitize strips markup from user-supplied text before it is stored
// and echoed back in listings and reminder messages.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Text removes every HTML element from s and unescapes the entities the
// policy produced, so "R&D" stays "R&D".
func Text(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}
