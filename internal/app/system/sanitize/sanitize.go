// internal/app/system/sanitize/sanitize.go
//
// Package sanitize strips markup from free-text fields before they are
// stored. All user-supplied prose (descriptions, messages, feedback) passes
// through here so stored documents never carry HTML.
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Text removes all HTML from s and trims surrounding whitespace.
func Text(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}

// Slice sanitizes each element in place and drops entries that become empty.
func Slice(in []string) []string {
	out := in[:0]
	for _, s := range in {
		if clean := Text(s); clean != "" {
			out = append(out, clean)
		}
	}
	return out
}
