package community

import (
	"regexp"
	"strings"
)

var (
	slugWhitespace = regexp.MustCompile(`\s+`)
	slugStrip      = regexp.MustCompile(`[^\w-]+`)
)

// Slugify derives the URL-safe identifier for a community name: lowercase,
// whitespace runs become a single hyphen, everything outside [0-9a-z_-] is
// stripped. The derivation is deterministic and idempotent. Names made up
// entirely of stripped characters yield "" and are rejected upstream.
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = slugWhitespace.ReplaceAllString(s, "-")
	return slugStrip.ReplaceAllString(s, "")
}
