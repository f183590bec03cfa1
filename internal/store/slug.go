// ABOUTME: URL slug derivation for page titles
// ABOUTME: Lowercases and collapses every non-alphanumeric run into a single hyphen

package store

import (
	"regexp"
	"strings"
)

var slugSeparator = regexp.MustCompile(`[^a-z0-9]+`)

// fallbackSlug is stored when a title has no ASCII alphanumerics.
const fallbackSlug = "untitled"

// Slugify derives a URL-safe slug from a title. The result never starts or
// ends with a hyphen and never contains two hyphens in a row. It may be empty.
func Slugify(title string) string {
	s := slugSeparator.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(s, "-")
}
