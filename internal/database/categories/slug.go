package categories

import (
	"regexp"
	"strings"
)

var (
	slugPattern        = regexp.MustCompile(`^[a-z0-9-]+$`)
	nonAlphanumericRun = regexp.MustCompile(`[^a-z0-9]+`)
)

// Slugify derives a URL-safe slug from a display name: lower-case,
// collapse every non-alphanumeric run into a single hyphen, trim edge
// hyphens. "Advent & Lent" becomes "advent-lent".
func Slugify(name string) string {
	slug := nonAlphanumericRun.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}

// ValidSlug reports whether s is a well-formed stored slug.
func ValidSlug(s string) bool {
	return len(s) >= 1 && len(s) <= 100 && slugPattern.MatchString(s)
}
