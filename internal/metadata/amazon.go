package metadata

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	dpPattern        = regexp.MustCompile(`(?i)/dp/([A-Z0-9]{10})`)
	gpProductPattern = regexp.MustCompile(`(?i)/gp/product/([A-Z0-9]{10})`)
	isbn10Pattern    = regexp.MustCompile(`(?i)^[0-9]{9}[0-9X]$`)
)

// ExtractVolumeID pulls the 10-character ISBN-10 or ASIN out of an
// Amazon product URL. Handles the /dp/XXXXXXXXXX and
// /gp/product/XXXXXXXXXX path shapes; returns "" for anything else.
func ExtractVolumeID(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	if !strings.Contains(parsed.Hostname(), "amazon") {
		return ""
	}

	if m := dpPattern.FindStringSubmatch(parsed.Path); m != nil {
		return m[1]
	}
	if m := gpProductPattern.FindStringSubmatch(parsed.Path); m != nil {
		return m[1]
	}
	return ""
}

// IsLikelyISBN reports whether the identifier looks like an ISBN-10:
// nine digits followed by a digit or X check character. Amazon ASINs
// that are not ISBNs start with a letter and never match.
func IsLikelyISBN(id string) bool {
	return isbn10Pattern.MatchString(id)
}
