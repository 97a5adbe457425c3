package normalize

import (
	"regexp"
	"strings"
)

var (
	nonSlugRun = regexp.MustCompile(`[^a-z0-9]+`)
	edgeDashes = regexp.MustCompile(`^-+|-+$`)
	dashRun    = regexp.MustCompile(`-{2,}`)
)

// Slug derives the URL-safe identifier for a title. It never fails; a title
// with no letters or digits yields an empty slug.
func Slug(title string) string {
	s := strings.TrimSpace(strings.ToLower(title))
	s = nonSlugRun.ReplaceAllString(s, "-")
	s = edgeDashes.ReplaceAllString(s, "")
	return dashRun.ReplaceAllString(s, "-")
}
