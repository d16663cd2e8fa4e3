// Package blog derives URL slugs for published articles. Slugs are unique per
// user, not globally.
package blog

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// maxSlugAttempts bounds the collision probe. Past the cap a random token
// suffix is used instead of the next counter, so adversarial duplicate titles
// cannot loop forever.
const maxSlugAttempts = 50

var (
	nonWordPattern   = regexp.MustCompile(`[^\w\s-]`)
	separatorPattern = regexp.MustCompile(`[\s_-]+`)
)

// Slugify lowercases the title, strips non-word characters, and collapses
// whitespace, underscores, and hyphen runs into single hyphens.
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = nonWordPattern.ReplaceAllString(s, "")
	s = separatorPattern.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// ExistsFunc reports whether a slug is already taken for the user.
type ExistsFunc func(slug, userID string) (bool, error)

// UniqueSlug derives the base slug from the title and probes for a free one by
// appending -1, -2, ... up to maxSlugAttempts, then falls back to a short
// random token suffix.
func UniqueSlug(title, userID string, exists ExistsFunc) (string, error) {
	base := Slugify(title)
	if base == "" {
		base = "episode"
	}

	slug := base
	for i := 1; i <= maxSlugAttempts; i++ {
		taken, err := exists(slug, userID)
		if err != nil {
			return "", fmt.Errorf("failed to check slug %q: %w", slug, err)
		}
		if !taken {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}

	return fmt.Sprintf("%s-%s", base, uuid.NewString()[:8]), nil
}
