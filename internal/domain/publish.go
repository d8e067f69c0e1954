package domain

import (
	"fmt"
	"regexp"
	"strings"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// NormalizeSlug trims surrounding whitespace and slashes and lower-cases.
func NormalizeSlug(s string) string {
	return strings.ToLower(strings.Trim(strings.TrimSpace(s), "/"))
}

// ValidateSlug normalizes s and checks it is publishable.
func ValidateSlug(s string) (string, error) {
	slug := NormalizeSlug(s)
	if slug == "" || len(slug) > 64 || !slugPattern.MatchString(slug) {
		return "", fmt.Errorf("%w: %q", ErrInvalidSlug, s)
	}
	return slug, nil
}

// IsServable reports whether cfg may be served at slug.
func IsServable(cfg ProfileConfig, slug string) bool {
	lp := cfg.LandingPage
	if lp == nil || !lp.Published || lp.Slug == "" {
		return false
	}
	return NormalizeSlug(lp.Slug) == NormalizeSlug(slug)
}

// VisibleSections resolves which sections render, in order. A section
// must be listed, flagged visible and have content. Call it on every
// render; the result is never stored.
func VisibleSections(cfg ProfileConfig) []SectionID {
	out := make([]SectionID, 0, len(cfg.Sections))
	seen := map[SectionID]bool{}
	for _, id := range cfg.Sections {
		if seen[id] || !cfg.SectionVisibility[id] || !hasContent(cfg, id) {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func hasContent(cfg ProfileConfig, id SectionID) bool {
	switch id {
	case SectionAbout:
		return strings.TrimSpace(cfg.Bio) != ""
	case SectionServices:
		return len(cfg.Services) > 0
	case SectionLounge:
		return len(cfg.Lounge.Posts) > 0
	}
	return false
}

// PublishedView is what the public renderer receives. Components holds
// the visible blocks of the owner's composed page, if one was saved.
type PublishedView struct {
	Slug       string        `json:"slug"`
	Config     ProfileConfig `json:"config"`
	Sections   []SectionID   `json:"sections"`
	Components []Component   `json:"components,omitempty"`
}

// NewPublishedView resolves the render-time section list for cfg.
func NewPublishedView(cfg ProfileConfig) PublishedView {
	slug := ""
	if cfg.LandingPage != nil {
		slug = cfg.LandingPage.Slug
	}
	return PublishedView{Slug: slug, Config: cfg, Sections: VisibleSections(cfg)}
}
