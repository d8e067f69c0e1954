package domain

import (
	"fmt"
	"strings"
	"time"
)

// Language supported UI/content languages
type Language string

const (
	LanguageEN Language = "en"
	LanguageHE Language = "he"
)

// ParseLanguage falls back to English for anything unrecognized.
func ParseLanguage(s string) Language {
	switch Language(strings.ToLower(strings.TrimSpace(s))) {
	case LanguageHE:
		return LanguageHE
	default:
		return LanguageEN
	}
}

// SectionID names a region of the profile page.
type SectionID string

const (
	SectionAbout    SectionID = "about"
	SectionServices SectionID = "services"
	SectionLounge   SectionID = "lounge"
)

// AllSections default render order.
var AllSections = []SectionID{SectionAbout, SectionServices, SectionLounge}

func (s SectionID) Valid() bool {
	switch s {
	case SectionAbout, SectionServices, SectionLounge:
		return true
	}
	return false
}

// Service one entry of the profile services list.
type Service struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// LoungePost a social-style post shown in the lounge section.
type LoungePost struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Body       string   `json:"body"`
	Tags       []string `json:"tags"`
	AuthorName string   `json:"authorName"`
	AuthorRole string   `json:"authorRole"`
	AvatarURL  string   `json:"avatarUrl,omitempty"`
	CoverURL   string   `json:"coverUrl,omitempty"`
	CreatedAt  string   `json:"createdAt"` // ISO-8601
	Likes      int      `json:"likes"`
	Saves      int      `json:"saves"`
	Pinned     bool     `json:"pinned"`
}

// Lounge sub-document of ProfileConfig.
type Lounge struct {
	Headline          string       `json:"headline"`
	Description       string       `json:"description"`
	SearchPlaceholder string       `json:"searchPlaceholder"`
	Posts             []LoungePost `json:"posts"`
}

// ProfileStyles nested theme object.
type ProfileStyles struct {
	FontTheme         string `json:"fontTheme"`
	HeadingFont       string `json:"headingFont"`
	BodyFont          string `json:"bodyFont"`
	PrimaryColor      string `json:"primaryColor"`
	SecondaryColor    string `json:"secondaryColor"`
	BackgroundColor   string `json:"backgroundColor"`
	BackgroundOpacity string `json:"backgroundOpacity"`
}

// LandingPage publish metadata.
type LandingPage struct {
	Slug          string     `json:"slug"`
	Published     bool       `json:"published"`
	PublishedAt   *time.Time `json:"publishedAt,omitempty"`
	LastUpdatedAt *time.Time `json:"lastUpdatedAt,omitempty"`
}

// ProfileConfig is the whole single-page profile document. It is always
// persisted as one unit.
type ProfileConfig struct {
	TemplateID        string             `json:"templateId"`
	Name              string             `json:"name"`
	Title             string             `json:"title"`
	Bio               string             `json:"bio"`
	ProfileImage      string             `json:"profileImage"`
	Email             string             `json:"email"`
	Phone             string             `json:"phone"`
	Services          []Service          `json:"services"`
	Lounge            Lounge             `json:"lounge"`
	Sections          []SectionID        `json:"sections"`
	SectionVisibility map[SectionID]bool `json:"sectionVisibility"`
	Styles            ProfileStyles      `json:"styles"`
	LandingPage       *LandingPage       `json:"landingPage,omitempty"`
}

// Clone deep-copies the config.
func (c ProfileConfig) Clone() ProfileConfig {
	out := c
	if c.Services != nil {
		out.Services = append(make([]Service, 0, len(c.Services)), c.Services...)
	}
	out.Lounge = c.Lounge.clone()
	if c.Sections != nil {
		out.Sections = append(make([]SectionID, 0, len(c.Sections)), c.Sections...)
	}
	out.SectionVisibility = make(map[SectionID]bool, len(c.SectionVisibility))
	for k, v := range c.SectionVisibility {
		out.SectionVisibility[k] = v
	}
	if c.LandingPage != nil {
		lp := *c.LandingPage
		out.LandingPage = &lp
	}
	return out
}

func (l Lounge) clone() Lounge {
	out := l
	if l.Posts == nil {
		return out
	}
	out.Posts = make([]LoungePost, len(l.Posts))
	for i, p := range l.Posts {
		if p.Tags != nil {
			p.Tags = append(make([]string, 0, len(p.Tags)), p.Tags...)
		}
		out.Posts[i] = p
	}
	return out
}

// FontTheme resolved font pair.
type FontTheme struct {
	Key         string `json:"key"`
	Label       string `json:"label"`
	HeadingFont string `json:"headingFont"`
	BodyFont    string `json:"bodyFont"`
}

// FontThemes static theme table.
var FontThemes = map[string]FontTheme{
	"modern":         {Key: "modern", Label: "Modern", HeadingFont: "'Poppins', sans-serif", BodyFont: "'Inter', sans-serif"},
	"classic":        {Key: "classic", Label: "Classic", HeadingFont: "'Playfair Display', serif", BodyFont: "'Lora', serif"},
	"elegant":        {Key: "elegant", Label: "Elegant", HeadingFont: "'Cormorant Garamond', serif", BodyFont: "'Montserrat', sans-serif"},
	"friendly":       {Key: "friendly", Label: "Friendly", HeadingFont: "'Nunito', sans-serif", BodyFont: "'Nunito Sans', sans-serif"},
	"hebrew":         {Key: "hebrew", Label: "Hebrew Modern", HeadingFont: "'Heebo', sans-serif", BodyFont: "'Assistant', sans-serif"},
	"hebrew-classic": {Key: "hebrew-classic", Label: "Hebrew Classic", HeadingFont: "'Frank Ruhl Libre', serif", BodyFont: "'Heebo', sans-serif"},
}

// DefaultFontTheme per language.
func DefaultFontTheme(lang Language) string {
	if lang == LanguageHE {
		return "hebrew"
	}
	return "modern"
}

// Style keys accepted by SetStyle.
const (
	StyleFontTheme         = "fontTheme"
	StyleHeadingFont       = "headingFont"
	StyleBodyFont          = "bodyFont"
	StylePrimaryColor      = "primaryColor"
	StyleSecondaryColor    = "secondaryColor"
	StyleBackgroundColor   = "backgroundColor"
	StyleBackgroundOpacity = "backgroundOpacity"
)

// SetStyle writes one key of the nested styles object.
func SetStyle(cfg ProfileConfig, key, value string) (ProfileConfig, error) {
	out := cfg.Clone()
	switch key {
	case StyleFontTheme:
		return SetFontTheme(cfg, value)
	case StyleHeadingFont:
		out.Styles.HeadingFont = value
	case StyleBodyFont:
		out.Styles.BodyFont = value
	case StylePrimaryColor:
		out.Styles.PrimaryColor = value
	case StyleSecondaryColor:
		out.Styles.SecondaryColor = value
	case StyleBackgroundColor:
		out.Styles.BackgroundColor = value
	case StyleBackgroundOpacity:
		out.Styles.BackgroundOpacity = value
	default:
		return cfg, fmt.Errorf("%w: %q", ErrUnknownStyleKey, key)
	}
	return out, nil
}

// SetFontTheme selects a theme and writes its resolved fonts.
func SetFontTheme(cfg ProfileConfig, key string) (ProfileConfig, error) {
	theme, ok := FontThemes[key]
	if !ok {
		return cfg, fmt.Errorf("%w: %q", ErrUnknownFontTheme, key)
	}
	out := cfg.Clone()
	out.Styles.FontTheme = theme.Key
	out.Styles.HeadingFont = theme.HeadingFont
	out.Styles.BodyFont = theme.BodyFont
	return out, nil
}

// SetSectionVisibility only touches the visibility mapping; the order
// list is left as is.
func SetSectionVisibility(cfg ProfileConfig, id SectionID, visible bool) (ProfileConfig, error) {
	if !id.Valid() {
		return cfg, fmt.Errorf("%w: %q", ErrUnknownSection, id)
	}
	out := cfg.Clone()
	out.SectionVisibility[id] = visible
	return out, nil
}

// SetSectionsOrder replaces the order list wholesale. Unknown ids are
// rejected and duplicates dropped. Sections left out are no longer
// rendered; that is accepted.
func SetSectionsOrder(cfg ProfileConfig, order []SectionID) (ProfileConfig, error) {
	seen := make(map[SectionID]bool, len(order))
	clean := make([]SectionID, 0, len(order))
	for _, id := range order {
		if !id.Valid() {
			return cfg, fmt.Errorf("%w: %q", ErrUnknownSection, id)
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		clean = append(clean, id)
	}
	out := cfg.Clone()
	out.Sections = clean
	return out, nil
}

// ValidateLayout applies the same checks the per-field setters apply to
// sections and sectionVisibility, for documents written as a whole.
func ValidateLayout(cfg ProfileConfig) (ProfileConfig, error) {
	for id := range cfg.SectionVisibility {
		if !id.Valid() {
			return cfg, fmt.Errorf("%w: %q", ErrUnknownSection, id)
		}
	}
	out, err := SetSectionsOrder(cfg, cfg.Sections)
	if err != nil {
		return cfg, err
	}
	if cfg.Sections == nil {
		out.Sections = nil
	}
	return out, nil
}
