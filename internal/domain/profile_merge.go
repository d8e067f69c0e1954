package domain

import (
	"encoding/json"
	"fmt"
)

// StylesPatch is a partial ProfileStyles; nil keys are left alone.
type StylesPatch struct {
	FontTheme         *string `json:"fontTheme,omitempty"`
	HeadingFont       *string `json:"headingFont,omitempty"`
	BodyFont          *string `json:"bodyFont,omitempty"`
	PrimaryColor      *string `json:"primaryColor,omitempty"`
	SecondaryColor    *string `json:"secondaryColor,omitempty"`
	BackgroundColor   *string `json:"backgroundColor,omitempty"`
	BackgroundOpacity *string `json:"backgroundOpacity,omitempty"`
}

// LoungePatch is a partial Lounge as found in older stored documents.
type LoungePatch struct {
	Headline          *string      `json:"headline"`
	Description       *string      `json:"description"`
	SearchPlaceholder *string      `json:"searchPlaceholder"`
	Posts             []LoungePost `json:"posts"`
}

// StoredProfile is a persisted document decoded without assuming any
// field exists. Documents written by older versions may miss fields.
type StoredProfile struct {
	TemplateID        *string            `json:"templateId"`
	Name              *string            `json:"name"`
	Title             *string            `json:"title"`
	Bio               *string            `json:"bio"`
	ProfileImage      *string            `json:"profileImage"`
	Email             *string            `json:"email"`
	Phone             *string            `json:"phone"`
	Services          []Service          `json:"services"`
	Lounge            *LoungePatch       `json:"lounge"`
	Sections          []SectionID        `json:"sections"`
	SectionVisibility map[SectionID]bool `json:"sectionVisibility"`
	Styles            *StylesPatch       `json:"styles"`
	LandingPage       *LandingPage       `json:"landingPage"`
}

// ParseStoredProfile decodes a persisted profile_config document.
func ParseStoredProfile(data []byte) (StoredProfile, error) {
	var sp StoredProfile
	if err := json.Unmarshal(data, &sp); err != nil {
		return StoredProfile{}, fmt.Errorf("decode stored profile: %w", err)
	}
	return sp, nil
}

// MergeStored reconciles a stored document with fresh defaults:
// styles, sectionVisibility and lounge merge key by key; sections and
// services replace only when non-empty; scalars overwrite when present.
func MergeStored(defaults ProfileConfig, stored StoredProfile) ProfileConfig {
	out := defaults.Clone()
	mergeScalars(&out, stored)
	out.Services = mergeServices(out.Services, stored.Services)
	out.Lounge = mergeLounge(out.Lounge, stored.Lounge)
	out.Sections = mergeSections(out.Sections, stored.Sections)
	out.SectionVisibility = mergeSectionVisibility(out.SectionVisibility, stored.SectionVisibility)
	out.Styles = mergeStyles(out.Styles, stored.Styles)
	if stored.LandingPage != nil {
		lp := *stored.LandingPage
		out.LandingPage = &lp
	}
	return out
}

func mergeScalars(dst *ProfileConfig, stored StoredProfile) {
	assign := func(target *string, v *string) {
		if v != nil {
			*target = *v
		}
	}
	assign(&dst.TemplateID, stored.TemplateID)
	assign(&dst.Name, stored.Name)
	assign(&dst.Title, stored.Title)
	assign(&dst.Bio, stored.Bio)
	assign(&dst.ProfileImage, stored.ProfileImage)
	assign(&dst.Email, stored.Email)
	assign(&dst.Phone, stored.Phone)
}

func mergeServices(def, stored []Service) []Service {
	if len(stored) == 0 {
		return def
	}
	return append([]Service(nil), stored...)
}

func mergeSections(def, stored []SectionID) []SectionID {
	if len(stored) == 0 {
		return def
	}
	out := make([]SectionID, 0, len(stored))
	seen := map[SectionID]bool{}
	for _, id := range stored {
		if !id.Valid() || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	if len(out) == 0 {
		return def
	}
	return out
}

func mergeSectionVisibility(def, stored map[SectionID]bool) map[SectionID]bool {
	out := make(map[SectionID]bool, len(def)+len(stored))
	for k, v := range def {
		out[k] = v
	}
	for k, v := range stored {
		if k.Valid() {
			out[k] = v
		}
	}
	return out
}

func mergeLounge(def Lounge, stored *LoungePatch) Lounge {
	if stored == nil {
		return def
	}
	out := def.clone()
	if stored.Headline != nil {
		out.Headline = *stored.Headline
	}
	if stored.Description != nil {
		out.Description = *stored.Description
	}
	if stored.SearchPlaceholder != nil {
		out.SearchPlaceholder = *stored.SearchPlaceholder
	}
	if stored.Posts != nil {
		out.Posts = Lounge{Posts: stored.Posts}.clone().Posts
	}
	return out
}

func mergeStyles(def ProfileStyles, patch *StylesPatch) ProfileStyles {
	if patch == nil {
		return def
	}
	out := def
	assign := func(target *string, v *string) {
		if v != nil {
			*target = *v
		}
	}
	assign(&out.FontTheme, patch.FontTheme)
	assign(&out.HeadingFont, patch.HeadingFont)
	assign(&out.BodyFont, patch.BodyFont)
	assign(&out.PrimaryColor, patch.PrimaryColor)
	assign(&out.SecondaryColor, patch.SecondaryColor)
	assign(&out.BackgroundColor, patch.BackgroundColor)
	assign(&out.BackgroundOpacity, patch.BackgroundOpacity)
	return out
}

// Profile field keys accepted by SetField.
const (
	FieldTemplateID        = "templateId"
	FieldName              = "name"
	FieldTitle             = "title"
	FieldBio               = "bio"
	FieldProfileImage      = "profileImage"
	FieldEmail             = "email"
	FieldPhone             = "phone"
	FieldServices          = "services"
	FieldLounge            = "lounge"
	FieldSections          = "sections"
	FieldSectionVisibility = "sectionVisibility"
	FieldStyles            = "styles"
	FieldLandingPage       = "landingPage"
)

// SetField replaces one top-level field with the JSON value.
func SetField(cfg ProfileConfig, key string, value json.RawMessage) (ProfileConfig, error) {
	out := cfg.Clone()
	var err error
	switch key {
	case FieldTemplateID:
		err = json.Unmarshal(value, &out.TemplateID)
	case FieldName:
		err = json.Unmarshal(value, &out.Name)
	case FieldTitle:
		err = json.Unmarshal(value, &out.Title)
	case FieldBio:
		err = json.Unmarshal(value, &out.Bio)
	case FieldProfileImage:
		err = json.Unmarshal(value, &out.ProfileImage)
	case FieldEmail:
		err = json.Unmarshal(value, &out.Email)
	case FieldPhone:
		err = json.Unmarshal(value, &out.Phone)
	case FieldServices:
		var v []Service
		if err = json.Unmarshal(value, &v); err == nil {
			if v == nil {
				v = []Service{}
			}
			out.Services = v
		}
	case FieldLounge:
		var v Lounge
		if err = json.Unmarshal(value, &v); err == nil {
			if v.Posts == nil {
				v.Posts = []LoungePost{}
			}
			out.Lounge = v
		}
	case FieldSections:
		var v []SectionID
		if err = json.Unmarshal(value, &v); err == nil {
			return SetSectionsOrder(cfg, v)
		}
	case FieldSectionVisibility:
		var v map[SectionID]bool
		if err = json.Unmarshal(value, &v); err == nil {
			for k := range v {
				if !k.Valid() {
					return cfg, fmt.Errorf("%w: %q", ErrUnknownSection, k)
				}
			}
			if v == nil {
				v = map[SectionID]bool{}
			}
			out.SectionVisibility = v
		}
	case FieldStyles:
		var v ProfileStyles
		if err = json.Unmarshal(value, &v); err == nil {
			out.Styles = v
		}
	case FieldLandingPage:
		var v *LandingPage
		if err = json.Unmarshal(value, &v); err == nil {
			out.LandingPage = v
		}
	default:
		return cfg, fmt.Errorf("%w: %q", ErrUnknownField, key)
	}
	if err != nil {
		return cfg, fmt.Errorf("field %s: %w", key, err)
	}
	return out, nil
}
