package domain

import "sort"

// Template is a named partial profile used to restyle or re-seed a
// profile. Nil/empty fields are not part of the template.
type Template struct {
	Key               string             `json:"key"`
	Label             string             `json:"label"`
	Sections          []SectionID        `json:"sections,omitempty"`
	SectionVisibility map[SectionID]bool `json:"sectionVisibility,omitempty"`
	Styles            StylesPatch        `json:"styles"`
}

func strPtr(s string) *string { return &s }

// Templates registry keyed by template key. "scratch" is handled by
// ApplyTemplate and is not listed here.
var Templates = map[string]Template{
	"elegant": {
		Key:   "elegant",
		Label: "Elegant",
		Styles: StylesPatch{
			FontTheme:       strPtr("elegant"),
			HeadingFont:     strPtr(FontThemes["elegant"].HeadingFont),
			BodyFont:        strPtr(FontThemes["elegant"].BodyFont),
			PrimaryColor:    strPtr("#8B5E3C"),
			SecondaryColor:  strPtr("#D4AF37"),
			BackgroundColor: strPtr("#FAF7F2"),
		},
	},
	"bold": {
		Key:      "bold",
		Label:    "Bold",
		Sections: []SectionID{SectionServices, SectionAbout, SectionLounge},
		Styles: StylesPatch{
			PrimaryColor:      strPtr("#E11D48"),
			SecondaryColor:    strPtr("#111827"),
			BackgroundColor:   strPtr("#FFF1F2"),
			BackgroundOpacity: strPtr("90"),
		},
	},
	"calm": {
		Key:   "calm",
		Label: "Calm",
		Styles: StylesPatch{
			FontTheme:      strPtr("friendly"),
			HeadingFont:    strPtr(FontThemes["friendly"].HeadingFont),
			BodyFont:       strPtr(FontThemes["friendly"].BodyFont),
			PrimaryColor:   strPtr("#0F766E"),
			SecondaryColor: strPtr("#99F6E4"),
		},
	},
	"minimal": {
		Key:      "minimal",
		Label:    "Minimal",
		Sections: []SectionID{SectionAbout, SectionServices},
		SectionVisibility: map[SectionID]bool{
			SectionAbout:    true,
			SectionServices: true,
			SectionLounge:   false,
		},
		Styles: StylesPatch{
			PrimaryColor:    strPtr("#111827"),
			SecondaryColor:  strPtr("#6B7280"),
			BackgroundColor: strPtr("#FFFFFF"),
		},
	},
}

// TemplateKeys sorted list of registered keys, scratch first.
func TemplateKeys() []string {
	keys := make([]string, 0, len(Templates)+1)
	for k := range Templates {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return append([]string{TemplateScratch}, keys...)
}

// ApplyTemplate applies template key to cfg. "scratch" resets to the
// language defaults. An unknown key returns cfg unchanged and false.
func ApplyTemplate(cfg ProfileConfig, key string, lang Language) (ProfileConfig, bool) {
	if key == TemplateScratch {
		return InitialConfig(lang), true
	}
	tpl, ok := Templates[key]
	if !ok {
		return cfg, false
	}
	out := cfg.Clone()
	if len(tpl.Sections) > 0 {
		out.Sections = append([]SectionID(nil), tpl.Sections...)
	}
	if tpl.SectionVisibility != nil {
		out.SectionVisibility = make(map[SectionID]bool, len(tpl.SectionVisibility))
		for k, v := range tpl.SectionVisibility {
			out.SectionVisibility[k] = v
		}
	}
	out.Styles = mergeStyles(out.Styles, &tpl.Styles)
	out.TemplateID = key
	return out, true
}
