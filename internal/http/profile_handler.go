package httpapi

import (
	"net/http"
	"sort"

	"go.uber.org/zap"

	"pagecraft/internal/domain"
	"pagecraft/internal/service"
)

// ProfileHandler single-page profile editor endpoints
type ProfileHandler struct {
	profiles service.ProfileService
	logger   *zap.Logger
}

func NewProfileHandler(profiles service.ProfileService, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, logger: logger}
}

// language: ?lang= wins over the user's registered language.
func requestLanguage(r *http.Request) domain.Language {
	if l := r.URL.Query().Get("lang"); l != "" {
		return domain.ParseLanguage(l)
	}
	if u, ok := UserFrom(r.Context()); ok {
		return domain.ParseLanguage(string(u.Language))
	}
	return domain.LanguageEN
}

func currentUserID(r *http.Request) string {
	u, _ := UserFrom(r.Context())
	if u == nil {
		return ""
	}
	return u.UserID
}

func (h *ProfileHandler) respond(w http.ResponseWriter, cfg *domain.ProfileConfig, err error) {
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(cfg))
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.profiles.Load(r.Context(), currentUserID(r), requestLanguage(r))
	h.respond(w, cfg, err)
}

// Put replaces the whole document.
func (h *ProfileHandler) Put(w http.ResponseWriter, r *http.Request) {
	var cfg domain.ProfileConfig
	if err := readRequiredBodyJSON(r, maxJSONBody, &cfg); err != nil {
		writeError(w, h.logger, err)
		return
	}
	if cfg.SectionVisibility == nil {
		cfg.SectionVisibility = map[domain.SectionID]bool{}
	}
	out, err := h.profiles.Save(r.Context(), currentUserID(r), cfg)
	h.respond(w, out, err)
}

func (h *ProfileHandler) ApplyTemplate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Key string `json:"key"`
	}
	if err := readBodyJSON(r, maxJSONBody, &body); err != nil {
		writeError(w, h.logger, err)
		return
	}
	cfg, err := h.profiles.ApplyTemplate(r.Context(), currentUserID(r), requestLanguage(r), body.Key)
	h.respond(w, cfg, err)
}

// SetField body is the raw JSON value of the field.
func (h *ProfileHandler) SetField(w http.ResponseWriter, r *http.Request) {
	value, err := readRawBody(r, maxJSONBody)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	cfg, err := h.profiles.SetField(r.Context(), currentUserID(r), requestLanguage(r), r.PathValue("key"), value)
	h.respond(w, cfg, err)
}

func (h *ProfileHandler) SetStyle(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Value string `json:"value"`
	}
	if err := readBodyJSON(r, maxJSONBody, &body); err != nil {
		writeError(w, h.logger, err)
		return
	}
	cfg, err := h.profiles.SetStyle(r.Context(), currentUserID(r), requestLanguage(r), r.PathValue("key"), body.Value)
	h.respond(w, cfg, err)
}

func (h *ProfileHandler) SetSectionVisibility(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Visible *bool `json:"visible"`
	}
	if err := readBodyJSON(r, maxJSONBody, &body); err != nil {
		writeError(w, h.logger, err)
		return
	}
	if body.Visible == nil {
		writeJSON(w, http.StatusBadRequest, FailFields("validation failed", map[string]string{"visible": "required"}))
		return
	}
	id := domain.SectionID(r.PathValue("id"))
	cfg, err := h.profiles.SetSectionVisibility(r.Context(), currentUserID(r), requestLanguage(r), id, *body.Visible)
	h.respond(w, cfg, err)
}

func (h *ProfileHandler) SetSectionsOrder(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Sections []domain.SectionID `json:"sections"`
	}
	if err := readBodyJSON(r, maxJSONBody, &body); err != nil {
		writeError(w, h.logger, err)
		return
	}
	cfg, err := h.profiles.SetSectionsOrder(r.Context(), currentUserID(r), requestLanguage(r), body.Sections)
	h.respond(w, cfg, err)
}

func (h *ProfileHandler) Publish(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Slug string `json:"slug"`
	}
	if err := readBodyJSON(r, maxJSONBody, &body); err != nil {
		writeError(w, h.logger, err)
		return
	}
	cfg, err := h.profiles.Publish(r.Context(), currentUserID(r), requestLanguage(r), body.Slug)
	h.respond(w, cfg, err)
}

func (h *ProfileHandler) Unpublish(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.profiles.Unpublish(r.Context(), currentUserID(r), requestLanguage(r))
	h.respond(w, cfg, err)
}

func (h *ProfileHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Ok(h.profiles.Status(currentUserID(r))))
}

// catalog is the static data the editor needs to render its pickers.
type catalog struct {
	Templates  []templateInfo       `json:"templates"`
	FontThemes []domain.FontTheme   `json:"fontThemes"`
	Palette    []domain.PaletteItem `json:"palette"`
	Niches     []string             `json:"niches"`
}

type templateInfo struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

func (h *ProfileHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	c := catalog{Palette: domain.ComponentPalette(), Niches: domain.Niches}
	for _, key := range domain.TemplateKeys() {
		label := "Start from scratch"
		if t, ok := domain.Templates[key]; ok {
			label = t.Label
		}
		c.Templates = append(c.Templates, templateInfo{Key: key, Label: label})
	}
	for _, t := range domain.FontThemes {
		c.FontThemes = append(c.FontThemes, t)
	}
	sort.Slice(c.FontThemes, func(i, j int) bool { return c.FontThemes[i].Key < c.FontThemes[j].Key })
	writeJSON(w, http.StatusOK, Ok(c))
}

