package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"pagecraft/internal/domain"
	"pagecraft/internal/service"
)

// PageHandler component page editor endpoints
type PageHandler struct {
	editor service.PageEditorService
	logger *zap.Logger
}

func NewPageHandler(editor service.PageEditorService, logger *zap.Logger) *PageHandler {
	return &PageHandler{editor: editor, logger: logger}
}

func (h *PageHandler) respond(w http.ResponseWriter, v any, err error) {
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(v))
}

func (h *PageHandler) State(w http.ResponseWriter, r *http.Request) {
	st, err := h.editor.State(r.Context(), currentUserID(r))
	h.respond(w, st, err)
}

func (h *PageHandler) Insert(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Type string `json:"type"`
	}
	if err := readBodyJSON(r, maxJSONBody, &body); err != nil {
		writeError(w, h.logger, err)
		return
	}
	t, err := domain.ParseComponentType(body.Type)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	res, err := h.editor.Insert(r.Context(), currentUserID(r), t)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(res))
}

func (h *PageHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var body struct {
		MovedID  string `json:"movedId"`
		TargetID string `json:"targetId"`
	}
	if err := readBodyJSON(r, maxJSONBody, &body); err != nil {
		writeError(w, h.logger, err)
		return
	}
	res, err := h.editor.Reorder(r.Context(), currentUserID(r), body.MovedID, body.TargetID)
	h.respond(w, res, err)
}

func (h *PageHandler) Update(w http.ResponseWriter, r *http.Request) {
	patch, err := readRawBody(r, maxJSONBody)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	res, err := h.editor.Update(r.Context(), currentUserID(r), r.PathValue("id"), patch)
	h.respond(w, res, err)
}

func (h *PageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	res, err := h.editor.Delete(r.Context(), currentUserID(r), r.PathValue("id"))
	h.respond(w, res, err)
}

// Select body {componentId}; an empty id clears the selection.
func (h *PageHandler) Select(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ComponentID string `json:"componentId"`
	}
	if err := readBodyJSON(r, maxJSONBody, &body); err != nil {
		writeError(w, h.logger, err)
		return
	}
	res, err := h.editor.Select(r.Context(), currentUserID(r), body.ComponentID)
	h.respond(w, res, err)
}

func (h *PageHandler) ToggleVisibility(w http.ResponseWriter, r *http.Request) {
	res, err := h.editor.ToggleVisibility(r.Context(), currentUserID(r), r.PathValue("id"))
	h.respond(w, res, err)
}

func (h *PageHandler) TogglePreview(w http.ResponseWriter, r *http.Request) {
	res, err := h.editor.TogglePreview(r.Context(), currentUserID(r))
	h.respond(w, res, err)
}

func (h *PageHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var settings domain.PageSettings
	if err := readBodyJSON(r, maxJSONBody, &settings); err != nil {
		writeError(w, h.logger, err)
		return
	}
	res, err := h.editor.UpdateSettings(r.Context(), currentUserID(r), settings)
	h.respond(w, res, err)
}

func (h *PageHandler) Save(w http.ResponseWriter, r *http.Request) {
	st, err := h.editor.Save(r.Context(), currentUserID(r))
	h.respond(w, st, err)
}

func (h *PageHandler) Discard(w http.ResponseWriter, r *http.Request) {
	st, err := h.editor.Discard(r.Context(), currentUserID(r))
	h.respond(w, st, err)
}
