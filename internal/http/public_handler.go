package httpapi

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"pagecraft/internal/domain"
	"pagecraft/internal/service"
)

// PublicHandler serves published pages at /p/{slug}.
type PublicHandler struct {
	publish service.PublishService
	logger  *zap.Logger
}

func NewPublicHandler(publish service.PublishService, logger *zap.Logger) *PublicHandler {
	return &PublicHandler{publish: publish, logger: logger}
}

// notFoundView is what the client renders for unknown or unpublished slugs.
type notFoundView struct {
	Slug    string `json:"slug"`
	View    string `json:"view"`
	Message string `json:"message"`
}

func (h *PublicHandler) Page(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	view, err := h.publish.Resolve(r.Context(), slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, Result[notFoundView]{
				Code:    ResultError,
				Type:    "error",
				Message: "page not found",
				Result:  notFoundView{Slug: domain.NormalizeSlug(slug), View: "not-found", Message: "This page does not exist or is not published."},
			})
			return
		}
		writeError(w, h.logger, err)
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=60")
	writeJSON(w, http.StatusOK, Ok(view))
}
