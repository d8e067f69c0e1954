package httpapi

import (
	"net/http"

	"go.uber.org/zap"
)

// Router wraps http.ServeMux; routes use method + path patterns.
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	r := &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
	r.Handle("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, Ok("ok"))
	})
	return r
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

// HandleHandler registers a plain http.Handler (static files).
func (r *Router) HandleHandler(pattern string, h http.Handler) {
	r.mux.Handle(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

func (r *Router) RegisterAuthRoutes(h *AuthHandler, a *Authenticator) {
	r.Handle("POST /api/v1/auth/register", h.Register)
	r.Handle("POST /api/v1/auth/login", h.Login)
	r.Handle("POST /api/v1/auth/logout", h.Logout)
	r.Handle("GET /api/v1/auth/me", a.RequireUser(h.Me))
}

func (r *Router) RegisterProfileRoutes(h *ProfileHandler, a *Authenticator) {
	r.Handle("GET /api/v1/catalog", h.Catalog)

	r.Handle("GET /api/v1/profile", a.RequireUser(h.Get))
	r.Handle("PUT /api/v1/profile", a.RequireUser(h.Put))
	r.Handle("GET /api/v1/profile/status", a.RequireUser(h.Status))
	r.Handle("POST /api/v1/profile/template", a.RequireUser(h.ApplyTemplate))
	r.Handle("PUT /api/v1/profile/fields/{key}", a.RequireUser(h.SetField))
	r.Handle("PUT /api/v1/profile/styles/{key}", a.RequireUser(h.SetStyle))
	r.Handle("PUT /api/v1/profile/sections/order", a.RequireUser(h.SetSectionsOrder))
	r.Handle("PUT /api/v1/profile/sections/{id}/visibility", a.RequireUser(h.SetSectionVisibility))
	r.Handle("POST /api/v1/profile/publish", a.RequireUser(h.Publish))
	r.Handle("POST /api/v1/profile/unpublish", a.RequireUser(h.Unpublish))
}

func (r *Router) RegisterPageRoutes(h *PageHandler, a *Authenticator) {
	r.Handle("GET /api/v1/page", a.RequireUser(h.State))
	r.Handle("POST /api/v1/page/components", a.RequireUser(h.Insert))
	r.Handle("POST /api/v1/page/components/reorder", a.RequireUser(h.Reorder))
	r.Handle("PATCH /api/v1/page/components/{id}", a.RequireUser(h.Update))
	r.Handle("DELETE /api/v1/page/components/{id}", a.RequireUser(h.Delete))
	r.Handle("POST /api/v1/page/components/{id}/visibility", a.RequireUser(h.ToggleVisibility))
	r.Handle("PUT /api/v1/page/selection", a.RequireUser(h.Select))
	r.Handle("POST /api/v1/page/preview", a.RequireUser(h.TogglePreview))
	r.Handle("PUT /api/v1/page/settings", a.RequireUser(h.UpdateSettings))
	r.Handle("POST /api/v1/page/save", a.RequireUser(h.Save))
	r.Handle("POST /api/v1/page/discard", a.RequireUser(h.Discard))
}

func (r *Router) RegisterPublicRoutes(h *PublicHandler) {
	r.Handle("GET /p/{slug}", h.Page)
}

func (r *Router) RegisterCRMRoutes(h *CRMHandler, a *Authenticator) {
	r.Handle("GET /api/v1/clients", a.RequireUser(h.ListClients))
	r.Handle("POST /api/v1/clients", a.RequireUser(h.CreateClient))
	r.Handle("GET /api/v1/clients/export", a.RequireUser(h.ExportClients))
	r.Handle("GET /api/v1/clients/{id}", a.RequireUser(h.GetClient))
	r.Handle("PUT /api/v1/clients/{id}", a.RequireUser(h.UpdateClient))
	r.Handle("DELETE /api/v1/clients/{id}", a.RequireUser(h.DeleteClient))

	r.Handle("GET /api/v1/tasks", a.RequireUser(h.ListTasks))
	r.Handle("POST /api/v1/tasks", a.RequireUser(h.CreateTask))
	r.Handle("GET /api/v1/tasks/due", a.RequireUser(h.ListDueTasks))
	r.Handle("GET /api/v1/tasks/{id}", a.RequireUser(h.GetTask))
	r.Handle("PUT /api/v1/tasks/{id}", a.RequireUser(h.UpdateTask))
	r.Handle("DELETE /api/v1/tasks/{id}", a.RequireUser(h.DeleteTask))
	r.Handle("POST /api/v1/tasks/{id}/assign", a.RequireUser(h.AssignTask))
}

// RegisterUploadRoutes also serves the stored files when dir is set.
func (r *Router) RegisterUploadRoutes(h *UploadHandler, a *Authenticator, dir string) {
	r.Handle("POST /api/v1/uploads", a.RequireUser(h.Upload))
	if dir != "" {
		r.HandleHandler("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(dir))))
	}
}
