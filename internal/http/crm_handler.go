package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"pagecraft/internal/domain"
	"pagecraft/internal/repository"
	"pagecraft/internal/service"
)

// CRMHandler clients and follow-up tasks
type CRMHandler struct {
	crm    service.CRMService
	logger *zap.Logger
}

func NewCRMHandler(crm service.CRMService, logger *zap.Logger) *CRMHandler {
	return &CRMHandler{crm: crm, logger: logger}
}

func (h *CRMHandler) respond(w http.ResponseWriter, status int, v any, err error) {
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, status, Ok(v))
}

type listResult[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

// paginate slices items by ?page=&pageSize= (1-based, default all).
func paginate[T any](r *http.Request, items []T) listResult[T] {
	total := len(items)
	page := parseInt(r.URL.Query().Get("page"), 1)
	size := parseInt(r.URL.Query().Get("pageSize"), 0)
	if size <= 0 {
		return listResult[T]{Items: items, Total: total}
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * size
	if start >= total {
		return listResult[T]{Items: []T{}, Total: total}
	}
	end := min(start+size, total)
	return listResult[T]{Items: items[start:end], Total: total}
}

func (h *CRMHandler) ListClients(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.ClientsFilter{
		Status: domain.ClientStatus(q.Get("status")),
		Search: strings.TrimSpace(q.Get("search")),
	}
	list, err := h.crm.ListClients(r.Context(), currentUserID(r), filter)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(paginate(r, list)))
}

func (h *CRMHandler) GetClient(w http.ResponseWriter, r *http.Request) {
	c, err := h.crm.GetClient(r.Context(), currentUserID(r), r.PathValue("id"))
	h.respond(w, http.StatusOK, c, err)
}

func (h *CRMHandler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var c domain.Client
	if err := readBodyJSON(r, maxJSONBody, &c); err != nil {
		writeError(w, h.logger, err)
		return
	}
	out, err := h.crm.CreateClient(r.Context(), currentUserID(r), c)
	h.respond(w, http.StatusCreated, out, err)
}

func (h *CRMHandler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	var c domain.Client
	if err := readBodyJSON(r, maxJSONBody, &c); err != nil {
		writeError(w, h.logger, err)
		return
	}
	out, err := h.crm.UpdateClient(r.Context(), currentUserID(r), r.PathValue("id"), c)
	h.respond(w, http.StatusOK, out, err)
}

func (h *CRMHandler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	err := h.crm.DeleteClient(r.Context(), currentUserID(r), r.PathValue("id"))
	h.respond(w, http.StatusOK, nil, err)
}

func (h *CRMHandler) ExportClients(w http.ResponseWriter, r *http.Request) {
	data, err := h.crm.ExportClients(r.Context(), currentUserID(r))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	filename := fmt.Sprintf("clients-%s.xlsx", time.Now().UTC().Format("20060102"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *CRMHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.TasksFilter{
		Status:   domain.TaskStatus(q.Get("status")),
		ClientID: q.Get("clientId"),
	}
	list, err := h.crm.ListTasks(r.Context(), currentUserID(r), filter)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(paginate(r, list)))
}

// ListDueTasks ?before=RFC3339, default now.
func (h *CRMHandler) ListDueTasks(w http.ResponseWriter, r *http.Request) {
	var before time.Time
	if s := r.URL.Query().Get("before"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, FailFields("validation failed", map[string]string{"before": "must be an RFC3339 timestamp"}))
			return
		}
		before = t
	}
	list, err := h.crm.ListDueTasks(r.Context(), currentUserID(r), before)
	h.respond(w, http.StatusOK, list, err)
}

func (h *CRMHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	t, err := h.crm.GetTask(r.Context(), currentUserID(r), r.PathValue("id"))
	h.respond(w, http.StatusOK, t, err)
}

func (h *CRMHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var t domain.Task
	if err := readBodyJSON(r, maxJSONBody, &t); err != nil {
		writeError(w, h.logger, err)
		return
	}
	out, err := h.crm.CreateTask(r.Context(), currentUserID(r), t)
	h.respond(w, http.StatusCreated, out, err)
}

func (h *CRMHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	var t domain.Task
	if err := readBodyJSON(r, maxJSONBody, &t); err != nil {
		writeError(w, h.logger, err)
		return
	}
	out, err := h.crm.UpdateTask(r.Context(), currentUserID(r), r.PathValue("id"), t)
	h.respond(w, http.StatusOK, out, err)
}

func (h *CRMHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	err := h.crm.DeleteTask(r.Context(), currentUserID(r), r.PathValue("id"))
	h.respond(w, http.StatusOK, nil, err)
}

// AssignTask answers 502 with the updated task when only the email failed.
func (h *CRMHandler) AssignTask(w http.ResponseWriter, r *http.Request) {
	var req service.AssignTaskRequest
	if err := readBodyJSON(r, maxJSONBody, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	t, err := h.crm.AssignTask(r.Context(), currentUserID(r), r.PathValue("id"), req)
	var delivery *service.EmailDeliveryError
	if errors.As(err, &delivery) {
		writeJSON(w, http.StatusBadGateway, Warn("task assigned but the email could not be sent", t))
		return
	}
	h.respond(w, http.StatusOK, t, err)
}
