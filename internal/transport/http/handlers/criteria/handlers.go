package criteriahandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"eval360/internal/domain/audit"
	"eval360/internal/domain/criteria"
	"eval360/internal/transport/http/api"
	"eval360/internal/transport/http/middleware"
	"eval360/internal/transport/http/shared"
)

type Handler struct {
	Service *criteria.Service
	Audit   *audit.Service
}

func NewHandler(service *criteria.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/criteria", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Get("/resolved", h.handleResolved)
		r.Put("/custom", h.handleReplaceCustom)
		r.Get("/settings", h.handleGetSettings)
		r.Put("/settings", h.handleUpdateSettings)
	})
}

// handleList returns one full criteria set. Without an explicit source it
// returns whichever set is active.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	source, ok := h.requestedSource(w, r)
	if !ok {
		return
	}
	defs, err := h.Service.Definitions(r.Context(), source)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "criteria_list_failed", "failed to list criteria", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{"source": source, "criteria": defs}, middleware.GetRequestID(r.Context()))
}

// handleResolved returns the evaluation form for one department: core
// criteria first, then the department's own rows.
func (h *Handler) handleResolved(w http.ResponseWriter, r *http.Request) {
	department := r.URL.Query().Get("department")
	v := shared.NewValidator()
	v.Required("department", department, "department is required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	source, ok := h.requestedSource(w, r)
	if !ok {
		return
	}
	resolved, err := h.Service.ResolveForDepartment(r.Context(), department, source)
	if err != nil {
		if errors.Is(err, criteria.ErrDuplicateKey) {
			api.Fail(w, http.StatusConflict, "duplicate_criteria", err.Error(), middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "criteria_resolve_failed", "failed to resolve criteria", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{"source": source, "department": department, "criteria": resolved}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleReplaceCustom(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Criteria []criteria.Definition `json:"criteria"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Service.SaveCustom(r.Context(), payload.Criteria); err != nil {
		var invalid *criteria.InvalidSetError
		if errors.As(err, &invalid) {
			api.FailWithDetails(w, http.StatusBadRequest, "invalid_criteria_set", invalid.Error(),
				map[string]any{"rows": invalid.Issues}, middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "criteria_save_failed", "failed to save custom criteria", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Record(r.Context(), shared.Actor(r), "criteria.custom.replace", "criteria_set", "custom", middleware.GetRequestID(r.Context()), shared.ClientIP(r), map[string]any{"rows": len(payload.Criteria)}); err != nil {
		slog.Warn("audit criteria.custom.replace failed", "err", err)
	}
	api.Success(w, map[string]any{"saved": len(payload.Criteria)}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	source, err := h.Service.ActiveSource(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "settings_read_failed", "failed to read settings", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{
		"useCustom":    source == criteria.SourceCustom,
		"activeSource": source,
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		UseCustom bool `json:"useCustom"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Service.SetUseCustom(r.Context(), payload.UseCustom); err != nil {
		api.Fail(w, http.StatusInternalServerError, "settings_update_failed", "failed to update settings", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Record(r.Context(), shared.Actor(r), "criteria.settings.update", "settings", "use_custom", middleware.GetRequestID(r.Context()), shared.ClientIP(r), payload); err != nil {
		slog.Warn("audit criteria.settings.update failed", "err", err)
	}
	api.Success(w, map[string]any{"useCustom": payload.UseCustom}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) requestedSource(w http.ResponseWriter, r *http.Request) (criteria.Source, bool) {
	raw := r.URL.Query().Get("source")
	if raw == "" {
		source, err := h.Service.ActiveSource(r.Context())
		if err != nil {
			api.Fail(w, http.StatusInternalServerError, "settings_read_failed", "failed to read settings", middleware.GetRequestID(r.Context()))
			return "", false
		}
		return source, true
	}
	source, err := criteria.ParseSource(raw)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", err.Error(), middleware.GetRequestID(r.Context()))
		return "", false
	}
	return source, true
}
