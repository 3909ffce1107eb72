package dashboardhandler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"eval360/internal/domain/employee"
	"eval360/internal/domain/report"
	"eval360/internal/transport/http/api"
	"eval360/internal/transport/http/middleware"
	"eval360/internal/transport/http/shared"
)

type Handler struct {
	Service *report.Service
}

func NewHandler(service *report.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/dashboard", func(r chi.Router) {
		r.Get("/employee/{employeeID}", h.handleEmployee)
		r.Post("/employee/{employeeID}/report", h.handleEmployeeReport)
		r.Get("/company", h.handleCompany)
		r.Get("/department/{department}", h.handleDepartment)
		r.Get("/trend", h.handleTrend)
		r.Get("/progress", h.handleProgress)
		r.Get("/text", h.handleText)
	})
}

func (h *Handler) handleEmployee(w http.ResponseWriter, r *http.Request) {
	years, ok := h.years(w, r)
	if !ok {
		return
	}
	dashboard, err := h.Service.EmployeeDashboard(r.Context(), chi.URLParam(r, "employeeID"), years)
	if err != nil {
		if errors.Is(err, employee.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "employee not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "dashboard_failed", "failed to build employee dashboard", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, dashboard, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleEmployeeReport(w http.ResponseWriter, r *http.Request) {
	years, ok := h.years(w, r)
	if !ok {
		return
	}
	employeeID := chi.URLParam(r, "employeeID")
	path, err := h.Service.GenerateEmployeeReport(r.Context(), employeeID, years)
	if err != nil {
		switch {
		case errors.Is(err, employee.ErrNotFound):
			api.Fail(w, http.StatusNotFound, "not_found", "employee not found", middleware.GetRequestID(r.Context()))
		case errors.Is(err, report.ErrNoEvaluations):
			api.Fail(w, http.StatusNotFound, "no_data", "no evaluation records for employee", middleware.GetRequestID(r.Context()))
		default:
			slog.Warn("employee report generation failed", "err", err, "employeeId", employeeID)
			api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to generate report", middleware.GetRequestID(r.Context()))
		}
		return
	}
	api.Created(w, map[string]string{"path": path}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCompany(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	v := shared.NewValidator()
	v.Required("year", query.Get("year"), "year is required")
	v.Required("group", query.Get("group"), "group is required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}
	year, err := strconv.Atoi(query.Get("year"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "year must be a number", middleware.GetRequestID(r.Context()))
		return
	}

	dashboard, err := h.Service.CompanyDashboard(r.Context(), year, query.Get("group"))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "dashboard_failed", "failed to build company dashboard", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, dashboard, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDepartment(w http.ResponseWriter, r *http.Request) {
	years, ok := h.years(w, r)
	if !ok {
		return
	}
	focus, err := h.Service.DepartmentFocus(r.Context(), chi.URLParam(r, "department"), years)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "dashboard_failed", "failed to build department view", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, focus, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleTrend(w http.ResponseWriter, r *http.Request) {
	keys := shared.SplitCSV(r.URL.Query().Get("criteria"))
	if len(keys) == 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "criteria is required", middleware.GetRequestID(r.Context()))
		return
	}
	series, err := h.Service.TrendOverTime(r.Context(), keys, r.URL.Query().Get("employeeId"))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "dashboard_failed", "failed to build trend", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, series, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleProgress(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	v := shared.NewValidator()
	v.Required("criteria", query.Get("criteria"), "criteria is required")
	v.Required("department", query.Get("department"), "department is required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}
	years, ok := h.years(w, r)
	if !ok {
		return
	}

	progress, err := h.Service.GoalProgress(r.Context(), query.Get("criteria"), query.Get("department"), years)
	if err != nil {
		switch {
		case errors.Is(err, report.ErrNoTarget):
			api.Fail(w, http.StatusBadRequest, "no_target", "criterion has no usable target value", middleware.GetRequestID(r.Context()))
		case errors.Is(err, report.ErrNoData):
			api.Fail(w, http.StatusNotFound, "no_data", "no numeric records for criterion", middleware.GetRequestID(r.Context()))
		default:
			api.Fail(w, http.StatusInternalServerError, "dashboard_failed", "failed to compute goal progress", middleware.GetRequestID(r.Context()))
		}
		return
	}
	api.Success(w, progress, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleText(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	criterion := query.Get("criteria")
	v := shared.NewValidator()
	v.Required("criteria", criterion, "criteria is required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	var year *int
	if raw := query.Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "year must be a number", middleware.GetRequestID(r.Context()))
			return
		}
		year = &parsed
	}

	feedback, err := h.Service.TextFeedback(r.Context(), criterion, year)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "dashboard_failed", "failed to collect text feedback", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, feedback, middleware.GetRequestID(r.Context()))
}

func (h *Handler) years(w http.ResponseWriter, r *http.Request) ([]int, bool) {
	years, err := shared.ParseYears(r.URL.Query().Get("years"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", err.Error(), middleware.GetRequestID(r.Context()))
		return nil, false
	}
	return years, true
}
