package evaluationshandler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"eval360/internal/domain/criteria"
	"eval360/internal/domain/employee"
	"eval360/internal/domain/evaluation"
	"eval360/internal/platform/metrics"
	"eval360/internal/transport/http/api"
	"eval360/internal/transport/http/middleware"
	"eval360/internal/transport/http/shared"
)

type EmployeeDirectory interface {
	Get(ctx context.Context, employeeID string) (employee.Employee, error)
}

type CriteriaResolver interface {
	ActiveSource(ctx context.Context) (criteria.Source, error)
	ResolveForDepartment(ctx context.Context, department string, source criteria.Source) ([]criteria.Definition, error)
}

type Submitter interface {
	Submit(ctx context.Context, sub evaluation.Submission, resolved []criteria.Definition) ([]evaluation.Response, error)
	List(ctx context.Context, f evaluation.Filter) ([]evaluation.Response, error)
	Years(ctx context.Context) ([]int, error)
}

type AuditRecorder interface {
	Record(ctx context.Context, actor, action, entityType, entityID, requestID, ip string, details any) error
}

type Handler struct {
	Service   Submitter
	Employees EmployeeDirectory
	Criteria  CriteriaResolver
	Metrics   *metrics.Collector
	Audit     AuditRecorder
}

func NewHandler(service Submitter, employees EmployeeDirectory, criteriaSvc CriteriaResolver, collector *metrics.Collector, auditSvc AuditRecorder) *Handler {
	return &Handler{Service: service, Employees: employees, Criteria: criteriaSvc, Metrics: collector, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/evaluations", func(r chi.Router) {
		r.Post("/", h.handleSubmit)
		r.Get("/", h.handleList)
		r.Get("/years", h.handleYears)
	})
}

// handleSubmit collects one evaluator's answer sheet. The form is resolved
// against the evaluated employee's department and the active criteria set;
// the whole submission is rejected if any single answer is invalid.
func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		EmployeeID    string         `json:"employeeId"`
		EvaluatorID   string         `json:"evaluatorId"`
		EvaluatorType string         `json:"evaluatorType"`
		Year          int            `json:"evaluationYear"`
		Answers       map[string]any `json:"answers"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("employeeId", payload.EmployeeID, "employee id is required")
	v.Required("evaluatorType", payload.EvaluatorType, "evaluator type is required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	evaluatorType, err := evaluation.ParseEvaluatorType(payload.EvaluatorType)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", err.Error(), middleware.GetRequestID(r.Context()))
		return
	}

	emp, err := h.Employees.Get(r.Context(), payload.EmployeeID)
	if err != nil {
		if errors.Is(err, employee.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "employee not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "employee_lookup_failed", "failed to look up employee", middleware.GetRequestID(r.Context()))
		return
	}

	source, err := h.Criteria.ActiveSource(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "settings_read_failed", "failed to read settings", middleware.GetRequestID(r.Context()))
		return
	}
	resolved, err := h.Criteria.ResolveForDepartment(r.Context(), emp.Department, source)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "criteria_resolve_failed", "failed to resolve criteria", middleware.GetRequestID(r.Context()))
		return
	}

	sub := evaluation.Submission{
		EmployeeID:    payload.EmployeeID,
		EvaluatorID:   payload.EvaluatorID,
		EvaluatorType: evaluatorType,
		Year:          payload.Year,
		Answers:       payload.Answers,
	}
	responses, err := h.Service.Submit(r.Context(), sub, resolved)
	if err != nil {
		var invalid *evaluation.ValidationError
		if errors.As(err, &invalid) {
			issues := make([]shared.ValidationIssue, 0, len(invalid.Issues))
			for _, issue := range invalid.Issues {
				issues = append(issues, shared.ValidationIssue{Field: issue.Field, Reason: issue.Reason})
			}
			shared.FailValidation(w, middleware.GetRequestID(r.Context()), issues)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "evaluation_submit_failed", "failed to record evaluation", middleware.GetRequestID(r.Context()))
		return
	}

	if h.Metrics != nil {
		h.Metrics.RecordSubmission()
	}
	if err := h.Audit.Record(r.Context(), shared.Actor(r), "evaluation.submit", "evaluation", sub.EmployeeID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), map[string]any{
		"evaluatorType":  evaluatorType,
		"evaluationYear": sub.Year,
		"responses":      len(responses),
	}); err != nil {
		slog.Warn("audit evaluation.submit failed", "err", err)
	}
	api.Created(w, map[string]any{
		"employeeId":  sub.EmployeeID,
		"evaluatorId": responses[0].EvaluatorID,
		"recorded":    len(responses),
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	years, err := shared.ParseYears(query.Get("years"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", err.Error(), middleware.GetRequestID(r.Context()))
		return
	}

	filter := evaluation.Filter{
		EmployeeID: query.Get("employeeId"),
		Department: query.Get("department"),
		Years:      years,
	}
	if raw := query.Get("criteria"); raw != "" {
		filter.Criteria = shared.SplitCSV(raw)
	}

	records, err := h.Service.List(r.Context(), filter)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "evaluation_list_failed", "failed to list evaluations", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, records, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleYears(w http.ResponseWriter, r *http.Request) {
	years, err := h.Service.Years(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "evaluation_years_failed", "failed to list evaluation years", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, years, middleware.GetRequestID(r.Context()))
}
