package employeeshandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"eval360/internal/domain/audit"
	"eval360/internal/domain/employee"
	"eval360/internal/transport/http/api"
	"eval360/internal/transport/http/middleware"
	"eval360/internal/transport/http/shared"
)

type Handler struct {
	Service *employee.Service
	Audit   *audit.Service
}

func NewHandler(service *employee.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Get("/departments", h.handleDepartments)
		r.Post("/", h.handleCreate)
		r.Post("/import", h.handleImport)
		r.Delete("/{employeeID}", h.handleDelete)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Service.List(r.Context(), r.URL.Query().Get("department"))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_list_failed", "failed to list employees", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, employees, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.Service.Departments(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "department_list_failed", "failed to list departments", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, departments, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		EmployeeID string `json:"employeeId"`
		Name       string `json:"name"`
		Department string `json:"department"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("employeeId", payload.EmployeeID, "employee id is required")
	v.Required("name", payload.Name, "name is required")
	v.Required("department", payload.Department, "department is required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	emp := employee.Employee{EmployeeID: payload.EmployeeID, Name: payload.Name, Department: payload.Department}
	if err := h.Service.Add(r.Context(), emp); err != nil {
		if errors.Is(err, employee.ErrDuplicateID) {
			api.Fail(w, http.StatusConflict, "duplicate_employee", "employee id already exists", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "employee_create_failed", "failed to create employee", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Record(r.Context(), shared.Actor(r), "employee.create", "employee", emp.EmployeeID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), payload); err != nil {
		slog.Warn("audit employee.create failed", "err", err)
	}
	api.Created(w, emp, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	if err := h.Service.Delete(r.Context(), employeeID); err != nil {
		if errors.Is(err, employee.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "employee not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "employee_delete_failed", "failed to delete employee", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Record(r.Context(), shared.Actor(r), "employee.delete", "employee", employeeID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil); err != nil {
		slog.Warn("audit employee.delete failed", "err", err)
	}
	api.Success(w, map[string]string{"id": employeeID}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleImport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "expected multipart form upload", middleware.GetRequestID(r.Context()))
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "file field is required", middleware.GetRequestID(r.Context()))
		return
	}
	defer file.Close()

	mode := employee.ImportMode(strings.ToLower(strings.TrimSpace(r.FormValue("mode"))))
	if mode == "" {
		mode = employee.ImportReplace
	}
	if mode != employee.ImportReplace && mode != employee.ImportAppend {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "mode must be replace or append", middleware.GetRequestID(r.Context()))
		return
	}

	employees, err := employee.ParseWorkbook(file)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_workbook", err.Error(), middleware.GetRequestID(r.Context()))
		return
	}
	if len(employees) == 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_workbook", "workbook contains no employee rows", middleware.GetRequestID(r.Context()))
		return
	}

	imported, err := h.Service.Import(r.Context(), employees, mode)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_import_failed", "failed to import employees", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Record(r.Context(), shared.Actor(r), "employee.import", "employee", "", middleware.GetRequestID(r.Context()), shared.ClientIP(r), map[string]any{"mode": mode, "imported": imported}); err != nil {
		slog.Warn("audit employee.import failed", "err", err)
	}
	api.Success(w, map[string]any{"imported": imported, "mode": mode}, middleware.GetRequestID(r.Context()))
}
