package evaluationshandler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"eval360/internal/domain/criteria"
	"eval360/internal/domain/employee"
	"eval360/internal/domain/evaluation"
	"eval360/internal/requestctx"
)

type fakeDirectory struct {
	employees map[string]employee.Employee
}

func (f *fakeDirectory) Get(_ context.Context, employeeID string) (employee.Employee, error) {
	emp, ok := f.employees[employeeID]
	if !ok {
		return employee.Employee{}, employee.ErrNotFound
	}
	return emp, nil
}

type fakeResolver struct {
	defs []criteria.Definition
}

func (f *fakeResolver) ActiveSource(context.Context) (criteria.Source, error) {
	return criteria.SourceDefault, nil
}

func (f *fakeResolver) ResolveForDepartment(_ context.Context, department string, _ criteria.Source) ([]criteria.Definition, error) {
	var out []criteria.Definition
	for _, def := range f.defs {
		if def.Department == criteria.DepartmentCore || def.Department == department {
			out = append(out, def)
		}
	}
	return out, nil
}

// fakeSubmitter runs the real collection pipeline but appends in memory.
type fakeSubmitter struct {
	appended []evaluation.Response
}

func (f *fakeSubmitter) Submit(_ context.Context, sub evaluation.Submission, resolved []criteria.Definition) ([]evaluation.Response, error) {
	responses, err := evaluation.Collect(sub, resolved)
	if err != nil {
		return nil, err
	}
	f.appended = append(f.appended, responses...)
	return responses, nil
}

func (f *fakeSubmitter) List(context.Context, evaluation.Filter) ([]evaluation.Response, error) {
	return f.appended, nil
}

func (f *fakeSubmitter) Years(context.Context) ([]int, error) { return nil, nil }

type recordedEvent struct {
	Actor      string
	Action     string
	EntityType string
	EntityID   string
	RequestID  string
	IP         string
	Details    any
}

type fakeRecorder struct {
	events []recordedEvent
	err    error
}

func (f *fakeRecorder) Record(_ context.Context, actor, action, entityType, entityID, requestID, ip string, details any) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, recordedEvent{
		Actor:      actor,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		RequestID:  requestID,
		IP:         ip,
		Details:    details,
	})
	return nil
}

func newSubmitHandler(recorder *fakeRecorder) (*Handler, *fakeSubmitter) {
	submitter := &fakeSubmitter{}
	h := &Handler{
		Service: submitter,
		Employees: &fakeDirectory{employees: map[string]employee.Employee{
			"E1": {EmployeeID: "E1", Name: "Alice", Department: "Sales"},
		}},
		Criteria: &fakeResolver{defs: []criteria.Definition{
			{Department: criteria.DepartmentCore, Key: "Teamwork", Type: criteria.AnswerRating},
			{Department: "Sales", Key: "Negotiation", Type: criteria.AnswerRating},
		}},
		Audit: recorder,
	}
	return h, submitter
}

func submitRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/evaluations", strings.NewReader(body))
	req.RemoteAddr = "10.0.0.9:4321"
	req.Header.Set("X-Actor", "mgr-007")
	return req.WithContext(requestctx.WithRequestID(req.Context(), "req-42"))
}

func TestSubmitRecordsAuditEvent(t *testing.T) {
	recorder := &fakeRecorder{}
	h, submitter := newSubmitHandler(recorder)

	rec := httptest.NewRecorder()
	h.handleSubmit(rec, submitRequest(`{
    "employeeId": "E1",
    "evaluatorId": "M1",
    "evaluatorType": "Manager",
    "evaluationYear": 2025,
    "answers": {"Teamwork": 4, "Negotiation": 5}
  }`))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, http.StatusCreated, rec.Body.String())
	}
	if len(submitter.appended) != 2 {
		t.Fatalf("appended %d responses, want 2", len(submitter.appended))
	}
	if len(recorder.events) != 1 {
		t.Fatalf("recorded %d audit events, want 1", len(recorder.events))
	}

	evt := recorder.events[0]
	if evt.Action != "evaluation.submit" {
		t.Errorf("action = %q, want %q", evt.Action, "evaluation.submit")
	}
	if evt.EntityType != "evaluation" || evt.EntityID != "E1" {
		t.Errorf("entity = %s/%s, want evaluation/E1", evt.EntityType, evt.EntityID)
	}
	if evt.Actor != "mgr-007" {
		t.Errorf("actor = %q, want %q", evt.Actor, "mgr-007")
	}
	if evt.RequestID != "req-42" {
		t.Errorf("request id = %q, want %q", evt.RequestID, "req-42")
	}
	if evt.IP != "10.0.0.9" {
		t.Errorf("ip = %q, want %q", evt.IP, "10.0.0.9")
	}
	details, ok := evt.Details.(map[string]any)
	if !ok {
		t.Fatalf("details = %T, want map[string]any", evt.Details)
	}
	if details["responses"] != 2 {
		t.Errorf("details responses = %v, want 2", details["responses"])
	}
}

func TestSubmitRejectedSubmissionIsNotAudited(t *testing.T) {
	recorder := &fakeRecorder{}
	h, submitter := newSubmitHandler(recorder)

	rec := httptest.NewRecorder()
	h.handleSubmit(rec, submitRequest(`{
    "employeeId": "E1",
    "evaluatorType": "Manager",
    "evaluationYear": 2025,
    "answers": {"Teamwork": 4, "Negotiation": 5, "Mystery": 1}
  }`))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	var envelope struct {
		Error *struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if envelope.Error == nil || envelope.Error.Code != "validation_error" {
		t.Errorf("error code = %+v, want validation_error", envelope.Error)
	}
	if len(submitter.appended) != 0 {
		t.Errorf("appended %d responses, want 0", len(submitter.appended))
	}
	if len(recorder.events) != 0 {
		t.Errorf("recorded %d audit events, want 0", len(recorder.events))
	}
}

func TestSubmitUnknownEmployeeIsNotAudited(t *testing.T) {
	recorder := &fakeRecorder{}
	h, _ := newSubmitHandler(recorder)

	rec := httptest.NewRecorder()
	h.handleSubmit(rec, submitRequest(`{
    "employeeId": "NOPE",
    "evaluatorType": "Self",
    "evaluationYear": 2025,
    "answers": {}
  }`))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	if len(recorder.events) != 0 {
		t.Errorf("recorded %d audit events, want 0", len(recorder.events))
	}
}

func TestSubmitSucceedsWhenAuditRecordFails(t *testing.T) {
	recorder := &fakeRecorder{err: errors.New("audit table unavailable")}
	h, submitter := newSubmitHandler(recorder)

	rec := httptest.NewRecorder()
	h.handleSubmit(rec, submitRequest(`{
    "employeeId": "E1",
    "evaluatorId": "M1",
    "evaluatorType": "Manager",
    "evaluationYear": 2025,
    "answers": {"Teamwork": 4, "Negotiation": 5}
  }`))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, http.StatusCreated, rec.Body.String())
	}
	if len(submitter.appended) != 2 {
		t.Errorf("appended %d responses, want 2", len(submitter.appended))
	}
}
