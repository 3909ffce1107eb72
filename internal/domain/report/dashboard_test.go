package report

import (
	"testing"

	"eval360/internal/domain/criteria"
	"eval360/internal/domain/employee"
	"eval360/internal/domain/evaluation"
)

func salesDefinitions() []criteria.Definition {
	return []criteria.Definition{
		{Department: criteria.DepartmentCore, Key: "Teamwork", CaptionEN: "Teamwork", CaptionTH: "การทำงานเป็นทีม", Type: criteria.AnswerRating},
		{Department: criteria.DepartmentCore, Key: "Punctuality", CaptionEN: "Punctuality", CaptionTH: "การตรงต่อเวลา", Type: criteria.AnswerRating},
		{Department: "Sales", Key: "Negotiation", CaptionEN: "Negotiation", CaptionTH: "การเจรจาต่อรอง", Type: criteria.AnswerRating},
	}
}

func TestBuildEmployeeDashboardSalesScenario(t *testing.T) {
	emp := employee.Employee{EmployeeID: "E1", Name: "Somchai", Department: "Sales"}
	dashboard := buildEmployeeDashboard(emp, salesDefinitions(), salesScenario())

	if !dashboard.HasData {
		t.Fatal("expected dashboard to report data")
	}
	if dashboard.EvaluatorCount != 2 {
		t.Fatalf("expected 2 evaluators, got %d", dashboard.EvaluatorCount)
	}
	if len(dashboard.Years) != 1 || dashboard.Years[0] != 2024 {
		t.Fatalf("unexpected years: %v", dashboard.Years)
	}

	if len(dashboard.Averages) != 3 {
		t.Fatalf("expected 3 average rows, got %d", len(dashboard.Averages))
	}
	// Rows follow the resolved order: Core first, then Sales.
	wantOrder := []string{"Teamwork", "Punctuality", "Negotiation"}
	wantScore := map[string]float64{"Teamwork": 3.0, "Punctuality": 4.0, "Negotiation": 4.0}
	for i, row := range dashboard.Averages {
		if row.Criteria != wantOrder[i] {
			t.Fatalf("row %d: expected %s, got %s", i, wantOrder[i], row.Criteria)
		}
		if row.Score != wantScore[row.Criteria] {
			t.Fatalf("%s: expected %.1f, got %v", row.Criteria, wantScore[row.Criteria], row.Score)
		}
		if row.CaptionEN == "" || row.CaptionTH == "" {
			t.Fatalf("%s: captions must be populated", row.Criteria)
		}
	}

	var teamwork *ComparisonRow
	for i := range dashboard.SelfVsOthers {
		if dashboard.SelfVsOthers[i].Criteria == "Teamwork" {
			teamwork = &dashboard.SelfVsOthers[i]
		}
	}
	if teamwork == nil {
		t.Fatal("expected a self-vs-others row for Teamwork")
	}
	if teamwork.Self == nil || *teamwork.Self != 4.0 {
		t.Fatalf("expected self mean 4.0, got %v", teamwork.Self)
	}
	if teamwork.Others == nil || *teamwork.Others != 2.0 {
		t.Fatalf("expected others mean 2.0, got %v", teamwork.Others)
	}
}

func TestBuildEmployeeDashboardStrengthsAndOpportunities(t *testing.T) {
	emp := employee.Employee{EmployeeID: "E1", Name: "Somchai", Department: "Sales"}
	dashboard := buildEmployeeDashboard(emp, salesDefinitions(), salesScenario())

	if len(dashboard.TopStrengths) != 3 || len(dashboard.Opportunities) != 3 {
		t.Fatalf("expected 3 entries each with 3 criteria present, got %d/%d",
			len(dashboard.TopStrengths), len(dashboard.Opportunities))
	}
	// Punctuality and Negotiation tie at 4.0; Punctuality precedes in the
	// resolved order and must stay first among the strengths.
	if dashboard.TopStrengths[0].Criteria != "Punctuality" {
		t.Fatalf("unexpected top strength: %+v", dashboard.TopStrengths[0])
	}
	if dashboard.Opportunities[0].Criteria != "Teamwork" {
		t.Fatalf("unexpected first opportunity: %+v", dashboard.Opportunities[0])
	}
}

func TestBuildEmployeeDashboardNoRecords(t *testing.T) {
	emp := employee.Employee{EmployeeID: "E2", Name: "Suda", Department: "HR"}
	dashboard := buildEmployeeDashboard(emp, salesDefinitions(), nil)

	if dashboard.HasData {
		t.Fatal("expected HasData=false with no records")
	}
	if dashboard.Averages == nil || dashboard.TopStrengths == nil || dashboard.SelfVsOthers == nil {
		t.Fatal("empty dashboard must carry empty slices, not nil")
	}
	if len(dashboard.Averages) != 0 {
		t.Fatalf("expected no average rows, got %d", len(dashboard.Averages))
	}
}

func TestBuildEmployeeDashboardIgnoresRetiredCriteria(t *testing.T) {
	emp := employee.Employee{EmployeeID: "E1", Name: "Somchai", Department: "Sales"}
	records := append(salesScenario(),
		ratingRecord("E1", "M1", evaluation.EvaluatorManager, 2024, "RetiredKey", 1))
	dashboard := buildEmployeeDashboard(emp, salesDefinitions(), records)

	for _, row := range dashboard.Averages {
		if row.Criteria == "RetiredKey" {
			t.Fatal("records outside the resolved criteria set must not surface")
		}
	}
	if len(dashboard.Averages) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(dashboard.Averages))
	}
}

func TestBuildEmployeeDashboardRoundsForDisplay(t *testing.T) {
	emp := employee.Employee{EmployeeID: "E1", Name: "Somchai", Department: "Sales"}
	records := []evaluation.Response{
		ratingRecord("E1", "M1", evaluation.EvaluatorManager, 2024, "Teamwork", 3),
		ratingRecord("E1", "P1", evaluation.EvaluatorPeer, 2024, "Teamwork", 3),
		ratingRecord("E1", "P2", evaluation.EvaluatorPeer, 2024, "Teamwork", 4),
	}
	dashboard := buildEmployeeDashboard(emp, salesDefinitions(), records)
	// 10/3 carries full precision internally and rounds to 3.33 on display.
	if dashboard.Averages[0].Score != 3.33 {
		t.Fatalf("expected displayed score 3.33, got %v", dashboard.Averages[0].Score)
	}
}
