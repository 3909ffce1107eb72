package report

import (
	"errors"
	"testing"

	"eval360/internal/domain/criteria"
	"eval360/internal/domain/evaluation"
)

func ratingRecord(employeeID, evaluatorID string, evaluatorType evaluation.EvaluatorType, year int, key string, score int) evaluation.Response {
	return evaluation.Response{
		EmployeeID:    employeeID,
		EvaluatorID:   evaluatorID,
		EvaluatorType: evaluatorType,
		Year:          year,
		Criteria:      key,
		Type:          criteria.AnswerRating,
		Rating:        &score,
	}
}

func numericRecord(employeeID string, year int, key string, value float64) evaluation.Response {
	return evaluation.Response{
		EmployeeID:    employeeID,
		EvaluatorID:   "M1",
		EvaluatorType: evaluation.EvaluatorManager,
		Year:          year,
		Criteria:      key,
		Type:          criteria.AnswerNumeric,
		Numeric:       &value,
	}
}

func textRecord(employeeID string, year int, key, text string) evaluation.Response {
	return evaluation.Response{
		EmployeeID:    employeeID,
		EvaluatorID:   "P1",
		EvaluatorType: evaluation.EvaluatorPeer,
		Year:          year,
		Criteria:      key,
		Type:          criteria.AnswerText,
		Text:          &text,
	}
}

// The Sales scenario: Core criteria Teamwork and Punctuality, Sales
// criterion Negotiation, one Self and one Manager submission for 2024.
func salesScenario() []evaluation.Response {
	return []evaluation.Response{
		ratingRecord("E1", "E1", evaluation.EvaluatorSelf, 2024, "Teamwork", 4),
		ratingRecord("E1", "E1", evaluation.EvaluatorSelf, 2024, "Punctuality", 5),
		ratingRecord("E1", "E1", evaluation.EvaluatorSelf, 2024, "Negotiation", 3),
		ratingRecord("E1", "M1", evaluation.EvaluatorManager, 2024, "Teamwork", 2),
		ratingRecord("E1", "M1", evaluation.EvaluatorManager, 2024, "Punctuality", 3),
		ratingRecord("E1", "M1", evaluation.EvaluatorManager, 2024, "Negotiation", 5),
	}
}

func TestAveragesByCriterionSalesScenario(t *testing.T) {
	averages := AveragesByCriterion(salesScenario())
	want := map[string]float64{"Teamwork": 3.0, "Punctuality": 4.0, "Negotiation": 4.0}
	if len(averages) != len(want) {
		t.Fatalf("expected %d criteria, got %d", len(want), len(averages))
	}
	for key, expected := range want {
		if averages[key] != expected {
			t.Fatalf("%s: expected %.1f, got %v", key, expected, averages[key])
		}
	}
}

func TestAveragesExcludeTextRecords(t *testing.T) {
	score := 4
	records := []evaluation.Response{
		{EmployeeID: "E1", EvaluatorID: "M1", EvaluatorType: evaluation.EvaluatorManager, Year: 2024, Criteria: "Teamwork", Type: criteria.AnswerRating, Rating: &score},
		textRecord("E1", 2024, "CustomerFeedback", "great year"),
	}
	averages := AveragesByCriterion(records)
	if len(averages) != 1 {
		t.Fatalf("expected exactly one numeric entry, got %d", len(averages))
	}
	if averages["Teamwork"] != 4.0 {
		t.Fatalf("expected Teamwork=4.0, got %v", averages["Teamwork"])
	}
}

func TestAveragesByYearGroups(t *testing.T) {
	records := []evaluation.Response{
		ratingRecord("E1", "M1", evaluation.EvaluatorManager, 2023, "Teamwork", 2),
		ratingRecord("E1", "M1", evaluation.EvaluatorManager, 2024, "Teamwork", 4),
	}
	byYear := AveragesByYear(records)
	if byYear[2023]["Teamwork"] != 2.0 || byYear[2024]["Teamwork"] != 4.0 {
		t.Fatalf("unexpected yearly averages: %+v", byYear)
	}
}

func TestAveragesByEvaluatorGroups(t *testing.T) {
	byEvaluator := AveragesByEvaluator(salesScenario())
	if byEvaluator[evaluation.EvaluatorSelf]["Teamwork"] != 4.0 {
		t.Fatalf("unexpected self average: %+v", byEvaluator[evaluation.EvaluatorSelf])
	}
	if byEvaluator[evaluation.EvaluatorManager]["Teamwork"] != 2.0 {
		t.Fatalf("unexpected manager average: %+v", byEvaluator[evaluation.EvaluatorManager])
	}
}

func TestTopBottomStableTieBreakByResolvedOrder(t *testing.T) {
	averages := map[string]float64{"A": 4.0, "B": 4.0, "C": 2.0, "D": 3.0}
	order := []string{"B", "A", "C", "D"}
	top, bottom := TopBottom(averages, order, 2)
	// B and A tie at 4.0; B is first in resolved order and must stay first.
	if top[0].Criteria != "B" || top[1].Criteria != "A" {
		t.Fatalf("tie not broken by resolved order: %+v", top)
	}
	if bottom[0].Criteria != "C" || bottom[1].Criteria != "D" {
		t.Fatalf("unexpected bottom: %+v", bottom)
	}
}

func TestTopBottomClampsN(t *testing.T) {
	averages := map[string]float64{"A": 4.0}
	top, bottom := TopBottom(averages, []string{"A"}, 3)
	if len(top) != 1 || len(bottom) != 1 {
		t.Fatalf("expected single-entry lists, got %d/%d", len(top), len(bottom))
	}
}

func TestSelfVsOthersSalesScenario(t *testing.T) {
	comparisons := SelfVsOthers(salesScenario())
	teamwork := comparisons["Teamwork"]
	if teamwork.Self == nil || *teamwork.Self != 4.0 {
		t.Fatalf("expected self mean 4.0, got %v", teamwork.Self)
	}
	if teamwork.Others == nil || *teamwork.Others != 2.0 {
		t.Fatalf("expected others mean 2.0, got %v", teamwork.Others)
	}
}

func TestSelfVsOthersPeerOnlyLeavesSelfAbsent(t *testing.T) {
	records := []evaluation.Response{
		ratingRecord("E1", "P1", evaluation.EvaluatorPeer, 2024, "Teamwork", 3),
		ratingRecord("E1", "P2", evaluation.EvaluatorPeer, 2024, "Teamwork", 5),
	}
	comparison := SelfVsOthers(records)["Teamwork"]
	if comparison.Self != nil {
		t.Fatalf("expected absent self mean, got %v", *comparison.Self)
	}
	if comparison.Others == nil || *comparison.Others != 4.0 {
		t.Fatalf("expected others mean 4.0, got %v", comparison.Others)
	}
}

func TestTrendAscendingAndSparse(t *testing.T) {
	records := []evaluation.Response{
		ratingRecord("E1", "M1", evaluation.EvaluatorManager, 2024, "Teamwork", 4),
		ratingRecord("E1", "M1", evaluation.EvaluatorManager, 2021, "Teamwork", 2),
		ratingRecord("E1", "M1", evaluation.EvaluatorManager, 2021, "Teamwork", 4),
		ratingRecord("E1", "M1", evaluation.EvaluatorManager, 2024, "Negotiation", 1),
	}
	trend := Trend(records, "Teamwork")
	if len(trend) != 2 {
		t.Fatalf("expected 2 points, years without data must be omitted: %+v", trend)
	}
	if trend[0].Year != 2021 || trend[0].Score != 3.0 {
		t.Fatalf("unexpected first point: %+v", trend[0])
	}
	if trend[1].Year != 2024 || trend[1].Score != 4.0 {
		t.Fatalf("unexpected second point: %+v", trend[1])
	}
}

func TestProgressCapsAtOne(t *testing.T) {
	records := []evaluation.Response{
		numericRecord("E1", 2023, "SalesTarget", 80),
		numericRecord("E1", 2024, "SalesTarget", 120),
	}
	target := 100.0
	ratio, err := Progress(records, "SalesTarget", &target)
	if err != nil {
		t.Fatalf("progress failed: %v", err)
	}
	if ratio != 1.0 {
		t.Fatalf("mean 100 against target 100 must cap at exactly 1.0, got %v", ratio)
	}
}

func TestProgressPartial(t *testing.T) {
	records := []evaluation.Response{numericRecord("E1", 2024, "SalesTarget", 50)}
	target := 200.0
	ratio, err := Progress(records, "SalesTarget", &target)
	if err != nil {
		t.Fatalf("progress failed: %v", err)
	}
	if ratio != 0.25 {
		t.Fatalf("expected ratio 0.25, got %v", ratio)
	}
}

func TestProgressZeroTargetCannotCompute(t *testing.T) {
	records := []evaluation.Response{numericRecord("E1", 2024, "SalesTarget", 50)}
	target := 0.0
	if _, err := Progress(records, "SalesTarget", &target); !errors.Is(err, ErrNoTarget) {
		t.Fatalf("expected ErrNoTarget, got %v", err)
	}
	if _, err := Progress(records, "SalesTarget", nil); !errors.Is(err, ErrNoTarget) {
		t.Fatalf("expected ErrNoTarget for absent target, got %v", err)
	}
}

func TestProgressNoDataCannotCompute(t *testing.T) {
	target := 100.0
	if _, err := Progress(nil, "SalesTarget", &target); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestTextResponsesOrderedAndCountsEmpties(t *testing.T) {
	records := []evaluation.Response{
		textRecord("E1", 2023, "CustomerFeedback", "good"),
		textRecord("E1", 2024, "CustomerFeedback", ""),
		textRecord("E1", 2024, "CustomerFeedback", "excellent"),
		textRecord("E1", 2024, "OtherKey", "ignored"),
	}
	summary := TextResponses(records, "CustomerFeedback", nil)
	if summary.EmptyCount != 1 {
		t.Fatalf("expected 1 empty response, got %d", summary.EmptyCount)
	}
	if len(summary.Responses) != 2 {
		t.Fatalf("expected 2 non-empty responses, got %d", len(summary.Responses))
	}
	if summary.Responses[0].Year != 2024 || summary.Responses[1].Year != 2023 {
		t.Fatalf("expected newest year first: %+v", summary.Responses)
	}
}

func TestTextResponsesYearFilter(t *testing.T) {
	records := []evaluation.Response{
		textRecord("E1", 2023, "CustomerFeedback", "good"),
		textRecord("E1", 2024, "CustomerFeedback", "excellent"),
	}
	year := 2023
	summary := TextResponses(records, "CustomerFeedback", &year)
	if len(summary.Responses) != 1 || summary.Responses[0].Text != "good" {
		t.Fatalf("unexpected filtered summary: %+v", summary)
	}
}

func TestEvaluatorCountDistinct(t *testing.T) {
	if count := EvaluatorCount(salesScenario()); count != 2 {
		t.Fatalf("expected 2 distinct evaluators, got %d", count)
	}
}

func TestRound2(t *testing.T) {
	if Round2(3.006) != 3.01 {
		t.Fatalf("unexpected rounding: %v", Round2(3.006))
	}
	if Round2(10.0/3.0) != 3.33 {
		t.Fatalf("unexpected rounding: %v", Round2(10.0/3.0))
	}
}
