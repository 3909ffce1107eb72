package evaluation

import (
	"errors"
	"testing"

	"eval360/internal/domain/criteria"
)

func salesCriteria() []criteria.Definition {
	target := 100.0
	return []criteria.Definition{
		{Department: "Core", Key: "Teamwork", Type: criteria.AnswerRating},
		{Department: "Core", Key: "Punctuality", Type: criteria.AnswerRating},
		{Department: "Sales", Key: "Negotiation", Type: criteria.AnswerRating},
		{Department: "Sales", Key: "SalesTarget", Type: criteria.AnswerNumeric, Target: &target},
		{Department: "Sales", Key: "CustomerFeedback", Type: criteria.AnswerText},
	}
}

func validSubmission() Submission {
	return Submission{
		EmployeeID:    "E1",
		EvaluatorID:   "M1",
		EvaluatorType: EvaluatorManager,
		Year:          2024,
		Answers: map[string]any{
			"Teamwork":         float64(4),
			"Punctuality":      float64(5),
			"Negotiation":      float64(3),
			"SalesTarget":      88.5,
			"CustomerFeedback": "solid year",
		},
	}
}

func TestCollectProducesOneResponsePerCriterion(t *testing.T) {
	resolved := salesCriteria()
	responses, err := Collect(validSubmission(), resolved)
	if err != nil {
		t.Fatalf("collect failed: %v", err)
	}
	if len(responses) != len(resolved) {
		t.Fatalf("expected %d responses, got %d", len(resolved), len(responses))
	}
	for i, r := range responses {
		if r.Criteria != resolved[i].Key {
			t.Fatalf("response %d: expected criterion %s, got %s", i, resolved[i].Key, r.Criteria)
		}
		if r.EmployeeID != "E1" || r.EvaluatorID != "M1" || r.EvaluatorType != EvaluatorManager || r.Year != 2024 {
			t.Fatalf("response %d carries wrong submission identity: %+v", i, r)
		}
	}
}

func TestCollectTaggedVariantExclusivity(t *testing.T) {
	responses, err := Collect(validSubmission(), salesCriteria())
	if err != nil {
		t.Fatalf("collect failed: %v", err)
	}
	for _, r := range responses {
		populated := 0
		if r.Rating != nil {
			populated++
		}
		if r.Numeric != nil {
			populated++
		}
		if r.Text != nil {
			populated++
		}
		if populated != 1 {
			t.Fatalf("response %s populates %d value fields, want exactly 1", r.Criteria, populated)
		}
	}
}

func TestCollectRejectsOutOfRangeRating(t *testing.T) {
	sub := validSubmission()
	sub.Answers["Teamwork"] = float64(6)
	_, err := Collect(sub, salesCriteria())
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Issues) != 1 || verr.Issues[0].Field != "answers.Teamwork" {
		t.Fatalf("unexpected issues: %+v", verr.Issues)
	}
}

func TestCollectRejectsFractionalRating(t *testing.T) {
	sub := validSubmission()
	sub.Answers["Teamwork"] = 3.5
	if _, err := Collect(sub, salesCriteria()); err == nil {
		t.Fatal("expected fractional rating to be rejected")
	}
}

func TestCollectRejectsNonFiniteNumeric(t *testing.T) {
	sub := validSubmission()
	sub.Answers["SalesTarget"] = "not a number"
	if _, err := Collect(sub, salesCriteria()); err == nil {
		t.Fatal("expected non-numeric answer to be rejected")
	}
}

func TestCollectAllowsEmptyText(t *testing.T) {
	sub := validSubmission()
	sub.Answers["CustomerFeedback"] = ""
	responses, err := Collect(sub, salesCriteria())
	if err != nil {
		t.Fatalf("collect failed: %v", err)
	}
	for _, r := range responses {
		if r.Criteria == "CustomerFeedback" {
			if r.Text == nil || *r.Text != "" {
				t.Fatalf("empty text must be stored explicitly, got %+v", r.Text)
			}
			return
		}
	}
	t.Fatal("CustomerFeedback response missing")
}

func TestCollectMissingAnswerFailsWholeSubmission(t *testing.T) {
	sub := validSubmission()
	delete(sub.Answers, "Negotiation")
	responses, err := Collect(sub, salesCriteria())
	if err == nil {
		t.Fatal("expected missing answer to reject the submission")
	}
	if responses != nil {
		t.Fatalf("no partial record list may be returned, got %d rows", len(responses))
	}
}

func TestCollectMissingIdentityFields(t *testing.T) {
	sub := validSubmission()
	sub.EmployeeID = ""
	sub.EvaluatorType = ""
	sub.Year = 0
	_, err := Collect(sub, salesCriteria())
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Issues) != 3 {
		t.Fatalf("expected 3 identity issues, got %+v", verr.Issues)
	}
}

func TestCollectZeroCriteriaDepartmentCannotSubmit(t *testing.T) {
	_, err := Collect(validSubmission(), nil)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestCollectRejectsUnknownAnswerKey(t *testing.T) {
	sub := validSubmission()
	sub.Answers["Typo"] = float64(3)
	if _, err := Collect(sub, salesCriteria()); err == nil {
		t.Fatal("expected unknown answer key to be rejected")
	}
}

func TestCollectAssignsEvaluatorIDWhenMissing(t *testing.T) {
	sub := validSubmission()
	sub.EvaluatorID = "  "
	responses, err := Collect(sub, salesCriteria())
	if err != nil {
		t.Fatalf("collect failed: %v", err)
	}
	if responses[0].EvaluatorID == "" {
		t.Fatal("expected a generated evaluator id")
	}
	for _, r := range responses[1:] {
		if r.EvaluatorID != responses[0].EvaluatorID {
			t.Fatal("generated evaluator id must be shared across the submission")
		}
	}
}
