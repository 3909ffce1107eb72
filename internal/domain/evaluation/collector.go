package evaluation

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"eval360/internal/domain/criteria"
)

const (
	RatingMin = 1
	RatingMax = 5
)

// Collect validates one submission against the resolved criteria for the
// employee's department and expands it into one Response per criterion.
// Validation is all-or-nothing: any issue rejects the whole submission and
// no partial record list is returned. An empty evaluator id is replaced
// with a generated one so evaluator counts stay meaningful.
func Collect(sub Submission, resolved []criteria.Definition) ([]Response, error) {
	verr := &ValidationError{}

	if strings.TrimSpace(sub.EmployeeID) == "" {
		verr.add("employeeId", "employee id is required")
	}
	if sub.EvaluatorType == "" {
		verr.add("evaluatorType", "evaluator type is required")
	} else if _, err := ParseEvaluatorType(string(sub.EvaluatorType)); err != nil {
		verr.add("evaluatorType", err.Error())
	}
	if sub.Year <= 0 {
		verr.add("evaluationYear", "evaluation year is required")
	}
	if len(resolved) == 0 {
		verr.add("answers", "no evaluation criteria are configured for this department")
	}
	if len(verr.Issues) > 0 {
		return nil, verr
	}

	evaluatorID := strings.TrimSpace(sub.EvaluatorID)
	if evaluatorID == "" {
		evaluatorID = uuid.NewString()
	}

	known := make(map[string]struct{}, len(resolved))
	responses := make([]Response, 0, len(resolved))
	for _, def := range resolved {
		known[def.Key] = struct{}{}
		raw, ok := sub.Answers[def.Key]
		if !ok {
			verr.add("answers."+def.Key, fmt.Sprintf("answer for criterion %q is missing", def.Key))
			continue
		}

		response := Response{
			EmployeeID:    sub.EmployeeID,
			EvaluatorID:   evaluatorID,
			EvaluatorType: sub.EvaluatorType,
			Year:          sub.Year,
			Criteria:      def.Key,
			Type:          def.Type,
		}

		switch def.Type {
		case criteria.AnswerRating:
			rating, err := ratingValue(raw)
			if err != nil {
				verr.add("answers."+def.Key, err.Error())
				continue
			}
			response.Rating = &rating
		case criteria.AnswerNumeric:
			value, err := numericValue(raw)
			if err != nil {
				verr.add("answers."+def.Key, err.Error())
				continue
			}
			response.Numeric = &value
		case criteria.AnswerText:
			text, ok := raw.(string)
			if !ok {
				verr.add("answers."+def.Key, "text answer must be a string")
				continue
			}
			// Empty text is an explicit "no response" and is stored as
			// such, distinct from a missing answer.
			response.Text = &text
		default:
			verr.add("answers."+def.Key, fmt.Sprintf("criterion %q has unsupported answer type %q", def.Key, def.Type))
			continue
		}

		responses = append(responses, response)
	}

	for key := range sub.Answers {
		if _, ok := known[key]; !ok {
			verr.add("answers."+key, fmt.Sprintf("criterion %q is not part of the resolved criteria", key))
		}
	}

	if len(verr.Issues) > 0 {
		return nil, verr
	}
	return responses, nil
}

func ratingValue(raw any) (int, error) {
	var value float64
	switch v := raw.(type) {
	case float64:
		value = v
	case int:
		value = float64(v)
	default:
		return 0, fmt.Errorf("rating must be a whole number between %d and %d", RatingMin, RatingMax)
	}
	if value != math.Trunc(value) {
		return 0, fmt.Errorf("rating must be a whole number between %d and %d", RatingMin, RatingMax)
	}
	rating := int(value)
	if rating < RatingMin || rating > RatingMax {
		return 0, fmt.Errorf("rating %d is out of range [%d, %d]", rating, RatingMin, RatingMax)
	}
	return rating, nil
}

func numericValue(raw any) (float64, error) {
	var value float64
	switch v := raw.(type) {
	case float64:
		value = v
	case int:
		value = float64(v)
	default:
		return 0, fmt.Errorf("numeric answer must be a number")
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("numeric answer must be finite")
	}
	return value, nil
}
