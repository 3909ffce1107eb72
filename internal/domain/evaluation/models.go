package evaluation

import (
	"fmt"
	"time"

	"eval360/internal/domain/criteria"
)

type EvaluatorType string

const (
	EvaluatorSelf        EvaluatorType = "Self"
	EvaluatorManager     EvaluatorType = "Manager"
	EvaluatorPeer        EvaluatorType = "Peer"
	EvaluatorSubordinate EvaluatorType = "Subordinate"
)

func ParseEvaluatorType(raw string) (EvaluatorType, error) {
	switch EvaluatorType(raw) {
	case EvaluatorSelf, EvaluatorManager, EvaluatorPeer, EvaluatorSubordinate:
		return EvaluatorType(raw), nil
	}
	return "", fmt.Errorf("unknown evaluator type %q (expected Self, Manager, Peer or Subordinate)", raw)
}

// Response is one atomic answer to one criterion. The Type field
// discriminates which of the three value fields is set; the other two stay
// nil. Rows are immutable once appended.
type Response struct {
	EmployeeID    string              `json:"employeeId"`
	EvaluatorID   string              `json:"evaluatorId"`
	EvaluatorType EvaluatorType       `json:"evaluatorType"`
	Year          int                 `json:"evaluationYear"`
	Criteria      string              `json:"criteria"`
	Type          criteria.AnswerType `json:"answerType"`
	Rating        *int                `json:"score,omitempty"`
	Numeric       *float64            `json:"value,omitempty"`
	Text          *string             `json:"textResponse,omitempty"`
	SubmittedAt   time.Time           `json:"submittedAt,omitzero"`
}

// Value returns the numeric content of a rating or numeric response. Text
// responses carry no number and report ok=false.
func (r Response) Value() (float64, bool) {
	switch r.Type {
	case criteria.AnswerRating:
		if r.Rating != nil {
			return float64(*r.Rating), true
		}
	case criteria.AnswerNumeric:
		if r.Numeric != nil {
			return *r.Numeric, true
		}
	}
	return 0, false
}

// Submission is one evaluator's complete form for one employee and year.
// Answers are keyed by criteria key; the decoded JSON value is validated
// against each criterion's declared answer type by Collect.
type Submission struct {
	EmployeeID    string
	EvaluatorID   string
	EvaluatorType EvaluatorType
	Year          int
	Answers       map[string]any
}
