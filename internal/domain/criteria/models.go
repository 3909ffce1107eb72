package criteria

import "fmt"

// DepartmentCore is the reserved department sentinel: criteria filed under
// it apply to every department.
const DepartmentCore = "Core"

type AnswerType string

const (
	AnswerRating  AnswerType = "rating"
	AnswerNumeric AnswerType = "numeric"
	AnswerText    AnswerType = "text"
)

func ParseAnswerType(raw string) (AnswerType, error) {
	switch AnswerType(raw) {
	case AnswerRating, AnswerNumeric, AnswerText:
		return AnswerType(raw), nil
	}
	return "", fmt.Errorf("unknown answer type %q (expected rating, numeric or text)", raw)
}

// Source selects which persisted criteria set resolution runs against.
type Source string

const (
	SourceDefault Source = "default"
	SourceCustom  Source = "custom"
)

func ParseSource(raw string) (Source, error) {
	switch Source(raw) {
	case SourceDefault, SourceCustom:
		return Source(raw), nil
	}
	return "", fmt.Errorf("unknown criteria source %q (expected default or custom)", raw)
}

type Definition struct {
	Department string     `json:"department"`
	Key        string     `json:"criteria"`
	CaptionEN  string     `json:"captionEng"`
	CaptionTH  string     `json:"captionTh"`
	Type       AnswerType `json:"answerType"`
	Target     *float64   `json:"targetValue,omitempty"`
}
