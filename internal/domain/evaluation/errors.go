package evaluation

import "fmt"

type Issue struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError rejects a whole submission; nothing is persisted when one
// is returned.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("submission rejected: %d invalid field(s)", len(e.Issues))
}

func (e *ValidationError) add(field, reason string) {
	e.Issues = append(e.Issues, Issue{Field: field, Reason: reason})
}
