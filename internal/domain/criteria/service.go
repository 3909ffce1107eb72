package criteria

import (
	"context"
	"fmt"
	"math"
	"strings"
)

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

// ActiveSource maps the persisted use_custom flag to a Source value. The
// flag is read here once per request and passed down explicitly, so two
// concurrent resolutions can never see different halves of a toggle.
func (s *Service) ActiveSource(ctx context.Context) (Source, error) {
	useCustom, err := s.store.UseCustom(ctx)
	if err != nil {
		return "", err
	}
	if useCustom {
		return SourceCustom, nil
	}
	return SourceDefault, nil
}

func (s *Service) SetUseCustom(ctx context.Context, useCustom bool) error {
	return s.store.SetUseCustom(ctx, useCustom)
}

func (s *Service) Definitions(ctx context.Context, source Source) ([]Definition, error) {
	switch source {
	case SourceCustom:
		return s.store.ListCustom(ctx)
	default:
		return s.store.ListDefaults(ctx)
	}
}

// ResolveForDepartment loads the requested set and resolves it for one
// department. Historical evaluation rows are untouched by whatever set is
// active; they are matched back to definitions by key only.
func (s *Service) ResolveForDepartment(ctx context.Context, department string, source Source) ([]Definition, error) {
	defs, err := s.Definitions(ctx, source)
	if err != nil {
		return nil, err
	}
	return Resolve(department, defs)
}

type SetIssue struct {
	Row    int    `json:"row"`
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

type InvalidSetError struct {
	Issues []SetIssue
}

func (e *InvalidSetError) Error() string {
	return fmt.Sprintf("criteria set rejected: %d invalid field(s)", len(e.Issues))
}

// SaveCustom validates and stores a full replacement custom set. Rejected
// sets are not partially written.
func (s *Service) SaveCustom(ctx context.Context, defs []Definition) error {
	if err := ValidateSet(defs); err != nil {
		return err
	}
	return s.store.ReplaceCustom(ctx, defs)
}

// ValidateSet checks an authored criteria set row by row: keys and
// departments present, keys unique within their department scope, targets
// only on numeric criteria and finite.
func ValidateSet(defs []Definition) error {
	var issues []SetIssue
	seen := make(map[string]int, len(defs))

	for i, def := range defs {
		row := i + 1
		if strings.TrimSpace(def.Department) == "" {
			issues = append(issues, SetIssue{Row: row, Field: "department", Reason: "department is required"})
		}
		if strings.TrimSpace(def.Key) == "" {
			issues = append(issues, SetIssue{Row: row, Field: "criteria", Reason: "criteria key is required"})
			continue
		}
		scope := def.Department + "\x00" + def.Key
		if firstRow, dup := seen[scope]; dup {
			issues = append(issues, SetIssue{Row: row, Field: "criteria", Reason: fmt.Sprintf("key %q already defined in row %d", def.Key, firstRow)})
		} else {
			seen[scope] = row
		}
		if def.Type != "" {
			if _, err := ParseAnswerType(string(def.Type)); err != nil {
				issues = append(issues, SetIssue{Row: row, Field: "answerType", Reason: err.Error()})
			}
		}
		if def.Target != nil {
			if def.Type != AnswerNumeric {
				issues = append(issues, SetIssue{Row: row, Field: "targetValue", Reason: "target value is only allowed on numeric criteria"})
			} else if math.IsNaN(*def.Target) || math.IsInf(*def.Target, 0) {
				issues = append(issues, SetIssue{Row: row, Field: "targetValue", Reason: "target value must be a finite number"})
			}
		}
	}

	if len(issues) > 0 {
		return &InvalidSetError{Issues: issues}
	}
	return nil
}
