package employee

import (
	"context"
	"fmt"
	"strings"
)

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

func (s *Service) List(ctx context.Context, department string) ([]Employee, error) {
	return s.store.List(ctx, department)
}

func (s *Service) Get(ctx context.Context, employeeID string) (Employee, error) {
	return s.store.Get(ctx, employeeID)
}

func (s *Service) Departments(ctx context.Context) ([]string, error) {
	return s.store.Departments(ctx)
}

func (s *Service) Add(ctx context.Context, emp Employee) error {
	emp.EmployeeID = strings.TrimSpace(emp.EmployeeID)
	emp.Name = strings.TrimSpace(emp.Name)
	emp.Department = strings.TrimSpace(emp.Department)
	if emp.EmployeeID == "" || emp.Name == "" || emp.Department == "" {
		return fmt.Errorf("employee id, name and department are all required")
	}
	return s.store.Create(ctx, emp)
}

func (s *Service) Delete(ctx context.Context, employeeID string) error {
	return s.store.Delete(ctx, employeeID)
}

// Import applies a parsed upload in the requested mode. Duplicates inside
// the upload are collapsed first, last row wins, so replace and append
// behave the same way for in-file duplicates.
func (s *Service) Import(ctx context.Context, employees []Employee, mode ImportMode) (int, error) {
	deduped := DedupeKeepLast(employees)
	switch mode {
	case ImportReplace:
		if err := s.store.ReplaceAll(ctx, deduped); err != nil {
			return 0, err
		}
	case ImportAppend:
		if err := s.store.UpsertAll(ctx, deduped); err != nil {
			return 0, err
		}
	default:
		return 0, fmt.Errorf("unknown import mode %q (expected replace or append)", mode)
	}
	return len(deduped), nil
}
