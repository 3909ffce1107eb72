package evaluation

import (
	"context"

	"eval360/internal/domain/criteria"
)

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

// Submit validates the submission against the resolved criteria and, only
// when every answer is valid, appends the whole record set atomically.
func (s *Service) Submit(ctx context.Context, sub Submission, resolved []criteria.Definition) ([]Response, error) {
	responses, err := Collect(sub, resolved)
	if err != nil {
		return nil, err
	}
	if err := s.store.AppendAll(ctx, responses); err != nil {
		return nil, err
	}
	return responses, nil
}

func (s *Service) List(ctx context.Context, f Filter) ([]Response, error) {
	return s.store.List(ctx, f)
}

func (s *Service) Years(ctx context.Context) ([]int, error) {
	return s.store.Years(ctx)
}
