package category

import (
	"context"

	"github.com/wichananm65/eco-shop-backend/internal/apperr"
)

// Service provides business logic for categories.
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

// List returns up to limit categories; limit <= 0 uses DefaultLimit.
func (s *Service) List(ctx context.Context, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	items, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "category.list", err)
	}
	return items, nil
}
