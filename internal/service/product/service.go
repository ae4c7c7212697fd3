package product

import (
	"context"
	"strings"

	"zizi-storefront/internal/domain"
	productrepo "zizi-storefront/internal/repository/product"
)

type Service struct {
	repo productrepo.Repository
}

func New(repo productrepo.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	return s.repo.List(ctx)
}

// Get looks a product up by slug. Unknown or blank slugs return
// domain.ErrNotFound.
func (s *Service) Get(ctx context.Context, slug string) (*domain.Product, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, domain.ErrNotFound
	}
	return s.repo.GetBySlug(ctx, slug)
}
