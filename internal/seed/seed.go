package seed

import (
	"context"
	"fmt"

	"zizi-storefront/internal/domain"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// Apply upserts the catalog products. It is idempotent.
func Apply(ctx context.Context, repo ProductWriter, products []domain.Product) (int, error) {
	for i, p := range products {
		if _, err := repo.Upsert(ctx, p); err != nil {
			return i, fmt.Errorf("upsert product %s: %w", p.Slug, err)
		}
	}
	return len(products), nil
}
