package product

import (
	"context"
	"sort"
	"sync"

	"zizi-storefront/internal/domain"
)

type memoryRepo struct {
	mu     sync.RWMutex
	bySlug map[string]domain.Product
}

// NewMemory serves products from memory, seeded with products.
func NewMemory(products []domain.Product) Repository {
	r := &memoryRepo{bySlug: make(map[string]domain.Product, len(products))}
	for _, p := range products {
		r.bySlug[p.Slug] = p
	}
	return r
}

func (r *memoryRepo) List(_ context.Context) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Product, 0, len(r.bySlug))
	for _, p := range r.bySlug {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memoryRepo) GetBySlug(_ context.Context, slug string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.bySlug[slug]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (r *memoryRepo) Upsert(_ context.Context, product domain.Product) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for slug, existing := range r.bySlug {
		if existing.ID == product.ID && slug != product.Slug {
			delete(r.bySlug, slug)
		}
	}
	r.bySlug[product.Slug] = product
	out := product
	return &out, nil
}
