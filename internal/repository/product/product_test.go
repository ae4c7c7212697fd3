package product

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"zizi-storefront/internal/domain"
	"zizi-storefront/internal/migrate"
)

func TestMemory_ListAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewMemory([]domain.Product{
		{ID: 2, Slug: "fendi-vittoria", Title: "Fendi – Vittoria", Price: "£575"},
		{ID: 1, Slug: "dior-eloise", Title: "Dior – Éloise", Price: "£575"},
	})

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].ID != 1 {
		t.Fatalf("expected products ordered by id, got %+v", list)
	}

	got, err := repo.GetBySlug(ctx, "fendi-vittoria")
	if err != nil {
		t.Fatalf("GetBySlug: %v", err)
	}
	if got.ID != 2 {
		t.Fatalf("unexpected product %+v", got)
	}

	if _, err := repo.GetBySlug(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemory_UpsertRenamesSlug(t *testing.T) {
	ctx := context.Background()
	repo := NewMemory([]domain.Product{{ID: 1, Slug: "old", Title: "A"}})

	if _, err := repo.Upsert(ctx, domain.Product{ID: 1, Slug: "new", Title: "A"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if _, err := repo.GetBySlug(ctx, "old"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected old slug gone, got %v", err)
	}
	list, _ := repo.List(ctx)
	if len(list) != 1 || list[0].Slug != "new" {
		t.Fatalf("unexpected list %+v", list)
	}
}

func TestPostgres_UpsertAndGet(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE products`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}

	repo := NewPostgres(pool, nil)
	in := domain.Product{
		ID:     1,
		Slug:   "dior-eloise",
		Title:  "Dior – Éloise",
		Price:  "£575",
		Images: []string{"/zizi-webp/dior-eloise.webp"},
		Specs:  domain.ProductSpecs{Material: "Fine Porcelain"},
	}
	if _, err := repo.Upsert(ctx, in); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	in.Price = "£600"
	if _, err := repo.Upsert(ctx, in); err != nil {
		t.Fatalf("Upsert update: %v", err)
	}

	got, err := repo.GetBySlug(ctx, "dior-eloise")
	if err != nil {
		t.Fatalf("GetBySlug: %v", err)
	}
	if got.Price != "£600" || len(got.Images) != 1 || got.Specs.Material != "Fine Porcelain" {
		t.Fatalf("unexpected product %+v", got)
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 product, got %d", len(list))
	}
}

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return pool
}
