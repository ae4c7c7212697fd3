package kv

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"zizi-storefront/internal/db"
	"zizi-storefront/internal/domain"
	"zizi-storefront/internal/migrate"
)

func TestMemory_RoundTrip(t *testing.T) {
	exerciseRepository(t, NewMemory())
}

func TestSQLite_RoundTrip(t *testing.T) {
	ctx := context.Background()
	conn, err := db.OpenSQLite(ctx, filepath.Join(t.TempDir(), "kv.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer conn.Close()
	if err := migrate.ApplySQLite(ctx, conn); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	exerciseRepository(t, NewSQLite(conn, nil))
}

func TestPostgres_RoundTrip(t *testing.T) {
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	defer pool.Close()
	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE local_storage`); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	exerciseRepository(t, NewPostgres(pool, nil))
}

func TestScope_IsolatesNamespaces(t *testing.T) {
	ctx := context.Background()
	repo := NewMemory()
	a := Scope(repo, "visitor-a")
	b := Scope(repo, "visitor-b")

	if err := a.Set(ctx, "zizi_cart", "[1]"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, err := b.Get(ctx, "zizi_cart"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected other namespace to be empty, got %v", err)
	}
	if err := a.Remove(ctx, "zizi_cart"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := a.Get(ctx, "zizi_cart"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected removed key, got %v", err)
	}
}

func exerciseRepository(t *testing.T, repo Repository) {
	t.Helper()
	ctx := context.Background()

	if _, err := repo.Get(ctx, "ns", "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := repo.Put(ctx, "ns", "zizi_cart", `[{"id":"1"}]`); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := repo.Put(ctx, "ns", "zizi_cart", `[]`); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	got, err := repo.Get(ctx, "ns", "zizi_cart")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != `[]` {
		t.Fatalf("expected overwritten value, got %q", got)
	}
	if err := repo.Delete(ctx, "ns", "zizi_cart"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, "ns", "zizi_cart"); err != nil {
		t.Fatalf("Delete missing should be a no-op: %v", err)
	}
	if _, err := repo.Get(ctx, "ns", "zizi_cart"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
