package product

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"zizi-storefront/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const productColumns = `id, slug, title, subtitle, price, category, summary, description, images, specs`

func (r *postgresRepo) List(ctx context.Context) ([]domain.Product, error) {
	q := `SELECT ` + productColumns + ` FROM products ORDER BY id ASC`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Error("product repo: list", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("product repo: list rows", zap.Error(err))
		return nil, err
	}
	r.logger.Debug("product repo: list", zap.Int("count", len(result)))
	return result, nil
}

func (r *postgresRepo) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	q := `SELECT ` + productColumns + ` FROM products WHERE slug = $1`
	p, err := scanProduct(r.pool.QueryRow(ctx, q, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("product repo: get not found", zap.String("slug", slug))
			return nil, domain.ErrNotFound
		}
		r.logger.Error("product repo: get", zap.String("slug", slug), zap.Error(err))
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, product domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (id, slug, title, subtitle, price, category, summary, description, images, specs)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (id) DO UPDATE SET
    slug = EXCLUDED.slug,
    title = EXCLUDED.title,
    subtitle = EXCLUDED.subtitle,
    price = EXCLUDED.price,
    category = EXCLUDED.category,
    summary = EXCLUDED.summary,
    description = EXCLUDED.description,
    images = EXCLUDED.images,
    specs = EXCLUDED.specs
`
	images, err := json.Marshal(nonNilImages(product.Images))
	if err != nil {
		return nil, fmt.Errorf("encode images: %w", err)
	}
	specs, err := json.Marshal(product.Specs)
	if err != nil {
		return nil, fmt.Errorf("encode specs: %w", err)
	}
	if _, err := r.pool.Exec(ctx, q,
		product.ID,
		product.Slug,
		product.Title,
		product.Subtitle,
		product.Price,
		product.Category,
		product.Summary,
		product.Description,
		images,
		specs,
	); err != nil {
		r.logger.Error("product repo: upsert", zap.String("slug", product.Slug), zap.Int("id", product.ID), zap.Error(err))
		return nil, err
	}
	r.logger.Info("product repo: upserted", zap.String("slug", product.Slug), zap.Int("id", product.ID))
	out := product
	return &out, nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var (
		p      domain.Product
		images []byte
		specs  []byte
	)
	if err := row.Scan(&p.ID, &p.Slug, &p.Title, &p.Subtitle, &p.Price, &p.Category, &p.Summary, &p.Description, &images, &specs); err != nil {
		return nil, err
	}
	if len(images) > 0 {
		if err := json.Unmarshal(images, &p.Images); err != nil {
			return nil, fmt.Errorf("decode images for %q: %w", p.Slug, err)
		}
	}
	if len(specs) > 0 {
		if err := json.Unmarshal(specs, &p.Specs); err != nil {
			return nil, fmt.Errorf("decode specs for %q: %w", p.Slug, err)
		}
	}
	return &p, nil
}

func nonNilImages(images []string) []string {
	if images == nil {
		return []string{}
	}
	return images
}
