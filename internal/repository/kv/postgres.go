package kv

import (
	"context"
	"errors"

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

func (r *postgresRepo) Get(ctx context.Context, namespace, key string) (string, error) {
	const q = `
SELECT value
FROM local_storage
WHERE namespace = $1 AND key = $2
`
	var value string
	if err := r.pool.QueryRow(ctx, q, namespace, key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		r.logger.Warn("kv repo: get failed", zap.String("namespace", namespace), zap.String("key", key), zap.Error(err))
		return "", err
	}
	return value, nil
}

func (r *postgresRepo) Put(ctx context.Context, namespace, key, value string) error {
	const q = `
INSERT INTO local_storage (namespace, key, value, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (namespace, key) DO UPDATE SET
    value = EXCLUDED.value,
    updated_at = EXCLUDED.updated_at
`
	if _, err := r.pool.Exec(ctx, q, namespace, key, value); err != nil {
		r.logger.Warn("kv repo: put failed", zap.String("namespace", namespace), zap.String("key", key), zap.Error(err))
		return err
	}
	r.logger.Debug("kv repo: put", zap.String("namespace", namespace), zap.String("key", key), zap.Int("bytes", len(value)))
	return nil
}

func (r *postgresRepo) Delete(ctx context.Context, namespace, key string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM local_storage WHERE namespace = $1 AND key = $2`, namespace, key)
	return err
}
