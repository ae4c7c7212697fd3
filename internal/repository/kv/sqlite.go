package kv

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"zizi-storefront/internal/domain"
)

type sqliteRepo struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewSQLite(db *sql.DB, logger *zap.Logger) Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &sqliteRepo{db: db, logger: logger}
}

func (r *sqliteRepo) Get(ctx context.Context, namespace, key string) (string, error) {
	const q = `SELECT value FROM local_storage WHERE namespace = ? AND key = ?`
	var value string
	if err := r.db.QueryRowContext(ctx, q, namespace, key).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		r.logger.Warn("kv repo: get failed", zap.String("namespace", namespace), zap.String("key", key), zap.Error(err))
		return "", err
	}
	return value, nil
}

func (r *sqliteRepo) Put(ctx context.Context, namespace, key, value string) error {
	const q = `
INSERT INTO local_storage (namespace, key, value, updated_at)
VALUES (?, ?, ?, strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
ON CONFLICT (namespace, key) DO UPDATE SET
    value = excluded.value,
    updated_at = excluded.updated_at
`
	if _, err := r.db.ExecContext(ctx, q, namespace, key, value); err != nil {
		r.logger.Warn("kv repo: put failed", zap.String("namespace", namespace), zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}

func (r *sqliteRepo) Delete(ctx context.Context, namespace, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM local_storage WHERE namespace = ? AND key = ?`, namespace, key)
	return err
}
