package kv

import (
	"context"
)

// Repository stores string values by (namespace, key). A namespace is one
// visitor's private slice of durable local storage.
type Repository interface {
	Get(ctx context.Context, namespace, key string) (string, error)
	Put(ctx context.Context, namespace, key, value string) error
	Delete(ctx context.Context, namespace, key string) error
}

// Local is the key/value view a single storefront app sees, equivalent to a
// browser's localStorage for one visitor.
type Local interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

type scoped struct {
	repo      Repository
	namespace string
}

// Scope binds repo to namespace.
func Scope(repo Repository, namespace string) Local {
	return &scoped{repo: repo, namespace: namespace}
}

func (s *scoped) Get(ctx context.Context, key string) (string, error) {
	return s.repo.Get(ctx, s.namespace, key)
}

func (s *scoped) Set(ctx context.Context, key, value string) error {
	return s.repo.Put(ctx, s.namespace, key, value)
}

func (s *scoped) Remove(ctx context.Context, key string) error {
	return s.repo.Delete(ctx, s.namespace, key)
}
