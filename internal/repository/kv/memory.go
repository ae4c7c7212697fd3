package kv

import (
	"context"
	"sync"

	"zizi-storefront/internal/domain"
)

type memoryRepo struct {
	mu     sync.RWMutex
	values map[string]map[string]string
}

// NewMemory returns a process-local Repository. Values do not survive a restart.
func NewMemory() Repository {
	return &memoryRepo{values: make(map[string]map[string]string)}
}

func (r *memoryRepo) Get(_ context.Context, namespace, key string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.values[namespace][key]
	if !ok {
		return "", domain.ErrNotFound
	}
	return v, nil
}

func (r *memoryRepo) Put(_ context.Context, namespace, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.values[namespace] == nil {
		r.values[namespace] = make(map[string]string)
	}
	r.values[namespace][key] = value
	return nil
}

func (r *memoryRepo) Delete(_ context.Context, namespace, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.values[namespace], key)
	return nil
}
