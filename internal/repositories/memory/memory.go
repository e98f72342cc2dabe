// Package memory provides a map-backed repositories.Repository.
package memory

import (
	"context"
	"sync"
)

type Repository struct {
	mu      sync.RWMutex
	records map[string][]byte
}

func NewRepository() *Repository {
	return &Repository{records: make(map[string][]byte)}
}

func (r *Repository) Get(ctx context.Context, key string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.records[key]
	if !ok {
		return nil, nil
	}
	return clone(v), nil
}

func (r *Repository) Set(ctx context.Context, key string, value []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[key] = clone(value)
	return nil
}

func (r *Repository) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, key)
	return nil
}

func (r *Repository) List(ctx context.Context) (map[string][]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string][]byte, len(r.records))
	for k, v := range r.records {
		out[k] = clone(v)
	}
	return out, nil
}

func (r *Repository) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = make(map[string][]byte)
	return nil
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}
