package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/nullsec/nkauth/internal/repositories/memory"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.Set(c.Now().Add(d))
}

var errStore = errors.New("store unavailable")

// flakyRepo wraps a memory repository and fails selected operations.
type flakyRepo struct {
	*memory.Repository
	failList   bool
	failSet    bool
	failDelete bool
	cleared    int
	// listErr overrides errStore as the List failure.
	listErr error
}

func newFlakyRepo() *flakyRepo {
	return &flakyRepo{Repository: memory.NewRepository()}
}

func (r *flakyRepo) List(ctx context.Context) (map[string][]byte, error) {
	if r.failList {
		if r.listErr != nil {
			return nil, r.listErr
		}
		return nil, errStore
	}
	return r.Repository.List(ctx)
}

func (r *flakyRepo) Set(ctx context.Context, key string, value []byte) error {
	if r.failSet {
		return errStore
	}
	return r.Repository.Set(ctx, key, value)
}

func (r *flakyRepo) Delete(ctx context.Context, key string) error {
	if r.failDelete {
		return errStore
	}
	return r.Repository.Delete(ctx, key)
}

func (r *flakyRepo) Clear(ctx context.Context) error {
	r.cleared++
	return r.Repository.Clear(ctx)
}
