// Package services contains the credential-and-session core: users, sessions
// and licenses. Each manager keeps its collection in memory and writes every
// mutation through to a repositories.Repository before returning.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/nullsec/nkauth/internal/logging"
	"github.com/nullsec/nkauth/internal/repositories"
)

// LoadStatus reports how a manager's collection was loaded at start-up.
type LoadStatus struct {
	Collection string
	// Loaded is the number of records kept in memory.
	Loaded int
	// Recovered is set when the stored collection could not be read and the
	// manager started empty instead.
	Recovered bool
	// Err is the read error behind Recovered.
	Err error
	// Skipped counts records that failed to decode.
	Skipped int
	// Expired counts sessions purged by the load sweep.
	Expired int
}

// loadCollection reads and decodes every record of repo. An unreadable
// collection is logged and replaced by an empty map; the store itself is left
// untouched. The returned repository is the one the manager must write
// through: for a corrupt collection it resets the stored document right
// before the first mutation.
func loadCollection[T any](ctx context.Context, name string, repo repositories.Repository, log logging.Logger) (map[string]T, repositories.Repository, LoadStatus) {
	status := LoadStatus{Collection: name}
	out := make(map[string]T)

	raw, err := repo.List(ctx)
	if err != nil {
		status.Recovered = true
		status.Err = err
		log.Warn(ctx, "collection unreadable, starting empty", "collection", name, "error", err)
		if errors.Is(err, repositories.ErrCorrupt) {
			return out, &resetOnWrite{Repository: repo, name: name, log: log}, status
		}
		return out, repo, status
	}

	for key, value := range raw {
		var rec T
		if err := json.Unmarshal(value, &rec); err != nil {
			status.Skipped++
			log.Warn(ctx, "skipping undecodable record", "collection", name, "error", err)
			continue
		}
		out[key] = rec
	}
	status.Loaded = len(out)
	return out, repo, status
}

// resetOnWrite clears a corrupt collection once, before the first Set or
// Delete reaches it.
type resetOnWrite struct {
	repositories.Repository
	name string
	log  logging.Logger

	mu    sync.Mutex
	reset bool
}

func (r *resetOnWrite) ensureReset(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.reset {
		return nil
	}
	if err := r.Repository.Clear(ctx); err != nil {
		return fmt.Errorf("reset %s collection: %w", r.name, err)
	}
	r.reset = true
	r.log.Info(ctx, "corrupt collection reset", "collection", r.name)
	return nil
}

func (r *resetOnWrite) Set(ctx context.Context, key string, value []byte) error {
	if err := r.ensureReset(ctx); err != nil {
		return err
	}
	return r.Repository.Set(ctx, key, value)
}

func (r *resetOnWrite) Delete(ctx context.Context, key string) error {
	if err := r.ensureReset(ctx); err != nil {
		return err
	}
	return r.Repository.Delete(ctx, key)
}

func (r *resetOnWrite) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.Repository.Clear(ctx); err != nil {
		return err
	}
	r.reset = true
	return nil
}

// putRecord encodes rec and stores it under key.
func putRecord[T any](ctx context.Context, repo repositories.Repository, name, key string, rec T) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode %s record: %w", name, err)
	}
	if err := repo.Set(ctx, key, b); err != nil {
		return fmt.Errorf("save %s record: %w", name, err)
	}
	return nil
}
