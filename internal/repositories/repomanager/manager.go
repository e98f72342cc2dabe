// Package repomanager opens the users, sessions and licenses collections for
// the configured storage backend.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	"github.com/nullsec/nkauth/internal/filex"
	"github.com/nullsec/nkauth/internal/repositories"
	"github.com/nullsec/nkauth/internal/repositories/jsonfile"
	"github.com/nullsec/nkauth/internal/repositories/memory"
	"github.com/nullsec/nkauth/internal/repositories/sqlite"
)

// Collection names. They double as JSON document base names and as the
// collection column of the SQLite records table.
const (
	Users    = "users"
	Sessions = "sessions"
	Licenses = "licenses"
)

// Backends.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// SQLiteFileName is the database file inside the data directory.
const SQLiteFileName = "auth.db"

// Repositories bundles the three collections of one backend.
type Repositories struct {
	Users    repositories.Repository
	Sessions repositories.Repository
	Licenses repositories.Repository

	db *sql.DB
}

// Open creates dataDir if needed and opens backend inside it.
func Open(ctx context.Context, backend, dataDir string) (*Repositories, error) {
	switch backend {
	case BackendMemory:
		return NewInMemory(), nil
	case BackendJSON, "":
		dir, err := filex.EnsureDir(dataDir)
		if err != nil {
			return nil, err
		}
		return OpenJSON(dir)
	case BackendSQLite:
		dir, err := filex.EnsureDir(dataDir)
		if err != nil {
			return nil, err
		}
		return OpenSQLite(ctx, dir)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}

// OpenJSON returns the JSON document collections stored in dir.
func OpenJSON(dir string) (*Repositories, error) {
	repos := &Repositories{}
	for _, c := range []struct {
		name string
		dst  *repositories.Repository
	}{
		{Users, &repos.Users},
		{Sessions, &repos.Sessions},
		{Licenses, &repos.Licenses},
	} {
		r, err := jsonfile.NewRepository(filepath.Join(dir, c.name+".json"))
		if err != nil {
			return nil, err
		}
		*c.dst = r
	}
	return repos, nil
}

// OpenSQLite opens (and migrates) dir/auth.db.
func OpenSQLite(ctx context.Context, dir string) (*Repositories, error) {
	db, err := sqlite.OpenDatabase(ctx, filepath.Join(dir, SQLiteFileName))
	if err != nil {
		return nil, err
	}
	return &Repositories{
		Users:    sqlite.NewRepository(db, Users),
		Sessions: sqlite.NewRepository(db, Sessions),
		Licenses: sqlite.NewRepository(db, Licenses),
		db:       db,
	}, nil
}

// NewInMemory returns empty map-backed collections.
func NewInMemory() *Repositories {
	return &Repositories{
		Users:    memory.NewRepository(),
		Sessions: memory.NewRepository(),
		Licenses: memory.NewRepository(),
	}
}

// Close releases the database handle, if any.
func (r *Repositories) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

// ImportJSON copies the JSON documents of dataDir into the SQLite database
// of the same directory, replacing each collection in its own transaction.
// It returns the number of records imported per collection.
func ImportJSON(ctx context.Context, dataDir string) (map[string]int, error) {
	dir, err := filex.EnsureDir(dataDir)
	if err != nil {
		return nil, err
	}
	src, err := OpenJSON(dir)
	if err != nil {
		return nil, err
	}
	dst, err := OpenSQLite(ctx, dir)
	if err != nil {
		return nil, err
	}
	defer dst.Close()

	counts := make(map[string]int, 3)
	for _, c := range []struct {
		name string
		repo repositories.Repository
	}{
		{Users, src.Users},
		{Sessions, src.Sessions},
		{Licenses, src.Licenses},
	} {
		records, err := c.repo.List(ctx)
		if err != nil {
			return counts, fmt.Errorf("read %s: %w", c.name, err)
		}
		if err := sqlite.Import(ctx, dst.db, c.name, records); err != nil {
			return counts, fmt.Errorf("import %s: %w", c.name, err)
		}
		counts[c.name] = len(records)
	}
	return counts, nil
}
