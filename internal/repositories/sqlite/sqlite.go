// Package sqlite stores collections as rows of the records table of an
// embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/nullsec/nkauth/internal/dbx"
)

type Repository struct {
	db         dbx.DBTX
	collection string
}

// NewRepository returns the collection view over db. db may be a *sql.DB or a
// *sql.Tx.
func NewRepository(db dbx.DBTX, collection string) *Repository {
	return &Repository{db: db, collection: collection}
}

func (r *Repository) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM records WHERE collection = ? AND key = ?`, r.collection, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s[%s]: %w", r.collection, key, err)
	}
	return value, nil
}

func (r *Repository) Set(ctx context.Context, key string, value []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO records (collection, key, value, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(collection, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, r.collection, key, value)
	if err != nil {
		return fmt.Errorf("failed to set %s[%s]: %w", r.collection, key, err)
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM records WHERE collection = ? AND key = ?`, r.collection, key)
	if err != nil {
		return fmt.Errorf("failed to delete %s[%s]: %w", r.collection, key, err)
	}
	return nil
}

func (r *Repository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM records WHERE collection = ?`, r.collection)
	if err != nil {
		return fmt.Errorf("failed to clear %s: %w", r.collection, err)
	}
	return nil
}

func (r *Repository) List(ctx context.Context) (map[string][]byte, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT key, value FROM records WHERE collection = ?`, r.collection)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", r.collection, err)
	}
	defer rows.Close()

	result := make(map[string][]byte)
	for rows.Next() {
		var key string
		var value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", r.collection, err)
		}
		result[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s rows: %w", r.collection, err)
	}
	return result, nil
}

// Import replaces the whole collection with records in one transaction.
func Import(ctx context.Context, db *sql.DB, collection string, records map[string][]byte) error {
	return dbx.WithTx(ctx, db, func(ctx context.Context, tx dbx.DBTX) error {
		repo := NewRepository(tx, collection)
		if err := repo.Clear(ctx); err != nil {
			return err
		}
		for k, v := range records {
			if err := repo.Set(ctx, k, v); err != nil {
				return err
			}
		}
		return nil
	})
}
