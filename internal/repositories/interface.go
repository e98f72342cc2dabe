package repositories

import (
	"context"
	"errors"
)

// ErrCorrupt is wrapped by errors returned when a stored collection cannot
// be read back.
var ErrCorrupt = errors.New("corrupt collection")

// Repository is a keyed collection of encoded records.
type Repository interface {
	// Get returns the value stored under key, or (nil, nil) if there is none.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set inserts or replaces the value stored under key.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// List returns every key/value pair of the collection.
	List(ctx context.Context) (map[string][]byte, error)

	// Clear removes every record of the collection.
	Clear(ctx context.Context) error
}
