// Package store persists player records.
//
// Every backend stores the same JSON document produced by engine/save, so
// records move between backends unchanged.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/nathoo/drgrpg/types"
)

var (
	// ErrNotFound is returned when no record exists for a player id.
	ErrNotFound = errors.New("store: player not found")
	// ErrExists is returned by Create when the id is already taken.
	ErrExists = errors.New("store: player already exists")
)

// Store is the persistence contract shared by every backend.
type Store interface {
	Load(ctx context.Context, id int) (types.PlayerRecord, error)
	Save(ctx context.Context, rec types.PlayerRecord) error
	Create(ctx context.Context, rec types.PlayerRecord) error
	Close() error
}

// Open returns the backend named by driver. path is ignored by "memory".
func Open(driver, path string) (Store, error) {
	switch driver {
	case "", "memory":
		return NewMemory(), nil
	case "file":
		return NewFile(path)
	case "sqlite":
		return NewSQLite(path)
	}
	return nil, fmt.Errorf("store: unknown driver %q", driver)
}
