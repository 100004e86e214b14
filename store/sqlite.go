package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/nathoo/drgrpg/engine/save"
	"github.com/nathoo/drgrpg/types"
)

const schema = `
CREATE TABLE IF NOT EXISTS players (
	id          INTEGER PRIMARY KEY,
	name        TEXT NOT NULL,
	last_access INTEGER NOT NULL DEFAULT 0,
	record      TEXT NOT NULL
)`

// SQLite keeps records in a players table. The name and last_access
// columns mirror the record for querying; the record column is canonical.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the database at path. Use ":memory:" for a
// throwaway database.
func NewSQLite(path string) (*SQLite, error) {
	if path == "" {
		return nil, errors.New("store: sqlite driver needs a path")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: opening %s: %w", path, err)
	}
	// One connection keeps ":memory:" databases alive and serializes writes.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: opening %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: creating schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Load(ctx context.Context, id int) (types.PlayerRecord, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT record FROM players WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return types.PlayerRecord{}, ErrNotFound
	}
	if err != nil {
		return types.PlayerRecord{}, fmt.Errorf("store: loading player %d: %w", id, err)
	}
	rec, err := save.Load([]byte(data))
	if err != nil {
		return types.PlayerRecord{}, fmt.Errorf("store: decoding player %d: %w", id, err)
	}
	return rec, nil
}

func (s *SQLite) Save(ctx context.Context, rec types.PlayerRecord) error {
	data, err := save.Save(rec)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO players (id, name, last_access, record) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, last_access = excluded.last_access, record = excluded.record`,
		rec.ID, rec.Name, rec.LastAccess, string(data))
	if err != nil {
		return fmt.Errorf("store: saving player %d: %w", rec.ID, err)
	}
	return nil
}

func (s *SQLite) Create(ctx context.Context, rec types.PlayerRecord) error {
	data, err := save.Save(rec)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO players (id, name, last_access, record) VALUES (?, ?, ?, ?)`,
		rec.ID, rec.Name, rec.LastAccess, string(data))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") || strings.Contains(err.Error(), "PRIMARY KEY") {
			return ErrExists
		}
		return fmt.Errorf("store: creating player %d: %w", rec.ID, err)
	}
	return nil
}

func (s *SQLite) Close() error { return s.db.Close() }
