package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/nathoo/drgrpg/engine/save"
	"github.com/nathoo/drgrpg/types"
)

// File keeps one JSON document per player in a directory.
type File struct {
	dir string
}

// NewFile returns a store rooted at dir, creating it if needed.
func NewFile(dir string) (*File, error) {
	if dir == "" {
		return nil, errors.New("store: file driver needs a directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: creating %s: %w", dir, err)
	}
	return &File{dir: dir}, nil
}

func (f *File) path(id int) string {
	return filepath.Join(f.dir, strconv.Itoa(id)+".json")
}

func (f *File) Load(_ context.Context, id int) (types.PlayerRecord, error) {
	data, err := os.ReadFile(f.path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return types.PlayerRecord{}, ErrNotFound
	}
	if err != nil {
		return types.PlayerRecord{}, fmt.Errorf("store: reading player %d: %w", id, err)
	}
	rec, err := save.Load(data)
	if err != nil {
		return types.PlayerRecord{}, fmt.Errorf("store: decoding player %d: %w", id, err)
	}
	return rec, nil
}

// Save writes through a temp file so a crash never leaves half a record.
func (f *File) Save(_ context.Context, rec types.PlayerRecord) error {
	data, err := save.Save(rec)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(f.dir, ".player-*")
	if err != nil {
		return fmt.Errorf("store: saving player %d: %w", rec.ID, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("store: saving player %d: %w", rec.ID, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("store: saving player %d: %w", rec.ID, err)
	}
	return os.Rename(tmp.Name(), f.path(rec.ID))
}

func (f *File) Create(ctx context.Context, rec types.PlayerRecord) error {
	if _, err := os.Stat(f.path(rec.ID)); err == nil {
		return ErrExists
	}
	return f.Save(ctx, rec)
}

func (f *File) Close() error { return nil }
