package store

import (
	"context"
	"sync"

	"github.com/nathoo/drgrpg/engine/save"
	"github.com/nathoo/drgrpg/types"
)

// Memory keeps encoded records in a map. Records are stored encoded so
// callers never share maps with the store.
type Memory struct {
	mu      sync.Mutex
	records map[int][]byte
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{records: map[int][]byte{}}
}

func (m *Memory) Load(_ context.Context, id int) (types.PlayerRecord, error) {
	m.mu.Lock()
	data, ok := m.records[id]
	m.mu.Unlock()
	if !ok {
		return types.PlayerRecord{}, ErrNotFound
	}
	return save.Load(data)
}

func (m *Memory) Save(_ context.Context, rec types.PlayerRecord) error {
	data, err := save.Save(rec)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.records[rec.ID] = data
	m.mu.Unlock()
	return nil
}

func (m *Memory) Create(ctx context.Context, rec types.PlayerRecord) error {
	m.mu.Lock()
	_, taken := m.records[rec.ID]
	m.mu.Unlock()
	if taken {
		return ErrExists
	}
	return m.Save(ctx, rec)
}

func (m *Memory) Close() error { return nil }
