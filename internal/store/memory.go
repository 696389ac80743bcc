package store

import (
	"context"
	"sync"

	"github.com/sevencollector/fintracker/internal/ledger"
)

// MemoryStore keeps the serialized snapshot in memory. Data is lost on
// restart; it exists for tests and throwaway runs.
type MemoryStore struct {
	mu   sync.RWMutex
	data []byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load decodes the held blob, or returns ErrNoSnapshot when nothing has been
// saved yet. Storing the serialized form rather than the struct keeps the
// copy semantics of the real backends: callers never share state through the
// store.
func (m *MemoryStore) Load(ctx context.Context) (*ledger.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.data == nil {
		return nil, ErrNoSnapshot
	}
	return ledger.Decode(m.data)
}

// Save encodes and holds the snapshot.
func (m *MemoryStore) Save(ctx context.Context, snap *ledger.Snapshot) error {
	data, err := snap.Encode()
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.data = data
	m.mu.Unlock()
	return nil
}

var _ SnapshotStore = (*MemoryStore)(nil)
