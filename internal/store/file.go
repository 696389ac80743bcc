package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sevencollector/fintracker/internal/ledger"
)

// FileStore keeps the snapshot in a single JSON file on local disk. It is the
// default backend for the CLI and for development without cloud credentials.
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by the given file path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads and decodes the snapshot file. A missing file maps to
// ErrNoSnapshot.
func (f *FileStore) Load(ctx context.Context) (*ledger.Snapshot, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot %q: %w", f.path, err)
	}

	snap, err := ledger.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode snapshot %q: %w", f.path, err)
	}
	return snap, nil
}

// Save encodes the snapshot and writes it over the slot. The write goes
// through a temp file and rename so a crash mid-save cannot leave a truncated
// blob behind.
func (f *FileStore) Save(ctx context.Context, snap *ledger.Snapshot) error {
	data, err := snap.Encode()
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create snapshot dir: %w", err)
		}
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot %q: %w", tmp, err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace snapshot %q: %w", f.path, err)
	}
	return nil
}

var _ SnapshotStore = (*FileStore)(nil)
