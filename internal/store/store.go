// Package store persists the financial snapshot as a single serialized blob
// under one named slot. Absence of the slot means onboarding has not been
// completed yet.
package store

import (
	"context"
	"errors"

	"github.com/sevencollector/fintracker/internal/ledger"
)

// ErrNoSnapshot is returned by Load when the slot is empty.
var ErrNoSnapshot = errors.New("store: no snapshot saved")

// SnapshotStore loads and saves the one snapshot blob.
type SnapshotStore interface {
	Load(ctx context.Context) (*ledger.Snapshot, error)
	Save(ctx context.Context, snap *ledger.Snapshot) error
}
