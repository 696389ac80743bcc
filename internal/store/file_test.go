package store

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/sevencollector/fintracker/internal/ledger"
)

func sampleSnapshot() *ledger.Snapshot {
	return &ledger.Snapshot{
		Name:    "Asha",
		Balance: 900,
		Income:  1000,
		Expense: 100,
		Categories: []ledger.Category{
			{Name: "Food", Limit: 200, Used: 100},
		},
		Goals:   []ledger.Goal{{Name: "Vacation", Total: 2000}},
		TaxRate: 0.2,
	}
}

func TestFileStore_LoadMissing(t *testing.T) {
	fs := NewFileStore(filepath.Join(t.TempDir(), "snapshot.json"))

	_, err := fs.Load(context.Background())
	if !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("Load on empty slot: err = %v, want ErrNoSnapshot", err)
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	fs := NewFileStore(filepath.Join(t.TempDir(), "data", "snapshot.json"))
	ctx := context.Background()
	want := sampleSnapshot()

	if err := fs.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := fs.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestFileStore_SaveOverwrites(t *testing.T) {
	fs := NewFileStore(filepath.Join(t.TempDir(), "snapshot.json"))
	ctx := context.Background()

	first := sampleSnapshot()
	if err := fs.Save(ctx, first); err != nil {
		t.Fatalf("Save: %v", err)
	}

	second := sampleSnapshot()
	second.Income = 2000
	if err := fs.Save(ctx, second); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	got, err := fs.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Income != 2000 {
		t.Errorf("income = %v, want 2000", got.Income)
	}
}

func TestMemoryStore(t *testing.T) {
	ms := NewMemoryStore()
	ctx := context.Background()

	if _, err := ms.Load(ctx); !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("Load on empty store: err = %v, want ErrNoSnapshot", err)
	}

	want := sampleSnapshot()
	if err := ms.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := ms.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch")
	}

	// Loads must not share state with the caller.
	got.Income = 0
	again, _ := ms.Load(ctx)
	if again.Income != want.Income {
		t.Errorf("store leaked shared state between loads")
	}
}
