package store

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"

	"github.com/sevencollector/fintracker/internal/ledger"
)

// GCSStore keeps the snapshot as one JSON object in a Google Cloud Storage
// bucket. It assumes Application Default Credentials are configured.
type GCSStore struct {
	bucket string
	object string
}

// NewGCSStore creates a store backed by gs://bucket/object.
func NewGCSStore(bucket, object string) *GCSStore {
	return &GCSStore{bucket: bucket, object: object}
}

// Load downloads and decodes the snapshot object. A missing object maps to
// ErrNoSnapshot.
func (g *GCSStore) Load(ctx context.Context) (*ledger.Snapshot, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	defer client.Close()

	rc, err := client.Bucket(g.bucket).Object(g.object).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("open gs://%s/%s: %w", g.bucket, g.object, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read gs://%s/%s: %w", g.bucket, g.object, err)
	}

	snap, err := ledger.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode gs://%s/%s: %w", g.bucket, g.object, err)
	}
	return snap, nil
}

// Save encodes the snapshot and overwrites the object.
func (g *GCSStore) Save(ctx context.Context, snap *ledger.Snapshot) error {
	data, err := snap.Encode()
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("create storage client: %w", err)
	}
	defer client.Close()

	w := client.Bucket(g.bucket).Object(g.object).NewWriter(ctx)
	w.ContentType = "application/json"

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("write gs://%s/%s: %w", g.bucket, g.object, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalize gs://%s/%s: %w", g.bucket, g.object, err)
	}
	return nil
}

var _ SnapshotStore = (*GCSStore)(nil)
