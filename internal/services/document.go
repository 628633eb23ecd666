package services

import (
	"context"
	"encoding/json"
	"fmt"

	apperrors "carnet-api/internal/errors"
	"carnet-api/internal/storage"
)

// DocumentStore persists a whole collection as one JSON-array blob.
// Every load reads the full document and every save rewrites it; there
// is no partial-update primitive. Concurrent writers race on the final
// put and the later save wins in full (last-write-wins). That is the
// documented contract of this store, not an oversight.
type DocumentStore struct {
	blobs storage.Backend
}

func NewDocumentStore(blobs storage.Backend) *DocumentStore {
	return &DocumentStore{blobs: blobs}
}

// Load decodes the collection under key into out, which must be a
// pointer to a slice. A missing blob is an empty collection, not an
// error. A decode failure means the document is corrupt and is
// reported as a storage error; no partial recovery is attempted.
func (ds *DocumentStore) Load(ctx context.Context, key string, out any) error {
	exists, err := ds.blobs.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check document %q: %v: %w", key, err, apperrors.ErrStorage)
	}
	if !exists {
		return nil
	}

	data, err := ds.blobs.Fetch(ctx, key)
	if err != nil {
		return fmt.Errorf("fetch document %q: %v: %w", key, err, apperrors.ErrStorage)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode document %q: %v: %w", key, err, apperrors.ErrStorage)
	}
	return nil
}

// Save serializes records and overwrites the blob in a single put.
// The object is marked non-cacheable so readers always observe the
// latest write.
func (ds *DocumentStore) Save(ctx context.Context, key string, records any) error {
	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return fmt.Errorf("encode document %q: %v: %w", key, err, apperrors.ErrStorage)
	}

	if err := ds.blobs.Store(ctx, key, data, "application/json", "no-store"); err != nil {
		return fmt.Errorf("store document %q: %v: %w", key, err, apperrors.ErrStorage)
	}
	return nil
}
