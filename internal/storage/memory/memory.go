// Package memory is a map-backed storage.Backend used by tests and
// local development. URLs are deterministic so assertions can predict
// them from the object key alone.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	apperrors "carnet-api/internal/errors"
)

// Object is one stored blob together with the metadata recorded on put.
type Object struct {
	Data         []byte
	ContentType  string
	CacheControl string
}

type Backend struct {
	mu      sync.RWMutex
	objects map[string]Object
	baseURL string
}

func New() *Backend {
	return &Backend{
		objects: make(map[string]Object),
		baseURL: "https://blobs.invalid",
	}
}

func (b *Backend) Exists(ctx context.Context, key string) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	_, ok := b.objects[key]
	return ok, nil
}

func (b *Backend) Fetch(ctx context.Context, key string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	obj, ok := b.objects[key]
	if !ok {
		return nil, fmt.Errorf("object %q: %w", key, apperrors.ErrNotFound)
	}

	data := make([]byte, len(obj.Data))
	copy(data, obj.Data)
	return data, nil
}

func (b *Backend) Store(ctx context.Context, key string, data []byte, contentType, cacheControl string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	stored := make([]byte, len(data))
	copy(stored, data)

	b.objects[key] = Object{
		Data:         stored,
		ContentType:  contentType,
		CacheControl: cacheControl,
	}
	return nil
}

func (b *Backend) PublicURL(key string) string {
	return fmt.Sprintf("%s/%s", b.baseURL, key)
}

func (b *Backend) SignedURL(ctx context.Context, key, method, contentType string, ttl time.Duration) (string, error) {
	return fmt.Sprintf("%s/%s?signature=test&method=%s", b.baseURL, key, method), nil
}

// Object returns the stored blob and its metadata for assertions.
func (b *Backend) Object(key string) (Object, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	obj, ok := b.objects[key]
	return obj, ok
}
