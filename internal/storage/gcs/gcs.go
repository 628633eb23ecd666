package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"cloud.google.com/go/storage"

	apperrors "carnet-api/internal/errors"
)

// Backend stores objects in a single Google Cloud Storage bucket.
type Backend struct {
	client *storage.Client
	bucket string
}

func New(client *storage.Client, bucket string) *Backend {
	return &Backend{
		client: client,
		bucket: bucket,
	}
}

// Exists reports whether an object is present in the bucket.
func (b *Backend) Exists(ctx context.Context, key string) (bool, error) {
	_, err := b.client.Bucket(b.bucket).Object(key).Attrs(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat object %q: %w", key, err)
	}
	return true, nil
}

// Fetch reads the full object contents.
func (b *Backend) Fetch(ctx context.Context, key string) ([]byte, error) {
	reader, err := b.client.Bucket(b.bucket).Object(key).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, fmt.Errorf("object %q: %w", key, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("open object %q: %w", key, err)
	}
	defer reader.Close()

	return io.ReadAll(reader)
}

// Store overwrites the object in a single blob-level put.
func (b *Backend) Store(ctx context.Context, key string, data []byte, contentType, cacheControl string) error {
	w := b.client.Bucket(b.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = cacheControl

	if _, err := w.Write(data); err != nil {
		w.Close()
		return fmt.Errorf("write object %q: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalize object %q: %w", key, err)
	}
	return nil
}

// PublicURL returns the canonical storage.googleapis.com URL for key.
func (b *Backend) PublicURL(key string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", b.bucket, url.PathEscape(key))
}

// SignedURL mints a V4 signed URL using the client's ambient credentials.
func (b *Backend) SignedURL(ctx context.Context, key, method, contentType string, ttl time.Duration) (string, error) {
	opts := &storage.SignedURLOptions{
		Scheme:      storage.SigningSchemeV4,
		Method:      method,
		Expires:     time.Now().Add(ttl),
		ContentType: contentType,
	}

	signed, err := b.client.Bucket(b.bucket).SignedURL(key, opts)
	if err != nil {
		// The storage client reports a missing signer by failing to
		// detect a GoogleAccessID from the ambient credentials.
		if strings.Contains(err.Error(), "GoogleAccessID") {
			return "", fmt.Errorf("resolve signing identity: %v: %w", err, apperrors.ErrUnauthorized)
		}
		return "", fmt.Errorf("sign url for %q: %w", key, err)
	}
	return signed, nil
}
