// Package storage defines the blob store contract the rest of the
// service is written against: opaque key→bytes objects with existence
// checks, full reads/writes, public URLs, and signed-URL issuance.
package storage

import (
	"context"
	"time"
)

// Backend is an object storage bucket.
type Backend interface {
	// Exists reports whether an object is present under key.
	Exists(ctx context.Context, key string) (bool, error)

	// Fetch returns the full contents of the object under key.
	// Returns an error wrapping errors.ErrNotFound if the object
	// does not exist.
	Fetch(ctx context.Context, key string) ([]byte, error)

	// Store overwrites the object under key in a single put.
	// cacheControl may be empty to keep the backend's default.
	Store(ctx context.Context, key string, data []byte, contentType, cacheControl string) error

	// PublicURL returns the stable public URL for key. The URL is
	// deterministic from the key and valid regardless of whether the
	// object has been written yet.
	PublicURL(key string) string

	// SignedURL mints a pre-authorized URL for the given HTTP method,
	// valid for ttl. Returns an error wrapping errors.ErrUnauthorized
	// if no signing identity can be resolved.
	SignedURL(ctx context.Context, key, method, contentType string, ttl time.Duration) (string, error)
}
