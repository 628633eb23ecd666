package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "carnet-api/internal/errors"
	"carnet-api/internal/services"
	"carnet-api/internal/storage/memory"
)

func newUploadService(t *testing.T) (*services.UploadService, *memory.Backend) {
	t.Helper()
	blobs := memory.New()
	return services.NewUploadService(blobs, 15*time.Minute), blobs
}

func TestIssueSignedUpload(t *testing.T) {
	svc, blobs := newUploadService(t)

	signed, err := svc.IssueSignedUpload(context.Background(), "photo.jpg", "image/jpeg", "PUT")
	require.NoError(t, err)

	// Server-generated key: base name discarded, extension kept.
	assert.True(t, strings.HasSuffix(signed.ObjectKey, ".jpg"))
	assert.NotContains(t, signed.ObjectKey, "photo")

	// Public URL is deterministic from the key and usable before the
	// upload happens.
	assert.Equal(t, blobs.PublicURL(signed.ObjectKey), signed.PublicURL)
	assert.Contains(t, signed.UploadURL, signed.ObjectKey)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), signed.ExpiresAt, 5*time.Second)
}

func TestIssueSignedUploadDefaultsToPut(t *testing.T) {
	svc, _ := newUploadService(t)

	signed, err := svc.IssueSignedUpload(context.Background(), "photo.jpg", "image/jpeg", "")
	require.NoError(t, err)
	assert.Contains(t, signed.UploadURL, "method=PUT")
}

func TestIssueSignedUploadRejectsMethod(t *testing.T) {
	svc, _ := newUploadService(t)

	_, err := svc.IssueSignedUpload(context.Background(), "photo.jpg", "image/jpeg", "DELETE")
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}

func TestStoreInline(t *testing.T) {
	svc, blobs := newUploadService(t)

	result, err := svc.StoreInline(context.Background(), strings.NewReader("fake-bytes"), "trip/../../etc/passwd.PNG", "image/png")
	require.NoError(t, err)

	// Hostile filename reduced to uuid + sanitized extension.
	assert.True(t, strings.HasSuffix(result.ObjectKey, ".png"))
	assert.NotContains(t, result.ObjectKey, "..")
	assert.NotContains(t, result.ObjectKey, "/")

	obj, ok := blobs.Object(result.ObjectKey)
	require.True(t, ok)
	assert.Equal(t, []byte("fake-bytes"), obj.Data)
	assert.Equal(t, "image/png", obj.ContentType)
	assert.Equal(t, blobs.PublicURL(result.ObjectKey), result.PublicURL)
}

func TestStoreInlineKeysAreUnique(t *testing.T) {
	svc, _ := newUploadService(t)
	ctx := context.Background()

	first, err := svc.StoreInline(ctx, strings.NewReader("a"), "same.jpg", "image/jpeg")
	require.NoError(t, err)
	second, err := svc.StoreInline(ctx, strings.NewReader("a"), "same.jpg", "image/jpeg")
	require.NoError(t, err)

	assert.NotEqual(t, first.ObjectKey, second.ObjectKey)
}

func TestStoreInlineRejectsEmpty(t *testing.T) {
	svc, _ := newUploadService(t)

	_, err := svc.StoreInline(context.Background(), strings.NewReader(""), "empty.jpg", "image/jpeg")
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}

func TestStoreInlineExtensionlessName(t *testing.T) {
	svc, _ := newUploadService(t)

	result, err := svc.StoreInline(context.Background(), strings.NewReader("x"), "noext", "application/octet-stream")
	require.NoError(t, err)
	assert.NotContains(t, result.ObjectKey, ".")
}
