package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "carnet-api/internal/errors"
	"carnet-api/internal/models"
	"carnet-api/internal/storage"
	"carnet-api/internal/utils"
)

// Object keys keep the original extension only when it looks like a
// plain file extension; everything else from the user-supplied name is
// discarded.
var extPattern = regexp.MustCompile(`^\.[a-zA-Z0-9]+$`)

// UploadService turns client files into stable public media URLs.
// The preferred path is a short-lived signed URL so large files go
// directly to the blob store; StoreInline is the fallback for small
// files uploaded through the service itself.
type UploadService struct {
	blobs     storage.Backend
	signedTTL time.Duration
}

func NewUploadService(blobs storage.Backend, signedTTL time.Duration) *UploadService {
	return &UploadService{
		blobs:     blobs,
		signedTTL: signedTTL,
	}
}

// IssueSignedUpload mints a pre-authorized upload URL for the caller
// to write directly to storage. The public URL is deterministic from
// the generated key and may be referenced immediately, before the
// upload completes.
func (s *UploadService) IssueSignedUpload(ctx context.Context, filename, contentType, method string) (*models.SignedUpload, error) {
	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "" {
		method = http.MethodPut
	}
	if method != http.MethodPut && method != http.MethodPost {
		return nil, fmt.Errorf("unsupported upload method %q: %w", method, apperrors.ErrInvalidInput)
	}

	key := newObjectKey(filename)

	uploadURL, err := s.blobs.SignedURL(ctx, key, method, contentType, s.signedTTL)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnauthorized) {
			return nil, err
		}
		return nil, fmt.Errorf("issue signed upload: %w", err)
	}

	return &models.SignedUpload{
		UploadURL: uploadURL,
		PublicURL: s.blobs.PublicURL(key),
		ObjectKey: key,
		ExpiresAt: time.Now().Add(s.signedTTL),
	}, nil
}

// StoreInline reads the upload stream and writes it to a fresh object
// key, returning the object's public URL. HEIC images are converted to
// JPEG first, and EXIF metadata is surfaced as hints so the author can
// prefill the post's timestamp and coordinates.
func (s *UploadService) StoreInline(ctx context.Context, r io.Reader, filename, contentType string) (*models.UploadResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read upload stream: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty upload: %w", apperrors.ErrInvalidInput)
	}

	filename, contentType, data = utils.NormalizeHeic(filename, contentType, data)

	var hints models.MediaHints
	if strings.HasPrefix(contentType, "image/") {
		hints = utils.ExtractMediaHints(data)
	}

	key := newObjectKey(filename)
	if err := s.blobs.Store(ctx, key, data, contentType, ""); err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}

	return &models.UploadResult{
		PublicURL:   s.blobs.PublicURL(key),
		ObjectKey:   key,
		ContentType: contentType,
		Hints:       hints,
	}, nil
}

// Generates a collision-free object key, preserving only a sanitized
// lower-case extension from the user-supplied filename.
func newObjectKey(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if !extPattern.MatchString(ext) {
		ext = ""
	}
	return uuid.NewString() + ext
}
