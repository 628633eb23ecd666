package models

import "time"

// SignedUpload is the result of minting a direct-to-storage upload URL.
// PublicURL is deterministic from the object key and may be referenced
// by a post before the upload itself completes.
type SignedUpload struct {
	UploadURL string    `json:"uploadUrl"`
	PublicURL string    `json:"publicUrl"`
	ObjectKey string    `json:"objectKey"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// MediaHints are best-effort suggestions extracted from an uploaded
// file's metadata. Nil fields mean no suggestion.
type MediaHints struct {
	Latitude  *float64   `json:"latitude,omitempty"`
	Longitude *float64   `json:"longitude,omitempty"`
	TakenAt   *time.Time `json:"takenAt,omitempty"`
}

// UploadResult is the outcome of an inline (through-the-service) upload.
type UploadResult struct {
	PublicURL   string     `json:"publicUrl"`
	ObjectKey   string     `json:"objectKey"`
	ContentType string     `json:"contentType"`
	Hints       MediaHints `json:"hints,omitzero"`
}
