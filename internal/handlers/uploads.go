package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"
)

// Inline uploads are read fully into memory; anything larger should go
// through the signed-URL path.
const maxInlineUploadBytes = 32 << 20

type signedUploadRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Method      string `json:"method"`
}

// HandleSignedUpload mints a short-lived direct-to-storage upload URL
// so large media bypasses the service's own request limits.
func (h *Handler) HandleSignedUpload(w http.ResponseWriter, r *http.Request) {
	var req signedUploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	signed, err := h.uploads.IssueSignedUpload(r.Context(), req.Filename, req.ContentType, req.Method)
	if err != nil {
		writeError(w, "Upload", err)
		return
	}

	log.Printf("[Upload] Issued signed URL for %s (expires %s)", signed.ObjectKey, signed.ExpiresAt.Format(time.RFC3339))
	writeJSON(w, http.StatusOK, signed)
}

// HandleInlineUpload is the fallback for small files: the service reads
// the multipart stream and stores it itself, returning the public URL
// plus any EXIF-derived suggestions.
func (h *Handler) HandleInlineUpload(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if err := r.ParseMultipartForm(maxInlineUploadBytes); err != nil {
		http.Error(w, "Invalid multipart body", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("media")
	if err != nil {
		http.Error(w, "Missing media file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	result, err := h.uploads.StoreInline(r.Context(), file, header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		writeError(w, "Upload", err)
		return
	}

	log.Printf("[Upload] Stored %s (%d bytes) in %v", result.ObjectKey, header.Size, time.Since(start))
	writeJSON(w, http.StatusCreated, result)
}
