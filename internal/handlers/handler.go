package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	apperrors "carnet-api/internal/errors"
	"carnet-api/internal/services"
)

type Handler struct {
	posts       *services.PostService
	subscribers *services.SubscriberService
	uploads     *services.UploadService
	notify      *services.NotificationService
	geocoder    *services.GeocodingService
}

func New(
	posts *services.PostService,
	subscribers *services.SubscriberService,
	uploads *services.UploadService,
	notify *services.NotificationService,
	geocoder *services.GeocodingService,
) *Handler {
	return &Handler{
		posts:       posts,
		subscribers: subscribers,
		uploads:     uploads,
		notify:      notify,
		geocoder:    geocoder,
	}
}

// Serializes v as the JSON response body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[HTTP] Failed to encode response: %v", err)
	}
}

// Maps application errors onto HTTP status codes. Unclassified errors
// (including storage failures) surface as 500.
func writeError(w http.ResponseWriter, component string, err error) {
	log.Printf("[%s] Request failed: %v", component, err)

	switch {
	case errors.Is(err, apperrors.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, apperrors.ErrNotFound):
		http.Error(w, "Not found", http.StatusNotFound)
	case errors.Is(err, apperrors.ErrAlreadyExists):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, apperrors.ErrUnauthorized):
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
