package router

import (
	"net/http"

	"carnet-api/internal/handlers"
)

// Setup configures and returns the HTTP router with all application routes.
func Setup(h *handlers.Handler) http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", h.HandleHealth)

	// Feed
	mux.HandleFunc("GET /posts", h.HandleListPosts)
	mux.HandleFunc("POST /posts", h.HandleCreatePost)
	mux.HandleFunc("PUT /posts/{id}", h.HandleUpdatePost)
	mux.HandleFunc("DELETE /posts/{id}", h.HandleDeletePost)
	mux.HandleFunc("GET /locations", h.HandleLocations)

	// Notifications
	mux.HandleFunc("POST /subscribe", h.HandleSubscribe)
	mux.HandleFunc("POST /unsubscribe", h.HandleUnsubscribe)

	// Media
	mux.HandleFunc("POST /uploads/signed-url", h.HandleSignedUpload)
	mux.HandleFunc("POST /uploads", h.HandleInlineUpload)
	mux.HandleFunc("GET /geocode", h.HandleGeocode)

	return mux
}
