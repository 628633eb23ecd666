package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"carnet-api/internal/models"
	"carnet-api/internal/services"
	"carnet-api/internal/utils"
)

// Request body shared by the create and edit workflows. Date and time
// arrive as the two separate form inputs the journal has always used.
type postRequest struct {
	City              string             `json:"city"`
	Date              string             `json:"date"`
	Time              string             `json:"time"`
	Text              string             `json:"text"`
	Latitude          string             `json:"latitude"`
	Longitude         string             `json:"longitude"`
	Media             []models.MediaItem `json:"media"`
	MediaDescriptions map[string]string  `json:"media_descriptions"`
}

func (r postRequest) fields() services.PostFields {
	return services.PostFields{
		City:      r.City,
		Date:      r.Date,
		Time:      r.Time,
		Text:      r.Text,
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
	}
}

// View shape for list responses: the post plus the derived French
// display label, which is never persisted.
type postView struct {
	models.Post
	DisplayDatetime string `json:"display_datetime"`
}

func newPostView(post models.Post) postView {
	return postView{
		Post:            post,
		DisplayDatetime: utils.FormatDatetimeFR(post.Datetime.Time),
	}
}

// HandleListPosts returns every post, newest first.
func (h *Handler) HandleListPosts(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	posts, err := h.posts.List(r.Context())
	if err != nil {
		writeError(w, "Posts", err)
		return
	}

	views := make([]postView, 0, len(posts))
	for _, post := range posts {
		views = append(views, newPostView(post))
	}

	log.Printf("[Posts] Served %d posts in %v", len(views), time.Since(start))
	writeJSON(w, http.StatusOK, views)
}

// HandleCreatePost creates a post and dispatches subscriber
// notifications. The response does not wait on fan-out.
func (h *Handler) HandleCreatePost(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	post, err := h.posts.Create(r.Context(), req.fields(), req.Media)
	if err != nil {
		writeError(w, "Posts", err)
		return
	}

	h.notify.Dispatch(post)

	log.Printf("[Posts] Created post %s (%s)", post.ID, post.City)
	writeJSON(w, http.StatusCreated, newPostView(*post))
}

// HandleUpdatePost overwrites an existing post's fields, patches media
// descriptions and appends new media.
func (h *Handler) HandleUpdatePost(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req postRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	post, err := h.posts.Update(r.Context(), id, req.fields(), req.Media, req.MediaDescriptions)
	if err != nil {
		writeError(w, "Posts", err)
		return
	}

	log.Printf("[Posts] Updated post %s", post.ID)
	writeJSON(w, http.StatusOK, newPostView(*post))
}

// HandleDeletePost removes a post. Deleting an unknown id still
// returns 204; the operation is a documented no-op in that case.
func (h *Handler) HandleDeletePost(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.posts.Delete(r.Context(), id); err != nil {
		writeError(w, "Posts", err)
		return
	}

	log.Printf("[Posts] Deleted post %s", id)
	w.WriteHeader(http.StatusNoContent)
}

// HandleLocations returns the geo-tagged posts in ascending
// chronological order for drawing the travel path.
func (h *Handler) HandleLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := h.posts.Locations(r.Context())
	if err != nil {
		writeError(w, "Locations", err)
		return
	}

	writeJSON(w, http.StatusOK, locations)
}
