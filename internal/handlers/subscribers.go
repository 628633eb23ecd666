package handlers

import (
	"encoding/json"
	"log"
	"net/http"
)

type subscribeRequest struct {
	Email string `json:"email"`
}

// HandleSubscribe adds an email address to the notification list.
func (h *Handler) HandleSubscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.subscribers.Subscribe(r.Context(), req.Email); err != nil {
		writeError(w, "Subscribe", err)
		return
	}

	log.Printf("[Subscribe] New subscriber")
	writeJSON(w, http.StatusCreated, map[string]string{"status": "subscribed"})
}

// HandleUnsubscribe removes an email address from the notification
// list. Unsubscribing an unknown address succeeds.
func (h *Handler) HandleUnsubscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.subscribers.Unsubscribe(r.Context(), req.Email); err != nil {
		writeError(w, "Unsubscribe", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "unsubscribed"})
}
