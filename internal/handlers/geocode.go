package handlers

import (
	"log"
	"net/http"
	"strconv"
	"strings"
)

// HandleGeocode suggests a city label for a coordinate pair, letting
// the author prefill the city field from a photo's GPS data.
func (h *Handler) HandleGeocode(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	lat, err := strconv.ParseFloat(strings.TrimSpace(query.Get("lat")), 64)
	if err != nil {
		http.Error(w, "Invalid lat parameter", http.StatusBadRequest)
		return
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(query.Get("lng")), 64)
	if err != nil {
		http.Error(w, "Invalid lng parameter", http.StatusBadRequest)
		return
	}

	location, err := h.geocoder.ReverseGeocode(r.Context(), lat, lng)
	if err != nil {
		log.Printf("[Geocode] Lookup failed for %.4f,%.4f: %v", lat, lng, err)
		http.Error(w, "Geocoding failed", http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"location": location})
}
