package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// GeocodingService suggests a city label for a coordinate pair using
// the OpenStreetMap Nominatim API. Results are cached in memory and
// requests are rate limited to Nominatim's 1 request/sec policy. It
// only serves the author's edit form; the write path never depends
// on it.
type GeocodingService struct {
	cache      map[string]string
	cacheMutex sync.RWMutex
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Models the subset of Nominatim's response we care about
// (city/town/village + country).
type nominatimResponse struct {
	Address struct {
		City    string `json:"city"`
		Town    string `json:"town"`
		Village string `json:"village"`
		Country string `json:"country"`
	} `json:"address"`
}

func NewGeocodingService() *GeocodingService {
	return &GeocodingService{
		cache:      make(map[string]string),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(1), 1),
	}
}

// ReverseGeocode resolves a coordinate pair to "City, Country". Checks
// the cache, waits on the rate limiter, then queries Nominatim.
func (g *GeocodingService) ReverseGeocode(ctx context.Context, lat, lng float64) (string, error) {
	// Key rounded to avoid cache fragmentation from jittery inputs.
	key := fmt.Sprintf("%.4f,%.4f", lat, lng)

	g.cacheMutex.RLock()
	cached := g.cache[key]
	g.cacheMutex.RUnlock()
	if cached != "" {
		return cached, nil
	}

	if err := g.limiter.Wait(ctx); err != nil {
		return "", err
	}

	result, err := g.fetchLocation(ctx, lat, lng)
	if err != nil {
		return "", err
	}

	g.cacheMutex.Lock()
	g.cache[key] = result
	g.cacheMutex.Unlock()

	return result, nil
}

// Performs the actual HTTP request and extracts the place label.
func (g *GeocodingService) fetchLocation(ctx context.Context, lat, lng float64) (string, error) {
	endpoint := fmt.Sprintf(
		"https://nominatim.openstreetmap.org/reverse?lat=%s&lon=%s&format=json&zoom=10",
		url.QueryEscape(fmt.Sprintf("%f", lat)),
		url.QueryEscape(fmt.Sprintf("%f", lng)),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	// Nominatim requires an identifying User-Agent.
	req.Header.Set("User-Agent", "carnet-api/1.0")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("nominatim request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("nominatim returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var parsed nominatimResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("parse nominatim response: %w", err)
	}

	place := parsed.Address.City
	if place == "" {
		place = parsed.Address.Town
	}
	if place == "" {
		place = parsed.Address.Village
	}

	switch {
	case place != "" && parsed.Address.Country != "":
		return fmt.Sprintf("%s, %s", place, parsed.Address.Country), nil
	case place != "":
		return place, nil
	case parsed.Address.Country != "":
		return parsed.Address.Country, nil
	default:
		return "", fmt.Errorf("no location found for %.4f,%.4f", lat, lng)
	}
}
