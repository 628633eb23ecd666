package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Layout of the timestamps persisted in the posts document. The legacy
// documents were written without a timezone offset, so new writes keep
// the same layout to remain byte-compatible.
const localTimeLayout = "2006-01-02T15:04:05"

// LocalTime is a wall-clock timestamp in the author's local convention.
// It marshals to the legacy ISO layout without an offset.
type LocalTime struct {
	time.Time
}

// NewLocalTime wraps a time.Time as a LocalTime.
func NewLocalTime(t time.Time) LocalTime {
	return LocalTime{Time: t}
}

func (t LocalTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format(localTimeLayout))
}

func (t *LocalTime) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	// Legacy documents carry plain local timestamps; tolerate RFC 3339,
	// minute precision, and the space-separated form older documents
	// were re-saved with.
	layouts := []string{
		localTimeLayout,
		time.RFC3339,
		"2006-01-02T15:04",
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
	}

	var lastErr error
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, raw)
		if err == nil {
			t.Time = parsed
			return nil
		}
		lastErr = err
	}

	return fmt.Errorf("invalid datetime %q: %w", raw, lastErr)
}

// MediaItem is one entry of a post's media gallery. Older documents
// stored media as bare URL strings; UnmarshalJSON accepts both shapes
// and always produces the object form, so the legacy shape never leaks
// past the decode boundary and is never written back.
type MediaItem struct {
	URL         string `json:"url"`
	Description string `json:"description"`
}

func (m *MediaItem) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var url string
		if err := json.Unmarshal(data, &url); err != nil {
			return err
		}
		m.URL = url
		m.Description = ""
		return nil
	}

	// Alias type avoids recursing back into this method.
	type mediaItem MediaItem
	var item mediaItem
	if err := json.Unmarshal(data, &item); err != nil {
		return err
	}
	*m = MediaItem(item)
	return nil
}

// Post is one travel-journal entry. Latitude and longitude are optional
// but always paired: both set or both nil.
type Post struct {
	ID        string      `json:"id"`
	City      string      `json:"city"`
	Datetime  LocalTime   `json:"datetime"`
	Text      string      `json:"text"`
	Media     []MediaItem `json:"media"`
	Latitude  *float64    `json:"latitude,omitempty"`
	Longitude *float64    `json:"longitude,omitempty"`
}

// HasCoordinates reports whether the post carries a complete geo pair.
func (p *Post) HasCoordinates() bool {
	return p.Latitude != nil && p.Longitude != nil
}

// Location is one point of the geo-tagged travel path.
type Location struct {
	Latitude  float64   `json:"lat"`
	Longitude float64   `json:"lng"`
	City      string    `json:"city"`
	Datetime  LocalTime `json:"datetime"`
}
