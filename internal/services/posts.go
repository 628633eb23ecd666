package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	apperrors "carnet-api/internal/errors"
	"carnet-api/internal/models"
	"carnet-api/internal/utils"
)

// PostFields are the scalar form inputs of the create and edit
// workflows. Date and time arrive as separate values and are combined
// into one timestamp. Latitude and longitude are free-text inputs and
// optional; supplying an empty pair on edit clears the stored pair.
type PostFields struct {
	City      string
	Date      string // "2006-01-02"
	Time      string // "15:04"
	Text      string
	Latitude  string
	Longitude string
}

// PostService owns the "posts" collection: uniqueness of ids,
// chronological presentation order, media-shape normalization, and the
// paired geo fields.
type PostService struct {
	docs *DocumentStore
	key  string
}

func NewPostService(docs *DocumentStore, objectKey string) *PostService {
	return &PostService{
		docs: docs,
		key:  objectKey,
	}
}

// List returns all posts, newest first. The sort is stable, so posts
// sharing a timestamp keep their insertion order.
func (s *PostService) List(ctx context.Context) ([]models.Post, error) {
	posts, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Datetime.After(posts[j].Datetime.Time)
	})
	return posts, nil
}

// Create assembles a new post with a fresh id, appends it to the
// collection and persists the full document.
func (s *PostService) Create(ctx context.Context, fields PostFields, media []models.MediaItem) (*models.Post, error) {
	post, err := buildPost(fields)
	if err != nil {
		return nil, err
	}
	post.ID = uuid.NewString()
	if media == nil {
		media = []models.MediaItem{}
	}
	post.Media = media

	posts, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	posts = append(posts, *post)

	if err := s.docs.Save(ctx, s.key, posts); err != nil {
		return nil, err
	}
	return post, nil
}

// Update overwrites the scalar fields of the post matching id, patches
// existing media descriptions by URL, appends new media items, and
// re-persists the whole collection. Description edits for URLs the
// post does not carry are ignored. Returns ErrNotFound, without
// writing, when no post matches.
func (s *PostService) Update(ctx context.Context, id string, fields PostFields, newMedia []models.MediaItem, descriptionEdits map[string]string) (*models.Post, error) {
	posts, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range posts {
		if posts[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, fmt.Errorf("post %q: %w", id, apperrors.ErrNotFound)
	}

	updated, err := buildPost(fields)
	if err != nil {
		return nil, err
	}

	post := &posts[idx]
	post.City = updated.City
	post.Datetime = updated.Datetime
	post.Text = updated.Text
	post.Latitude = updated.Latitude
	post.Longitude = updated.Longitude

	for i := range post.Media {
		if desc, ok := descriptionEdits[post.Media[i].URL]; ok {
			post.Media[i].Description = desc
		}
	}
	post.Media = append(post.Media, newMedia...)

	if err := s.docs.Save(ctx, s.key, posts); err != nil {
		return nil, err
	}
	return post, nil
}

// Delete removes the post matching id and persists the reduced
// collection. Deleting an absent id is a no-op, not an error.
func (s *PostService) Delete(ctx context.Context, id string) error {
	posts, err := s.load(ctx)
	if err != nil {
		return err
	}

	kept := posts[:0]
	for _, post := range posts {
		if post.ID != id {
			kept = append(kept, post)
		}
	}
	if kept == nil {
		kept = []models.Post{}
	}

	return s.docs.Save(ctx, s.key, kept)
}

// Locations returns the geo-tagged posts in ascending chronological
// order, the shape consumed to draw the travel path over time.
func (s *PostService) Locations(ctx context.Context) ([]models.Location, error) {
	posts, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	locations := make([]models.Location, 0, len(posts))
	for _, post := range posts {
		if !post.HasCoordinates() {
			continue
		}
		locations = append(locations, models.Location{
			Latitude:  *post.Latitude,
			Longitude: *post.Longitude,
			City:      post.City,
			Datetime:  post.Datetime,
		})
	}

	sort.SliceStable(locations, func(i, j int) bool {
		return locations[i].Datetime.Before(locations[j].Datetime.Time)
	})
	return locations, nil
}

func (s *PostService) load(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	if err := s.docs.Load(ctx, s.key, &posts); err != nil {
		return nil, err
	}
	// Posts stored without a media key decode to nil; give every post
	// an array so re-persisting writes "media": [] rather than null.
	for i := range posts {
		if posts[i].Media == nil {
			posts[i].Media = []models.MediaItem{}
		}
	}
	return posts, nil
}

// Validates and assembles the scalar part of a post from form fields.
// The id and media are left for the caller.
func buildPost(fields PostFields) (*models.Post, error) {
	city := strings.TrimSpace(fields.City)
	if city == "" {
		return nil, fmt.Errorf("city is required: %w", apperrors.ErrInvalidInput)
	}

	datetime, err := utils.CombineDateTime(fields.Date, fields.Time)
	if err != nil {
		return nil, err
	}

	lat, lng, err := parseCoordinatePair(fields.Latitude, fields.Longitude)
	if err != nil {
		return nil, err
	}

	return &models.Post{
		City:      city,
		Datetime:  datetime,
		Text:      fields.Text,
		Latitude:  lat,
		Longitude: lng,
	}, nil
}

// Parses the optional geo pair. Both inputs empty means no coordinates;
// anything else must be a complete, parseable pair.
func parseCoordinatePair(latitude, longitude string) (*float64, *float64, error) {
	latitude = strings.TrimSpace(latitude)
	longitude = strings.TrimSpace(longitude)

	if latitude == "" && longitude == "" {
		return nil, nil, nil
	}
	if latitude == "" || longitude == "" {
		return nil, nil, fmt.Errorf("latitude and longitude must be provided together: %w", apperrors.ErrInvalidInput)
	}

	lat, err := strconv.ParseFloat(latitude, 64)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid latitude %q: %w", latitude, apperrors.ErrInvalidInput)
	}
	lng, err := strconv.ParseFloat(longitude, 64)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid longitude %q: %w", longitude, apperrors.ErrInvalidInput)
	}

	return &lat, &lng, nil
}
