package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "carnet-api/internal/errors"
	"carnet-api/internal/models"
	"carnet-api/internal/services"
	"carnet-api/internal/storage/memory"
)

const postsKey = "db.json"

func newPostService(t *testing.T) (*services.PostService, *memory.Backend) {
	t.Helper()
	blobs := memory.New()
	return services.NewPostService(services.NewDocumentStore(blobs), postsKey), blobs
}

func mustCreate(t *testing.T, svc *services.PostService, fields services.PostFields, media []models.MediaItem) *models.Post {
	t.Helper()
	post, err := svc.Create(context.Background(), fields, media)
	require.NoError(t, err)
	return post
}

func TestCreateAndListSingle(t *testing.T) {
	svc, _ := newPostService(t)
	ctx := context.Background()

	post := mustCreate(t, svc, services.PostFields{
		City: "Paris",
		Date: "2024-05-01",
		Time: "10:00",
		Text: "Arrived",
	}, nil)
	assert.NotEmpty(t, post.ID)

	posts, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "Paris", posts[0].City)
	assert.Equal(t, "2024-05-01T10:00:00", posts[0].Datetime.Format("2006-01-02T15:04:05"))
	assert.Empty(t, posts[0].Media)
}

func TestListNewestFirst(t *testing.T) {
	svc, _ := newPostService(t)
	ctx := context.Background()

	mustCreate(t, svc, services.PostFields{City: "Paris", Date: "2024-05-01", Time: "10:00"}, nil)
	mustCreate(t, svc, services.PostFields{City: "Lyon", Date: "2024-05-02", Time: "09:00"}, nil)

	posts, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "Lyon", posts[0].City)
	assert.Equal(t, "Paris", posts[1].City)
}

func TestListTiesKeepInsertionOrder(t *testing.T) {
	svc, _ := newPostService(t)

	first := mustCreate(t, svc, services.PostFields{City: "Nice", Date: "2024-05-01", Time: "10:00"}, nil)
	second := mustCreate(t, svc, services.PostFields{City: "Cannes", Date: "2024-05-01", Time: "10:00"}, nil)

	posts, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, first.ID, posts[0].ID)
	assert.Equal(t, second.ID, posts[1].ID)
}

func TestCreateGeneratesUniqueIDs(t *testing.T) {
	svc, _ := newPostService(t)

	fields := services.PostFields{City: "Paris", Date: "2024-05-01", Time: "10:00"}
	seen := make(map[string]bool)
	for range 5 {
		post := mustCreate(t, svc, fields, nil)
		assert.False(t, seen[post.ID], "duplicate id %s", post.ID)
		seen[post.ID] = true
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newPostService(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		fields services.PostFields
	}{
		{name: "missing city", fields: services.PostFields{Date: "2024-05-01", Time: "10:00"}},
		{name: "missing date", fields: services.PostFields{City: "Paris", Time: "10:00"}},
		{name: "missing time", fields: services.PostFields{City: "Paris", Date: "2024-05-01"}},
		{name: "unparseable date", fields: services.PostFields{City: "Paris", Date: "01/05/2024", Time: "10:00"}},
		{name: "half a geo pair", fields: services.PostFields{City: "Paris", Date: "2024-05-01", Time: "10:00", Latitude: "48.85"}},
		{name: "malformed latitude", fields: services.PostFields{City: "Paris", Date: "2024-05-01", Time: "10:00", Latitude: "north", Longitude: "2.35"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.fields, nil)
			assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
		})
	}
}

func TestListNormalizesLegacyMedia(t *testing.T) {
	svc, blobs := newPostService(t)
	ctx := context.Background()

	legacy := `[{
        "id": "p1",
        "city": "Paris",
        "datetime": "2024-05-01T10:00:00",
        "text": "",
        "media": ["http://x/a.jpg", {"url": "http://x/b.jpg", "description": "lunch"}]
    }]`
	require.NoError(t, blobs.Store(ctx, postsKey, []byte(legacy), "application/json", ""))

	posts, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	require.Len(t, posts[0].Media, 2)
	assert.Equal(t, models.MediaItem{URL: "http://x/a.jpg", Description: ""}, posts[0].Media[0])
	assert.Equal(t, models.MediaItem{URL: "http://x/b.jpg", Description: "lunch"}, posts[0].Media[1])
}

func TestListAcceptsSpaceSeparatedDatetime(t *testing.T) {
	// Documents re-saved by the original service store datetimes as
	// "2024-05-01 10:00:00"; one such post must not brick the feed.
	svc, blobs := newPostService(t)
	ctx := context.Background()

	legacy := `[
        {"id": "p1", "city": "Paris", "datetime": "2024-05-01 10:00:00", "text": "", "media": []},
        {"id": "p2", "city": "Lyon", "datetime": "2024-05-02T09:00:00", "text": "", "media": []}
    ]`
	require.NoError(t, blobs.Store(ctx, postsKey, []byte(legacy), "application/json", ""))

	posts, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "Lyon", posts[0].City)
	assert.Equal(t, "2024-05-01T10:00:00", posts[1].Datetime.Format("2006-01-02T15:04:05"))
}

func TestUpdateBackfillsMissingMediaAsArray(t *testing.T) {
	svc, blobs := newPostService(t)
	ctx := context.Background()

	legacy := `[{"id": "p1", "city": "Paris", "datetime": "2024-05-01T10:00:00", "text": ""}]`
	require.NoError(t, blobs.Store(ctx, postsKey, []byte(legacy), "application/json", ""))

	updated, err := svc.Update(ctx, "p1", services.PostFields{City: "Paris", Date: "2024-05-01", Time: "10:00"}, nil, nil)
	require.NoError(t, err)
	assert.NotNil(t, updated.Media)

	obj, ok := blobs.Object(postsKey)
	require.True(t, ok)
	assert.Contains(t, string(obj.Data), `"media": []`)
	assert.NotContains(t, string(obj.Data), `"media": null`)
}

func TestUpdateRewritesLegacyMediaInObjectShape(t *testing.T) {
	svc, blobs := newPostService(t)
	ctx := context.Background()

	legacy := `[{
        "id": "p1",
        "city": "Paris",
        "datetime": "2024-05-01T10:00:00",
        "text": "",
        "media": ["http://x/a.jpg"]
    }]`
	require.NoError(t, blobs.Store(ctx, postsKey, []byte(legacy), "application/json", ""))

	_, err := svc.Update(ctx, "p1", services.PostFields{City: "Paris", Date: "2024-05-01", Time: "10:00"}, nil, nil)
	require.NoError(t, err)

	obj, ok := blobs.Object(postsKey)
	require.True(t, ok)
	assert.NotContains(t, string(obj.Data), `"http://x/a.jpg"]`)
	assert.Contains(t, string(obj.Data), `"url": "http://x/a.jpg"`)
}

func TestUpdateUnknownIDLeavesDocumentUntouched(t *testing.T) {
	svc, blobs := newPostService(t)
	ctx := context.Background()

	mustCreate(t, svc, services.PostFields{City: "Paris", Date: "2024-05-01", Time: "10:00"}, nil)
	before, _ := blobs.Object(postsKey)

	_, err := svc.Update(ctx, "missing", services.PostFields{City: "Lyon", Date: "2024-05-02", Time: "09:00"}, nil, nil)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	after, _ := blobs.Object(postsKey)
	assert.Equal(t, before.Data, after.Data)
}

func TestUpdatePatchesMediaAndGeo(t *testing.T) {
	svc, _ := newPostService(t)
	ctx := context.Background()

	post := mustCreate(t, svc, services.PostFields{
		City:      "Paris",
		Date:      "2024-05-01",
		Time:      "10:00",
		Latitude:  "48.85",
		Longitude: "2.35",
	}, []models.MediaItem{
		{URL: "http://x/a.jpg", Description: ""},
		{URL: "http://x/b.jpg", Description: "old"},
	})

	updated, err := svc.Update(ctx, post.ID,
		services.PostFields{City: "Paris", Date: "2024-05-01", Time: "10:00", Text: "Rewritten"},
		[]models.MediaItem{{URL: "http://x/c.jpg", Description: "new"}},
		map[string]string{
			"http://x/b.jpg":       "dinner",
			"http://x/unknown.jpg": "ignored",
		},
	)
	require.NoError(t, err)

	// Descriptions patched by URL, new media appended, order preserved.
	require.Len(t, updated.Media, 3)
	assert.Equal(t, "", updated.Media[0].Description)
	assert.Equal(t, "dinner", updated.Media[1].Description)
	assert.Equal(t, "http://x/c.jpg", updated.Media[2].URL)
	assert.Equal(t, "Rewritten", updated.Text)

	// The empty pair clears stored coordinates.
	assert.Nil(t, updated.Latitude)
	assert.Nil(t, updated.Longitude)
}

func TestDeleteRemovesAndIgnoresUnknown(t *testing.T) {
	svc, _ := newPostService(t)
	ctx := context.Background()

	post := mustCreate(t, svc, services.PostFields{City: "Paris", Date: "2024-05-01", Time: "10:00"}, nil)

	require.NoError(t, svc.Delete(ctx, post.ID))
	posts, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, posts)

	// Deleting again is a no-op, not an error.
	require.NoError(t, svc.Delete(ctx, post.ID))
}

func TestLocationsAscendingAndFiltered(t *testing.T) {
	svc, _ := newPostService(t)
	ctx := context.Background()

	mustCreate(t, svc, services.PostFields{
		City: "Paris", Date: "2024-05-01", Time: "10:00",
		Latitude: "48.85", Longitude: "2.35",
	}, nil)
	mustCreate(t, svc, services.PostFields{
		City: "Lyon", Date: "2024-05-02", Time: "09:00",
		Latitude: "45.76", Longitude: "4.83",
	}, nil)
	mustCreate(t, svc, services.PostFields{City: "Nowhere", Date: "2024-05-03", Time: "08:00"}, nil)

	locations, err := svc.Locations(ctx)
	require.NoError(t, err)
	require.Len(t, locations, 2)

	// Ascending: the reverse of List() for the same posts.
	assert.Equal(t, "Paris", locations[0].City)
	assert.Equal(t, 48.85, locations[0].Latitude)
	assert.Equal(t, "Lyon", locations[1].City)

	posts, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Lyon", posts[1].City)
	assert.Equal(t, "Paris", posts[2].City)
}
