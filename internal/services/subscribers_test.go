package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "carnet-api/internal/errors"
	"carnet-api/internal/services"
	"carnet-api/internal/storage/memory"
)

const subscribersKey = "subscribers.json"

func newSubscriberService(t *testing.T) (*services.SubscriberService, *memory.Backend) {
	t.Helper()
	blobs := memory.New()
	return services.NewSubscriberService(services.NewDocumentStore(blobs), subscribersKey), blobs
}

func TestSubscribeNormalizes(t *testing.T) {
	svc, _ := newSubscriberService(t)
	ctx := context.Background()

	require.NoError(t, svc.Subscribe(ctx, "  Alice@Example.COM "))

	subscribers, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice@example.com"}, subscribers)
}

func TestSubscribeCaseInsensitiveDuplicate(t *testing.T) {
	svc, _ := newSubscriberService(t)
	ctx := context.Background()

	require.NoError(t, svc.Subscribe(ctx, "A@B.com"))

	err := svc.Subscribe(ctx, "a@b.com")
	assert.True(t, errors.Is(err, apperrors.ErrAlreadyExists))
}

func TestSubscribeValidation(t *testing.T) {
	svc, _ := newSubscriberService(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		email string
	}{
		{name: "empty", email: ""},
		{name: "whitespace only", email: "   "},
		{name: "no at sign", email: "alice.example.com"},
		{name: "at sign first", email: "@example.com"},
		{name: "no dot after at", email: "alice@example"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Subscribe(ctx, tt.email)
			assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
		})
	}
}

func TestUnsubscribe(t *testing.T) {
	svc, _ := newSubscriberService(t)
	ctx := context.Background()

	require.NoError(t, svc.Subscribe(ctx, "a@b.com"))
	require.NoError(t, svc.Subscribe(ctx, "c@d.com"))

	require.NoError(t, svc.Unsubscribe(ctx, "A@B.com"))

	subscribers, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"c@d.com"}, subscribers)
}

func TestUnsubscribeAbsentIsNoOp(t *testing.T) {
	svc, blobs := newSubscriberService(t)
	ctx := context.Background()

	require.NoError(t, svc.Subscribe(ctx, "a@b.com"))
	before, _ := blobs.Object(subscribersKey)

	require.NoError(t, svc.Unsubscribe(ctx, "ghost@b.com"))

	after, _ := blobs.Object(subscribersKey)
	assert.Equal(t, before.Data, after.Data)
}
