package subscription

import (
	"testing"

	"anoa.com/vidspace/internal/entity"
	"anoa.com/vidspace/internal/storage/memory"
	"anoa.com/vidspace/pkg/apperror"
	"anoa.com/vidspace/pkg/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestSubscribeRoundTrip(t *testing.T) {
	store := memory.New()
	svc := NewSubscriptionService(store, metrics.Default())
	ctx := t.Context()

	fan := &entity.User{Username: ptr("fan"), Email: ptr("fan@example.com")}
	star := &entity.User{Username: ptr("star"), Email: ptr("star@example.com")}
	require.NoError(t, store.CreateUser(ctx, fan))
	require.NoError(t, store.CreateUser(ctx, star))
	ch := &entity.Channel{UserID: star.ID, Name: "Star", Username: "star"}
	require.NoError(t, store.CreateChannel(ctx, ch))

	_, err := svc.Subscribe(ctx, fan.ID, "missing")
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	first, err := svc.Subscribe(ctx, fan.ID, ch.ID)
	require.NoError(t, err)
	again, err := svc.Subscribe(ctx, fan.ID, ch.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	ok, err := svc.IsSubscribed(ctx, fan.ID, ch.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	channels, err := svc.GetSubscriptions(ctx, fan.ID)
	require.NoError(t, err)
	require.Len(t, channels, 1)
	assert.EqualValues(t, 1, channels[0].Subscribers)

	require.NoError(t, svc.Unsubscribe(ctx, fan.ID, ch.ID))
	require.NoError(t, svc.Unsubscribe(ctx, fan.ID, ch.ID))

	ok, err = svc.IsSubscribed(ctx, fan.ID, ch.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := store.GetChannel(ctx, ch.ID)
	require.NoError(t, err)
	assert.Zero(t, got.Subscribers)
}
