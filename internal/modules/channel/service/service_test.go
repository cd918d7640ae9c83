package channel

import (
	"testing"

	"anoa.com/vidspace/internal/entity"
	"anoa.com/vidspace/internal/modules/channel/dto"
	"anoa.com/vidspace/internal/storage/memory"
	"anoa.com/vidspace/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func newUser(t *testing.T, store *memory.Store, name string) *entity.User {
	t.Helper()
	u := &entity.User{Username: ptr(name), Email: ptr(name + "@example.com")}
	require.NoError(t, store.CreateUser(t.Context(), u))
	return u
}

func TestNormalizeHandle(t *testing.T) {
	assert.Equal(t, "gaminghub", NormalizeHandle("@GamingHub"))
	assert.Equal(t, "gaminghub", NormalizeHandle(" gaminghub "))
}

func TestCreateChannel_OnePerUser(t *testing.T) {
	store := memory.New()
	svc := NewChannelService(store)
	ctx := t.Context()
	u1 := newUser(t, store, "u1")

	ch, err := svc.CreateChannel(ctx, u1.ID, dto.CreateChannelRequest{Name: "Gaming Hub", Username: "@gaminghub"})
	require.NoError(t, err)
	assert.Equal(t, "gaminghub", ch.Username)
	assert.False(t, ch.Verified)
	assert.Zero(t, ch.Subscribers)

	_, err = svc.CreateChannel(ctx, u1.ID, dto.CreateChannelRequest{Name: "Second", Username: "second"})
	require.ErrorIs(t, err, apperror.ErrBadRequest)
	assert.Contains(t, err.Error(), "already has a channel")

	u2 := newUser(t, store, "u2")
	_, err = svc.CreateChannel(ctx, u2.ID, dto.CreateChannelRequest{Name: "Copy", Username: "GamingHub"})
	require.ErrorIs(t, err, apperror.ErrBadRequest)
	assert.Contains(t, err.Error(), "already taken")

	_, err = svc.CreateChannel(ctx, u2.ID, dto.CreateChannelRequest{Name: "Bad", Username: "no spaces"})
	assert.ErrorIs(t, err, apperror.ErrBadRequest)
}

func TestLookups(t *testing.T) {
	store := memory.New()
	svc := NewChannelService(store)
	ctx := t.Context()
	u := newUser(t, store, "u1")

	created, err := svc.CreateChannel(ctx, u.ID, dto.CreateChannelRequest{Name: "Cooking", Username: "cooking"})
	require.NoError(t, err)

	got, err := svc.GetChannelByUsername(ctx, "@Cooking")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	mine, err := svc.GetMyChannel(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, mine.ID)

	_, err = svc.GetMyChannel(ctx, "nobody")
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = svc.GetChannelVideos(ctx, "missing")
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	videos, err := svc.GetChannelVideos(ctx, created.ID)
	require.NoError(t, err)
	assert.NotNil(t, videos)
	assert.Empty(t, videos)
}

func TestUpdateChannel_Ownership(t *testing.T) {
	store := memory.New()
	svc := NewChannelService(store)
	ctx := t.Context()
	owner := newUser(t, store, "owner")
	other := newUser(t, store, "other")

	ch, err := svc.CreateChannel(ctx, owner.ID, dto.CreateChannelRequest{Name: "Mine", Username: "mine"})
	require.NoError(t, err)

	_, err = svc.UpdateChannel(ctx, other.ID, ch.ID, dto.UpdateChannelRequest{Name: ptr("Stolen")})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = svc.UpdateChannel(ctx, owner.ID, "missing", dto.UpdateChannelRequest{Name: ptr("x")})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	updated, err := svc.UpdateChannel(ctx, owner.ID, ch.ID, dto.UpdateChannelRequest{
		Name:        ptr("Renamed"),
		Description: ptr("about"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, "about", *updated.Description)
	assert.Equal(t, "mine", updated.Username)
}
