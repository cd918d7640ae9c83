package space

import (
	"testing"

	"anoa.com/vidspace/internal/entity"
	"anoa.com/vidspace/internal/modules/space/dto"
	"anoa.com/vidspace/internal/storage/memory"
	"anoa.com/vidspace/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

type world struct {
	store   *memory.Store
	svc     SpaceService
	curator *entity.User
	a, b    *entity.Channel
}

func setup(t *testing.T) *world {
	t.Helper()
	ctx := t.Context()
	store := memory.New()

	w := &world{store: store, svc: NewSpaceService(store)}
	w.curator = &entity.User{Username: ptr("curator"), Email: ptr("curator@example.com")}
	require.NoError(t, store.CreateUser(ctx, w.curator))

	for i, name := range []string{"alpha", "beta"} {
		owner := &entity.User{Username: ptr(name), Email: ptr(name + "@example.com")}
		require.NoError(t, store.CreateUser(ctx, owner))
		ch := &entity.Channel{UserID: owner.ID, Name: name, Username: name}
		require.NoError(t, store.CreateChannel(ctx, ch))
		for j := 0; j <= i; j++ {
			require.NoError(t, store.CreateVideo(ctx, &entity.Video{Title: name, Thumbnail: "t", Duration: "1:00", ChannelID: ch.ID}))
		}
		if i == 0 {
			w.a = ch
		} else {
			w.b = ch
		}
	}
	return w
}

func TestCreateSpace_DerivedFields(t *testing.T) {
	w := setup(t)
	ctx := t.Context()

	sp, err := w.svc.CreateSpace(ctx, w.curator.ID, dto.CreateSpaceRequest{
		Name:       "  Favourites ",
		ChannelIDs: []string{w.a.ID, w.b.ID, w.a.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, "Favourites", sp.Name)
	assert.Len(t, sp.Channels, 2)
	assert.EqualValues(t, 3, sp.VideoCount)

	feed, err := w.svc.GetSpaceVideos(ctx, sp.ID)
	require.NoError(t, err)
	assert.Len(t, feed, 3)

	updated, err := w.svc.UpdateSpace(ctx, w.curator.ID, sp.ID, dto.UpdateSpaceRequest{ChannelIDs: &[]string{w.b.ID}})
	require.NoError(t, err)
	assert.EqualValues(t, 2, updated.VideoCount, "count follows the new channel set")

	_, err = w.svc.CreateSpace(ctx, w.curator.ID, dto.CreateSpaceRequest{Name: "x", ChannelIDs: []string{"nope"}})
	assert.ErrorIs(t, err, apperror.ErrBadRequest)
}

func TestSpace_Ownership(t *testing.T) {
	w := setup(t)
	ctx := t.Context()

	sp, err := w.svc.CreateSpace(ctx, w.curator.ID, dto.CreateSpaceRequest{Name: "Mine"})
	require.NoError(t, err)
	assert.NotNil(t, sp.Channels)

	intruder := &entity.User{Username: ptr("intruder"), Email: ptr("intruder@example.com")}
	require.NoError(t, w.store.CreateUser(ctx, intruder))

	_, err = w.svc.UpdateSpace(ctx, intruder.ID, sp.ID, dto.UpdateSpaceRequest{Name: ptr("Theirs")})
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	assert.ErrorIs(t, w.svc.DeleteSpace(ctx, intruder.ID, sp.ID), apperror.ErrForbidden)

	require.NoError(t, w.svc.DeleteSpace(ctx, w.curator.ID, sp.ID))
	assert.ErrorIs(t, w.svc.DeleteSpace(ctx, w.curator.ID, sp.ID), apperror.ErrNotFound)

	spaces, err := w.svc.GetSpacesByUser(ctx, w.curator.ID)
	require.NoError(t, err)
	assert.Empty(t, spaces)
}
