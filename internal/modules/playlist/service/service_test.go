package playlist

import (
	"testing"

	"anoa.com/vidspace/internal/entity"
	"anoa.com/vidspace/internal/modules/playlist/dto"
	"anoa.com/vidspace/internal/storage/memory"
	"anoa.com/vidspace/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

type fixture struct {
	store  *memory.Store
	svc    PlaylistService
	owner  *entity.User
	other  *entity.User
	videos []*entity.Video
}

func setup(t *testing.T) *fixture {
	t.Helper()
	ctx := t.Context()
	store := memory.New()

	owner := &entity.User{Username: ptr("owner"), Email: ptr("owner@example.com")}
	other := &entity.User{Username: ptr("other"), Email: ptr("other@example.com")}
	require.NoError(t, store.CreateUser(ctx, owner))
	require.NoError(t, store.CreateUser(ctx, other))
	ch := &entity.Channel{UserID: owner.ID, Name: "Owner", Username: "owner"}
	require.NoError(t, store.CreateChannel(ctx, ch))

	f := &fixture{store: store, svc: NewPlaylistService(store), owner: owner, other: other}
	for _, title := range []string{"a", "b"} {
		v := &entity.Video{Title: title, Thumbnail: "t", Duration: "1:00", ChannelID: ch.ID}
		require.NoError(t, store.CreateVideo(ctx, v))
		f.videos = append(f.videos, v)
	}
	return f
}

func TestPlaylistVisibility(t *testing.T) {
	f := setup(t)
	ctx := t.Context()

	p, err := f.svc.CreatePlaylist(ctx, f.owner.ID, dto.CreatePlaylistRequest{Name: "Later"})
	require.NoError(t, err)
	assert.False(t, p.IsPublic)

	_, err = f.svc.GetPlaylist(ctx, "", p.ID)
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	_, err = f.svc.GetPlaylistVideos(ctx, f.other.ID, p.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	got, err := f.svc.GetPlaylist(ctx, f.owner.ID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Later", got.Name)

	_, err = f.svc.UpdatePlaylist(ctx, f.owner.ID, p.ID, dto.UpdatePlaylistRequest{IsPublic: ptr(true)})
	require.NoError(t, err)
	_, err = f.svc.GetPlaylist(ctx, "", p.ID)
	assert.NoError(t, err)

	_, err = f.svc.GetPlaylist(ctx, "", "missing")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestPlaylistEntries(t *testing.T) {
	f := setup(t)
	ctx := t.Context()

	p, err := f.svc.CreatePlaylist(ctx, f.owner.ID, dto.CreatePlaylistRequest{Name: "Mix", IsPublic: true})
	require.NoError(t, err)

	_, err = f.svc.AddVideo(ctx, f.other.ID, p.ID, dto.AddVideoRequest{VideoID: f.videos[0].ID})
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	_, err = f.svc.AddVideo(ctx, f.owner.ID, p.ID, dto.AddVideoRequest{VideoID: "missing"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	first, err := f.svc.AddVideo(ctx, f.owner.ID, p.ID, dto.AddVideoRequest{VideoID: f.videos[0].ID})
	require.NoError(t, err)
	_, err = f.svc.AddVideo(ctx, f.owner.ID, p.ID, dto.AddVideoRequest{VideoID: f.videos[1].ID})
	require.NoError(t, err)
	again, err := f.svc.AddVideo(ctx, f.owner.ID, p.ID, dto.AddVideoRequest{VideoID: f.videos[0].ID})
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	items, err := f.svc.GetPlaylistVideos(ctx, "", p.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, f.videos[0].ID, items[0].VideoID)
	assert.Less(t, items[0].Position, items[1].Position)

	require.NoError(t, f.svc.RemoveVideo(ctx, f.owner.ID, p.ID, f.videos[0].ID))
	assert.ErrorIs(t, f.svc.RemoveVideo(ctx, f.owner.ID, p.ID, f.videos[0].ID), apperror.ErrNotFound)

	assert.ErrorIs(t, f.svc.DeletePlaylist(ctx, f.other.ID, p.ID), apperror.ErrForbidden)
	require.NoError(t, f.svc.DeletePlaylist(ctx, f.owner.ID, p.ID))

	mine, err := f.svc.GetMyPlaylists(ctx, f.owner.ID)
	require.NoError(t, err)
	assert.Empty(t, mine)
}
