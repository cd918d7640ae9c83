package reaction

import (
	"testing"

	"anoa.com/vidspace/internal/entity"
	"anoa.com/vidspace/internal/modules/reaction/dto"
	"anoa.com/vidspace/internal/storage/memory"
	"anoa.com/vidspace/pkg/apperror"
	"anoa.com/vidspace/pkg/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestToggleLike(t *testing.T) {
	store := memory.New()
	svc := NewReactionService(store, metrics.Default())
	ctx := t.Context()

	u := &entity.User{Username: ptr("fan"), Email: ptr("fan@example.com")}
	require.NoError(t, store.CreateUser(ctx, u))
	ch := &entity.Channel{UserID: u.ID, Name: "Fan", Username: "fan"}
	require.NoError(t, store.CreateChannel(ctx, ch))
	v := &entity.Video{Title: "v", Thumbnail: "t", Duration: "1:00", ChannelID: ch.ID}
	require.NoError(t, store.CreateVideo(ctx, v))

	none, err := svc.GetUserLike(ctx, u.ID, v.ID)
	require.NoError(t, err)
	assert.Nil(t, none)

	resp, err := svc.ToggleLike(ctx, u.ID, v.ID, dto.ToggleLikeRequest{Type: entity.LikeTypeLike})
	require.NoError(t, err)
	require.NotNil(t, resp.Like)
	assert.Equal(t, entity.LikeCounts{Likes: 1, Dislikes: 0}, resp.LikeCounts)

	resp, err = svc.ToggleLike(ctx, u.ID, v.ID, dto.ToggleLikeRequest{Type: entity.LikeTypeDislike})
	require.NoError(t, err)
	assert.Equal(t, entity.LikeTypeDislike, resp.Like.Type)
	assert.Equal(t, entity.LikeCounts{Likes: 0, Dislikes: 1}, resp.LikeCounts)

	resp, err = svc.ToggleLike(ctx, u.ID, v.ID, dto.ToggleLikeRequest{Type: entity.LikeTypeDislike})
	require.NoError(t, err)
	assert.Nil(t, resp.Like)

	counts, err := svc.GetLikeCounts(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.LikeCounts{}, *counts)

	_, err = svc.ToggleLike(ctx, u.ID, v.ID, dto.ToggleLikeRequest{Type: "love"})
	assert.ErrorIs(t, err, apperror.ErrBadRequest)

	_, err = svc.ToggleLike(ctx, u.ID, "missing", dto.ToggleLikeRequest{Type: entity.LikeTypeLike})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestToggleResult(t *testing.T) {
	like := &entity.Like{Type: entity.LikeTypeLike}
	assert.Equal(t, "added", toggleResult(nil, like))
	assert.Equal(t, "switched", toggleResult(like, like))
	assert.Equal(t, "removed", toggleResult(like, nil))
}
