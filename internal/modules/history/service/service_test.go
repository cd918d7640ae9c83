package history

import (
	"testing"

	"anoa.com/vidspace/internal/entity"
	"anoa.com/vidspace/internal/modules/history/dto"
	"anoa.com/vidspace/internal/storage/memory"
	"anoa.com/vidspace/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestHistory(t *testing.T) {
	store := memory.New()
	svc := NewHistoryService(store)
	ctx := t.Context()

	u := &entity.User{Username: ptr("binge"), Email: ptr("binge@example.com")}
	require.NoError(t, store.CreateUser(ctx, u))
	ch := &entity.Channel{UserID: u.ID, Name: "Binge", Username: "binge"}
	require.NoError(t, store.CreateChannel(ctx, ch))
	v := &entity.Video{Title: "ep1", Thumbnail: "t", Duration: "20:00", ChannelID: ch.ID}
	require.NoError(t, store.CreateVideo(ctx, v))

	_, err := svc.AddToHistory(ctx, u.ID, dto.AddHistoryRequest{VideoID: "missing"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	for range 3 {
		_, err := svc.AddToHistory(ctx, u.ID, dto.AddHistoryRequest{VideoID: v.ID, WatchDuration: 30})
		require.NoError(t, err)
	}

	entries, err := svc.GetHistory(ctx, u.ID, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.NotNil(t, entries[0].Video)
	require.NotNil(t, entries[0].Video.Channel)
	assert.Equal(t, "Binge", entries[0].Video.Channel.Name)

	require.NoError(t, svc.ClearHistory(ctx, u.ID))
	entries, err = svc.GetHistory(ctx, u.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
