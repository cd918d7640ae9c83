package memory

import (
	"context"
	"testing"
	"time"

	"anoa.com/vidspace/internal/entity"
	"anoa.com/vidspace/internal/storage"
	"anoa.com/vidspace/internal/storage/storagetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Storage {
		return New()
	})
}

func TestStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := New()

	name := "zoe"
	u := &entity.User{Username: &name}
	require.NoError(t, s.CreateUser(ctx, u))

	got, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	got.BlockedChannels = append(got.BlockedChannels, "leak")

	again, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, again.BlockedChannels)
}

func TestStore_WithClock(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	s := New().WithClock(func() time.Time { return fixed })

	u := &entity.User{}
	require.NoError(t, s.CreateUser(ctx, u))
	assert.Equal(t, fixed, u.CreatedAt)

	ch := &entity.Channel{UserID: u.ID, Name: "Clock", Username: "clock"}
	require.NoError(t, s.CreateChannel(ctx, ch))
	v := &entity.Video{Title: "t", Thumbnail: "t", Duration: "1:00", ChannelID: ch.ID}
	require.NoError(t, s.CreateVideo(ctx, v))
	assert.Equal(t, fixed, v.UploadedAt)
}
