package view

import (
	"sync"
	"testing"

	"anoa.com/vidspace/internal/entity"
	"anoa.com/vidspace/internal/storage/memory"
	"anoa.com/vidspace/pkg/apperror"
	"anoa.com/vidspace/pkg/logger"
	"anoa.com/vidspace/pkg/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func seedVideo(t *testing.T, store *memory.Store) (*entity.User, *entity.Video) {
	t.Helper()
	ctx := t.Context()
	u := &entity.User{Username: ptr("watcher"), Email: ptr("watcher@example.com")}
	require.NoError(t, store.CreateUser(ctx, u))
	ch := &entity.Channel{UserID: u.ID, Name: "Chan", Username: "chan"}
	require.NoError(t, store.CreateChannel(ctx, ch))
	v := &entity.Video{Title: "v", Thumbnail: "t", Duration: "1:00", ChannelID: ch.ID}
	require.NoError(t, store.CreateVideo(ctx, v))
	return u, v
}

func TestRecordView(t *testing.T) {
	store := memory.New()
	svc := NewViewService(store, metrics.Default(), logger.Nop())
	ctx := t.Context()
	u, v := seedVideo(t, store)

	views, err := svc.RecordView(ctx, v.ID, "", 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, views)

	history, err := store.GetWatchHistory(ctx, u.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, history, "anonymous views leave no history")

	views, err = svc.RecordView(ctx, v.ID, u.ID, 42)
	require.NoError(t, err)
	assert.EqualValues(t, 2, views)

	history, err = store.GetWatchHistory(ctx, u.ID, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 42, history[0].WatchDuration)

	_, err = svc.RecordView(ctx, "missing", u.ID, 0)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestRecordView_Concurrent(t *testing.T) {
	store := memory.New()
	svc := NewViewService(store, nil, logger.Nop())
	_, v := seedVideo(t, store)

	const n = 50
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.RecordView(t.Context(), v.ID, "", 0)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := store.GetVideo(t.Context(), v.ID)
	require.NoError(t, err)
	assert.EqualValues(t, n, got.Views)
}
