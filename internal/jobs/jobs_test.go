package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"anoa.com/vidspace/internal/entity"
	"anoa.com/vidspace/internal/storage/memory"
	"anoa.com/vidspace/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingIndex struct {
	mu      sync.Mutex
	indexed []string
	failOn  string
}

func (r *recordingIndex) IndexVideo(_ context.Context, v *entity.Video) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v.Title == r.failOn {
		return errors.New("index unavailable")
	}
	r.indexed = append(r.indexed, v.Title)
	return nil
}

func (r *recordingIndex) DeleteVideo(context.Context, string) error { return nil }

func (r *recordingIndex) Search(context.Context, string, int) ([]string, error) { return nil, nil }

func seedVideos(t *testing.T, titles ...string) *memory.Store {
	t.Helper()
	ctx := t.Context()
	store := memory.New()
	username, email := "owner", "owner@example.com"
	owner := &entity.User{Username: &username, Email: &email}
	require.NoError(t, store.CreateUser(ctx, owner))
	ch := &entity.Channel{UserID: owner.ID, Name: "Owner", Username: "owner"}
	require.NoError(t, store.CreateChannel(ctx, ch))
	for _, title := range titles {
		require.NoError(t, store.CreateVideo(ctx, &entity.Video{
			Title: title, Thumbnail: "t", Duration: "1:00", ChannelID: ch.ID,
		}))
	}
	return store
}

func TestReindexJob(t *testing.T) {
	store := seedVideos(t, "a", "b", "c")
	index := &recordingIndex{}
	job := NewReindexJob(store, index, "", logger.Nop())

	require.NoError(t, job.Run(t.Context()))
	assert.ElementsMatch(t, []string{"a", "b", "c"}, index.indexed)
}

func TestReindexJob_PartialFailure(t *testing.T) {
	store := seedVideos(t, "a", "broken", "c")
	index := &recordingIndex{failOn: "broken"}

	err := NewReindexJob(store, index, "", logger.Nop()).Run(t.Context())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 3")
	assert.Len(t, index.indexed, 2)
}

type countingJob struct {
	mu       sync.Mutex
	runs     int
	schedule string
}

func (c *countingJob) Name() string     { return "counter" }
func (c *countingJob) Schedule() string { return c.schedule }
func (c *countingJob) Run(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.runs++
	return nil
}

func TestScheduler(t *testing.T) {
	s := NewScheduler(time.Second, logger.Nop())

	assert.Error(t, s.Register(&countingJob{schedule: "not a cron line"}))

	job := &countingJob{}
	require.NoError(t, s.Register(job))

	ok, err := s.RunNow(t.Context(), "counter")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, job.runs)

	ok, err = s.RunNow(t.Context(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	s.Start()
	s.Stop(t.Context())
}
