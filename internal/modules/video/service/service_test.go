package video

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"anoa.com/vidspace/internal/entity"
	"anoa.com/vidspace/internal/modules/video/dto"
	"anoa.com/vidspace/internal/storage/memory"
	"anoa.com/vidspace/pkg/apperror"
	commonDto "anoa.com/vidspace/pkg/dto"
	"anoa.com/vidspace/pkg/logger"
	objectstore "anoa.com/vidspace/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

type fakeIndex struct {
	mu      sync.Mutex
	indexed map[string]string
	hits    []string
	err     error
}

func newFakeIndex() *fakeIndex { return &fakeIndex{indexed: map[string]string{}} }

func (f *fakeIndex) IndexVideo(_ context.Context, v *entity.Video) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.indexed[v.ID] = v.Title
	return nil
}

func (f *fakeIndex) DeleteVideo(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.indexed, id)
	return nil
}

func (f *fakeIndex) Search(context.Context, string, int) ([]string, error) {
	return f.hits, f.err
}

type fakeNotifier struct {
	mu     sync.Mutex
	videos []string
}

func (f *fakeNotifier) NotifyNewVideo(_ context.Context, v *entity.Video) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.videos = append(f.videos, v.ID)
	return nil
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.videos)
}

type fixture struct {
	store    *memory.Store
	blobs    objectstore.VideoStorage
	index    *fakeIndex
	notifier *fakeNotifier
	svc      VideoService
	owner    *entity.User
	channel  *entity.Channel
}

func setup(t *testing.T) *fixture {
	t.Helper()
	ctx := t.Context()
	store := memory.New()
	blobs, err := objectstore.NewLocalStorage(t.TempDir(), "/media")
	require.NoError(t, err)

	owner := &entity.User{Username: ptr("creator"), Email: ptr("creator@example.com")}
	require.NoError(t, store.CreateUser(ctx, owner))
	ch := &entity.Channel{UserID: owner.ID, Name: "Creator", Username: "creator"}
	require.NoError(t, store.CreateChannel(ctx, ch))

	f := &fixture{
		store:    store,
		blobs:    blobs,
		index:    newFakeIndex(),
		notifier: &fakeNotifier{},
		owner:    owner,
		channel:  ch,
	}
	f.svc = NewVideoService(store, blobs, nil, f.index, f.notifier, nil, logger.Nop())
	return f
}

func (f *fixture) createVideo(t *testing.T, title string) *entity.Video {
	t.Helper()
	v, err := f.svc.CreateVideo(t.Context(), f.owner.ID, dto.CreateVideoRequest{
		Title:     title,
		Thumbnail: "https://img.example.com/" + title + ".jpg",
		VideoURL:  ptr("https://cdn.example.com/" + title + ".mp4"),
		Duration:  "1:00",
	})
	require.NoError(t, err)
	return v
}

func TestCreateVideo(t *testing.T) {
	f := setup(t)

	v := f.createVideo(t, "intro")
	require.NotNil(t, v.Channel)
	assert.Equal(t, "Creator", v.Channel.Name)
	assert.Equal(t, f.channel.ID, v.ChannelID)
	assert.Contains(t, f.index.indexed, v.ID)
	assert.Eventually(t, func() bool { return f.notifier.count() == 1 }, time.Second, 10*time.Millisecond)

	stranger := &entity.User{Username: ptr("stranger"), Email: ptr("stranger@example.com")}
	require.NoError(t, f.store.CreateUser(t.Context(), stranger))
	_, err := f.svc.CreateVideo(t.Context(), stranger.ID, dto.CreateVideoRequest{Title: "x", Thumbnail: "t", Duration: "1:00"})
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestSearchVideos(t *testing.T) {
	f := setup(t)
	ctx := t.Context()
	a := f.createVideo(t, "cats")
	f.createVideo(t, "dogs")

	_, err := f.svc.SearchVideos(ctx, "   ")
	assert.ErrorIs(t, err, apperror.ErrBadRequest)

	f.index.hits = []string{a.ID}
	got, err := f.svc.SearchVideos(ctx, "anything")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, a.ID, got[0].ID)

	f.index.hits = nil
	f.index.err = errors.New("meili down")
	got, err = f.svc.SearchVideos(ctx, "DOG")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "dogs", got[0].Title)
}

func TestSubscriptionFeed(t *testing.T) {
	f := setup(t)
	ctx := t.Context()
	v := f.createVideo(t, "news")

	viewer := &entity.User{Username: ptr("viewer"), Email: ptr("viewer@example.com")}
	require.NoError(t, f.store.CreateUser(ctx, viewer))

	feed, err := f.svc.GetSubscriptionFeed(ctx, viewer.ID)
	require.NoError(t, err)
	assert.Empty(t, feed)

	_, err = f.store.Subscribe(ctx, viewer.ID, f.channel.ID)
	require.NoError(t, err)
	feed, err = f.svc.GetSubscriptionFeed(ctx, viewer.ID)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, v.ID, feed[0].ID)
}

func TestUpdateAndDeleteVideo_Ownership(t *testing.T) {
	f := setup(t)
	ctx := t.Context()
	v := f.createVideo(t, "draft")

	other := &entity.User{Username: ptr("other"), Email: ptr("other@example.com")}
	require.NoError(t, f.store.CreateUser(ctx, other))

	_, err := f.svc.UpdateVideo(ctx, other.ID, v.ID, dto.UpdateVideoRequest{Title: ptr("mine now")})
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	assert.ErrorIs(t, f.svc.DeleteVideo(ctx, other.ID, v.ID), apperror.ErrForbidden)

	updated, err := f.svc.UpdateVideo(ctx, f.owner.ID, v.ID, dto.UpdateVideoRequest{Title: ptr("final")})
	require.NoError(t, err)
	assert.Equal(t, "final", updated.Title)
	assert.Equal(t, "final", f.index.indexed[v.ID])

	require.NoError(t, f.svc.DeleteVideo(ctx, f.owner.ID, v.ID))
	assert.NotContains(t, f.index.indexed, v.ID)
	_, err = f.svc.GetVideo(ctx, v.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func upload(name, contentType, body string) *commonDto.UploadFile {
	return &commonDto.UploadFile{
		Reader:      strings.NewReader(body),
		FileName:    name,
		ContentType: contentType,
		Size:        int64(len(body)),
	}
}

func TestUploadVideo_StreamAndDelete(t *testing.T) {
	f := setup(t)
	ctx := t.Context()
	form := dto.UploadVideoForm{Title: "clip", Duration: "0:10", Category: "Music"}

	_, err := f.svc.UploadVideo(ctx, f.owner.ID, form, upload("notes.txt", "text/plain", "x"), nil)
	assert.ErrorIs(t, err, apperror.ErrBadRequest)

	_, err = f.svc.UploadVideo(ctx, f.owner.ID, form, upload("clip.mp4", "video/mp4", "x"), upload("t.txt", "text/plain", "y"))
	assert.ErrorIs(t, err, apperror.ErrBadRequest)

	v, err := f.svc.UploadVideo(ctx, f.owner.ID, form,
		upload("clip.mp4", "application/octet-stream", "0123456789"),
		upload("thumb.png", "image/png", "png"))
	require.NoError(t, err)
	require.NotNil(t, v.StorageKey)
	assert.True(t, strings.HasPrefix(v.Thumbnail, "/media/"))
	assert.Equal(t, "Music", *v.Category)

	obj, redirect, err := f.svc.OpenStream(ctx, v.ID, "bytes=2-5")
	require.NoError(t, err)
	assert.Empty(t, redirect)
	body, err := io.ReadAll(obj.Body)
	require.NoError(t, err)
	require.NoError(t, obj.Body.Close())
	assert.Equal(t, "2345", string(body))
	assert.Equal(t, "bytes 2-5/10", obj.ContentRange)

	_, _, err = f.svc.OpenStream(ctx, v.ID, "bytes=50-60")
	assert.Equal(t, http.StatusRequestedRangeNotSatisfiable, apperror.MapErrorToStatus(err))

	key := *v.StorageKey
	require.NoError(t, f.svc.DeleteVideo(ctx, f.owner.ID, v.ID))
	_, err = f.blobs.Read(ctx, key, "")
	assert.ErrorIs(t, err, objectstore.ErrObjectNotFound)
}

func TestUploadVideo_Disabled(t *testing.T) {
	f := setup(t)
	svc := NewVideoService(f.store, nil, nil, nil, nil, nil, logger.Nop())

	_, err := svc.UploadVideo(t.Context(), f.owner.ID, dto.UploadVideoForm{Title: "x", Duration: "1"}, upload("a.mp4", "video/mp4", "x"), nil)
	assert.Equal(t, http.StatusServiceUnavailable, apperror.MapErrorToStatus(err))
}

func TestOpenStream_ExternalURLRedirects(t *testing.T) {
	f := setup(t)
	v := f.createVideo(t, "hosted")

	obj, redirect, err := f.svc.OpenStream(t.Context(), v.ID, "")
	require.NoError(t, err)
	assert.Nil(t, obj)
	assert.Equal(t, "https://cdn.example.com/hosted.mp4", redirect)

	_, _, err = f.svc.OpenStream(t.Context(), "missing", "")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
