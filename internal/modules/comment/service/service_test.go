package comment

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"anoa.com/vidspace/internal/entity"
	"anoa.com/vidspace/internal/modules/comment/dto"
	"anoa.com/vidspace/internal/storage/memory"
	"anoa.com/vidspace/pkg/apperror"
	"anoa.com/vidspace/pkg/logger"
	"anoa.com/vidspace/pkg/ratelimit"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

type replyRecorder struct {
	mu      sync.Mutex
	parents []string
}

func (r *replyRecorder) NotifyReply(_ context.Context, parent, _ *entity.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parents = append(r.parents, parent.ID)
	return nil
}

func (r *replyRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.parents)
}

type fixture struct {
	store    *memory.Store
	svc      CommentService
	notifier *replyRecorder
	alice    *entity.User
	bob      *entity.User
	video    *entity.Video
}

func setup(t *testing.T) *fixture {
	t.Helper()
	ctx := t.Context()
	store := memory.New()

	alice := &entity.User{Username: ptr("alice"), Email: ptr("alice@example.com")}
	bob := &entity.User{Username: ptr("bob"), Email: ptr("bob@example.com")}
	require.NoError(t, store.CreateUser(ctx, alice))
	require.NoError(t, store.CreateUser(ctx, bob))
	ch := &entity.Channel{UserID: alice.ID, Name: "Alice", Username: "alice"}
	require.NoError(t, store.CreateChannel(ctx, ch))
	v := &entity.Video{Title: "v", Thumbnail: "t", Duration: "1:00", ChannelID: ch.ID}
	require.NoError(t, store.CreateVideo(ctx, v))

	n := &replyRecorder{}
	return &fixture{
		store:    store,
		svc:      NewCommentService(store, nil, n, nil, logger.Nop()),
		notifier: n,
		alice:    alice,
		bob:      bob,
		video:    v,
	}
}

func TestCreateComment_SanitizesAndThreads(t *testing.T) {
	f := setup(t)
	ctx := t.Context()

	top, err := f.svc.CreateComment(ctx, f.alice.ID, f.video.ID, dto.CreateCommentRequest{Content: "<b>hello</b><script>x()</script>"})
	require.NoError(t, err)
	assert.Equal(t, "hello", top.Content)
	require.NotNil(t, top.User)
	assert.Equal(t, "alice", *top.User.Username)

	_, err = f.svc.CreateComment(ctx, f.alice.ID, f.video.ID, dto.CreateCommentRequest{Content: "<p></p>"})
	assert.ErrorIs(t, err, apperror.ErrBadRequest)

	reply, err := f.svc.CreateComment(ctx, f.bob.ID, f.video.ID, dto.CreateCommentRequest{Content: "hi", ParentID: &top.ID})
	require.NoError(t, err)
	assert.Eventually(t, func() bool { return f.notifier.count() == 1 }, time.Second, 10*time.Millisecond)

	nested, err := f.svc.CreateComment(ctx, f.alice.ID, f.video.ID, dto.CreateCommentRequest{Content: "back", ParentID: &reply.ID})
	require.NoError(t, err)
	require.NotNil(t, nested.ParentID)
	assert.Equal(t, top.ID, *nested.ParentID, "replies to replies join the thread")

	threads, err := f.svc.GetComments(ctx, f.video.ID, dto.ListCommentsQuery{})
	require.NoError(t, err)
	require.Len(t, threads, 1)
	assert.Equal(t, top.ID, threads[0].ID)
	require.Len(t, threads[0].Replies, 2)

	_, err = f.svc.CreateComment(ctx, f.bob.ID, f.video.ID, dto.CreateCommentRequest{Content: "x", ParentID: ptr("missing")})
	assert.ErrorIs(t, err, apperror.ErrBadRequest)

	_, err = f.svc.CreateComment(ctx, f.bob.ID, "missing", dto.CreateCommentRequest{Content: "x"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = f.svc.GetComments(ctx, "missing", dto.ListCommentsQuery{})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestGetComments_PagesTopLevel(t *testing.T) {
	f := setup(t)
	ctx := t.Context()

	for _, body := range []string{"one", "two", "three"} {
		_, err := f.svc.CreateComment(ctx, f.bob.ID, f.video.ID, dto.CreateCommentRequest{Content: body})
		require.NoError(t, err)
	}

	page, err := f.svc.GetComments(ctx, f.video.ID, dto.ListCommentsQuery{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page, 2)

	page, err = f.svc.GetComments(ctx, f.video.ID, dto.ListCommentsQuery{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Len(t, page, 1)
	assert.NotNil(t, page[0].Replies)

	page, err = f.svc.GetComments(ctx, f.video.ID, dto.ListCommentsQuery{Offset: 10})
	require.NoError(t, err)
	assert.NotNil(t, page)
	assert.Empty(t, page)
}

func TestCommentOwnershipAndLikes(t *testing.T) {
	f := setup(t)
	ctx := t.Context()

	c, err := f.svc.CreateComment(ctx, f.bob.ID, f.video.ID, dto.CreateCommentRequest{Content: "first"})
	require.NoError(t, err)

	_, err = f.svc.UpdateComment(ctx, f.alice.ID, c.ID, dto.UpdateCommentRequest{Content: "edited"})
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	assert.ErrorIs(t, f.svc.DeleteComment(ctx, f.alice.ID, c.ID), apperror.ErrForbidden)

	updated, err := f.svc.UpdateComment(ctx, f.bob.ID, c.ID, dto.UpdateCommentRequest{Content: "edited"})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)

	liked, err := f.svc.LikeComment(ctx, c.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, liked.Likes)

	require.NoError(t, f.svc.DeleteComment(ctx, f.bob.ID, c.ID))
	_, err = f.svc.LikeComment(ctx, c.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

type lockedLimiter struct {
	ttlErr error
}

func (lockedLimiter) Allow(context.Context, string, string) (bool, error) { return false, nil }

func (l lockedLimiter) RetryAfter(context.Context, string, string) (time.Duration, error) {
	return 0, l.ttlErr
}

func (lockedLimiter) Clear(context.Context, string, string) error { return nil }

func TestCreateComment_RateLimitTTLErrorIsLogged(t *testing.T) {
	f := setup(t)
	var buf bytes.Buffer
	svc := NewCommentService(f.store, lockedLimiter{ttlErr: errors.New("redis: connection refused")}, nil, nil, zerolog.New(&buf))

	_, err := svc.CreateComment(t.Context(), f.bob.ID, f.video.ID, dto.CreateCommentRequest{Content: "hi"})
	require.ErrorIs(t, err, apperror.ErrRateLimitExceeded)

	var limited *ratelimit.Error
	require.ErrorAs(t, err, &limited)
	assert.Equal(t, time.Duration(0), limited.RetryAfter)
	assert.Contains(t, buf.String(), "failed to read rate limit ttl")
	assert.Contains(t, buf.String(), "connection refused")
}
