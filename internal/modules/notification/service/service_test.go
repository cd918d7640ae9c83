package notification

import (
	"testing"

	"anoa.com/vidspace/internal/entity"
	"anoa.com/vidspace/internal/storage/memory"
	"anoa.com/vidspace/pkg/apperror"
	"anoa.com/vidspace/pkg/logger"
	"anoa.com/vidspace/pkg/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) (NotificationService, *memory.Store) {
	t.Helper()
	store := memory.New()
	return NewNotificationService(store, nil, metrics.Default(), logger.Nop()), store
}

func seedUser(t *testing.T, store *memory.Store, name string) *entity.User {
	t.Helper()
	email := name + "@example.com"
	u := &entity.User{Username: &name, Email: &email}
	require.NoError(t, store.CreateUser(t.Context(), u))
	return u
}

func TestNotifyNewVideo_FansOutToSubscribers(t *testing.T) {
	svc, store := newService(t)
	ctx := t.Context()

	owner := seedUser(t, store, "owner")
	fan1 := seedUser(t, store, "fan1")
	fan2 := seedUser(t, store, "fan2")
	seedUser(t, store, "stranger")

	ch := &entity.Channel{UserID: owner.ID, Name: "Owner TV", Username: "ownertv"}
	require.NoError(t, store.CreateChannel(ctx, ch))
	for _, u := range []*entity.User{fan1, fan2, owner} {
		_, err := store.Subscribe(ctx, u.ID, ch.ID)
		require.NoError(t, err)
	}

	video := &entity.Video{Title: "Launch", Thumbnail: "https://img/t.png", Duration: "1:00", ChannelID: ch.ID}
	require.NoError(t, store.CreateVideo(ctx, video))

	require.NoError(t, svc.NotifyNewVideo(ctx, video))

	for _, u := range []*entity.User{fan1, fan2} {
		list, err := svc.GetNotifications(ctx, u.ID, 10, 0)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, entity.NotificationNewVideo, list[0].Type)
		assert.Equal(t, "New video from Owner TV", list[0].Title)
		assert.Equal(t, video.ID, *list[0].VideoID)
	}

	own, err := svc.GetNotifications(ctx, owner.ID, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, own, "owners are not told about their own uploads")
}

func TestNotifyReply(t *testing.T) {
	svc, store := newService(t)
	ctx := t.Context()

	author := seedUser(t, store, "author")
	replier := seedUser(t, store, "replier")

	parent := &entity.Comment{ID: "p1", VideoID: "v1", UserID: author.ID, Content: "first"}
	reply := &entity.Comment{ID: "r1", VideoID: "v1", UserID: replier.ID, User: replier, Content: "agreed"}

	require.NoError(t, svc.NotifyReply(ctx, parent, reply))
	list, err := svc.GetNotifications(ctx, author.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "@replier replied to your comment", list[0].Title)
	assert.Equal(t, "agreed", list[0].Content)

	self := &entity.Comment{ID: "r2", VideoID: "v1", UserID: author.ID, Content: "me again"}
	require.NoError(t, svc.NotifyReply(ctx, parent, self))
	count, err := svc.UnreadCount(ctx, author.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestMarkAsRead_Ownership(t *testing.T) {
	svc, store := newService(t)
	ctx := t.Context()

	alice := seedUser(t, store, "alice")
	bob := seedUser(t, store, "bob")

	n := &entity.Notification{UserID: alice.ID, Type: entity.NotificationNewVideo, Title: "t", Content: "c"}
	require.NoError(t, svc.CreateNotification(ctx, n))

	assert.ErrorIs(t, svc.MarkAsRead(ctx, bob.ID, n.ID), apperror.ErrForbidden)
	assert.ErrorIs(t, svc.MarkAsRead(ctx, alice.ID, "missing"), apperror.ErrNotFound)
	require.NoError(t, svc.MarkAsRead(ctx, alice.ID, n.ID))

	count, err := svc.UnreadCount(ctx, alice.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	require.NoError(t, svc.CreateNotification(ctx, &entity.Notification{UserID: alice.ID, Type: entity.NotificationNewVideo, Title: "t", Content: "c"}))
	marked, err := svc.MarkAllAsRead(ctx, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, marked)
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "short", excerpt("short", 10))
	assert.Equal(t, "héllo...", excerpt("héllo world", 5))
}
