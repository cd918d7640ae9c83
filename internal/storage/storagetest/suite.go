// Package storagetest is a behavioural suite every storage.Storage
// implementation must pass.
package storagetest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"anoa.com/vidspace/internal/entity"
	"anoa.com/vidspace/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns an empty store. It is called once per subtest.
type Factory func(t *testing.T) storage.Storage

func Run(t *testing.T, newStore Factory) {
	tests := []struct {
		name string
		fn   func(t *testing.T, s storage.Storage)
	}{
		{"UserCRUD", testUserCRUD},
		{"UpsertUser", testUpsertUser},
		{"BlockChannelIdempotent", testBlockChannel},
		{"ChannelDefaults", testChannelDefaults},
		{"ChannelOnePerUser", testChannelOnePerUser},
		{"VideoListing", testVideoListing},
		{"VideoSearch", testVideoSearch},
		{"VideoUpdateDelete", testVideoUpdateDelete},
		{"ConcurrentViews", testConcurrentViews},
		{"Spaces", testSpaces},
		{"Subscriptions", testSubscriptions},
		{"Comments", testComments},
		{"ToggleLike", testToggleLike},
		{"WatchHistory", testWatchHistory},
		{"Playlists", testPlaylists},
		{"Notifications", testNotifications},
		{"Scenario", testScenario},
		{"RowsDetachedFromCallers", testRowsDetached},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.fn(t, newStore(t))
		})
	}
}

func ptr[T any](v T) *T { return &v }

func seedUser(t *testing.T, s storage.Storage, name string) *entity.User {
	t.Helper()
	u := &entity.User{
		Username:  ptr(name),
		Email:     ptr(name + "@example.com"),
		FirstName: ptr(name),
	}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

func seedChannel(t *testing.T, s storage.Storage, userID, username string) *entity.Channel {
	t.Helper()
	ch := &entity.Channel{UserID: userID, Name: username, Username: username}
	require.NoError(t, s.CreateChannel(context.Background(), ch))
	return ch
}

func seedVideo(t *testing.T, s storage.Storage, channelID, title string, uploadedAt time.Time) *entity.Video {
	t.Helper()
	v := &entity.Video{
		Title:      title,
		Thumbnail:  "https://img.example.com/" + title + ".jpg",
		Duration:   "10:00",
		ChannelID:  channelID,
		UploadedAt: uploadedAt,
	}
	require.NoError(t, s.CreateVideo(context.Background(), v))
	return v
}

func videoIDs(videos []entity.Video) []string {
	ids := make([]string, 0, len(videos))
	for _, v := range videos {
		ids = append(ids, v.ID)
	}
	return ids
}

func testUserCRUD(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	u := seedUser(t, s, "alice")
	require.NotEmpty(t, u.ID)

	got, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", *got.Username)
	assert.Equal(t, entity.AuthProviderEmail, got.AuthProvider)
	assert.NotNil(t, got.BlockedChannels)

	byEmail, err := s.GetUserByEmail(ctx, "ALICE@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	byName, err := s.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)

	_, err = s.GetUser(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	dup := &entity.User{Email: ptr("alice@example.com")}
	assert.ErrorIs(t, s.CreateUser(ctx, dup), storage.ErrDuplicate)

	updated, err := s.UpdateUser(ctx, u.ID, storage.UserUpdate{
		FirstName:    ptr("Alice"),
		PersonalMode: ptr(true),
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice", *updated.FirstName)
	assert.True(t, updated.PersonalMode)
	assert.Equal(t, "alice", *updated.Username)

	_, err = s.UpdateUser(ctx, "missing", storage.UserUpdate{FirstName: ptr("x")})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func testUpsertUser(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	_, err := s.UpsertUser(ctx, storage.UpsertUserInput{})
	assert.ErrorIs(t, err, storage.ErrInvalidInput)

	created, err := s.UpsertUser(ctx, storage.UpsertUserInput{
		ID:           "oidc|42",
		Email:        ptr("oidc@example.com"),
		FirstName:    ptr("Olga"),
		AuthProvider: ptr(entity.AuthProviderReplit),
	})
	require.NoError(t, err)
	assert.Equal(t, "oidc|42", created.ID)
	assert.Equal(t, entity.AuthProviderReplit, created.AuthProvider)

	merged, err := s.UpsertUser(ctx, storage.UpsertUserInput{
		ID:       "oidc|42",
		LastName: ptr("Ivanova"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Olga", *merged.FirstName, "omitted fields keep their value")
	assert.Equal(t, "Ivanova", *merged.LastName)
	assert.Equal(t, "oidc@example.com", *merged.Email)
}

func testBlockChannel(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	u := seedUser(t, s, "bob")

	ok, err := s.BlockChannel(ctx, u.ID, "ch-1")
	require.NoError(t, err)
	assert.True(t, ok)
	once, err := s.GetBlockedChannels(ctx, u.ID)
	require.NoError(t, err)

	ok, err = s.BlockChannel(ctx, u.ID, "ch-1")
	require.NoError(t, err)
	assert.True(t, ok)
	twice, err := s.GetBlockedChannels(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
	assert.Equal(t, []string{"ch-1"}, twice)

	ok, err = s.UnblockChannel(ctx, u.ID, "ch-1")
	require.NoError(t, err)
	assert.True(t, ok)
	after, err := s.GetBlockedChannels(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, after)

	ok, err = s.BlockChannel(ctx, "missing", "ch-1")
	require.NoError(t, err)
	assert.False(t, ok)

	none, err := s.GetBlockedChannels(ctx, "missing")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func testChannelDefaults(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	u := seedUser(t, s, "carol")

	ch := &entity.Channel{
		UserID:      u.ID,
		Name:        "Carol Cooks",
		Username:    "carolcooks",
		Verified:    true,
		Subscribers: 9000,
	}
	require.NoError(t, s.CreateChannel(ctx, ch))
	require.NotEmpty(t, ch.ID)

	got, err := s.GetChannel(ctx, ch.ID)
	require.NoError(t, err)
	assert.False(t, got.Verified)
	assert.Zero(t, got.Subscribers)
	assert.Equal(t, "Carol Cooks", got.Name)

	byName, err := s.GetChannelByUsername(ctx, "carolcooks")
	require.NoError(t, err)
	assert.Equal(t, ch.ID, byName.ID)

	byOwner, err := s.GetChannelByUserID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, ch.ID, byOwner.ID)

	updated, err := s.UpdateChannel(ctx, ch.ID, storage.ChannelUpdate{Description: ptr("recipes")})
	require.NoError(t, err)
	assert.Equal(t, "recipes", *updated.Description)

	_, err = s.UpdateChannel(ctx, "missing", storage.ChannelUpdate{Name: ptr("x")})
	assert.ErrorIs(t, err, storage.ErrNotFound)

	orphan := &entity.Channel{UserID: "missing", Name: "x", Username: "orphan"}
	assert.ErrorIs(t, s.CreateChannel(ctx, orphan), storage.ErrInvalidReference)
}

func testChannelOnePerUser(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	u := seedUser(t, s, "dave")
	other := seedUser(t, s, "erin")
	seedChannel(t, s, u.ID, "davetech")

	second := &entity.Channel{UserID: u.ID, Name: "Second", Username: "davetwo"}
	assert.ErrorIs(t, s.CreateChannel(ctx, second), storage.ErrDuplicate)

	sameHandle := &entity.Channel{UserID: other.ID, Name: "Copy", Username: "davetech"}
	assert.ErrorIs(t, s.CreateChannel(ctx, sameHandle), storage.ErrDuplicate)

	all, err := s.GetChannels(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func testVideoListing(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	u := seedUser(t, s, "frank")
	ch := seedChannel(t, s, u.ID, "frankfilms")

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	var created []*entity.Video
	for i := 0; i < 8; i++ {
		v := seedVideo(t, s, ch.ID, fmt.Sprintf("clip-%d", i), base.Add(time.Duration(i)*time.Hour))
		created = append(created, v)
	}
	music := "music"
	tagged := &entity.Video{
		Title: "song", Thumbnail: "t", Duration: "3:00", ChannelID: ch.ID,
		UploadedAt: base.Add(-time.Hour), Category: &music,
	}
	require.NoError(t, s.CreateVideo(ctx, tagged))

	five, err := s.GetVideos(ctx, 5, "")
	require.NoError(t, err)
	require.Len(t, five, 5)
	for i := 1; i < len(five); i++ {
		assert.False(t, five[i].UploadedAt.After(five[i-1].UploadedAt), "newest first")
	}
	assert.Equal(t, created[7].ID, five[0].ID)
	require.NotNil(t, five[0].Channel)
	assert.Equal(t, "frankfilms", five[0].Channel.Name)

	all, err := s.GetVideos(ctx, 0, "")
	require.NoError(t, err)
	assert.Len(t, all, 9)

	byCategory, err := s.GetVideos(ctx, 0, "music")
	require.NoError(t, err)
	assert.Equal(t, []string{tagged.ID}, videoIDs(byCategory))

	byChannel, err := s.GetVideosByChannel(ctx, ch.ID)
	require.NoError(t, err)
	assert.Len(t, byChannel, 9)

	none, err := s.GetVideosByChannels(ctx, nil)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	some, err := s.GetVideosByIDs(ctx, []string{created[1].ID, created[3].ID, "missing"})
	require.NoError(t, err)
	assert.Equal(t, []string{created[3].ID, created[1].ID}, videoIDs(some))

	_, err = s.GetVideo(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	bad := &entity.Video{Title: "x", Thumbnail: "x", Duration: "1:00", ChannelID: "missing"}
	assert.ErrorIs(t, s.CreateVideo(ctx, bad), storage.ErrInvalidReference)
}

func testVideoSearch(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	u := seedUser(t, s, "gina")
	ch := seedChannel(t, s, u.ID, "ginagames")
	now := time.Now().UTC()

	a := seedVideo(t, s, ch.ID, "Speedrun Tips", now)
	b := &entity.Video{
		Title: "Weekly vlog", Thumbnail: "t", Duration: "9:00", ChannelID: ch.ID,
		UploadedAt: now.Add(-time.Minute), Description: ptr("more SPEEDRUN chat"),
	}
	require.NoError(t, s.CreateVideo(ctx, b))
	seedVideo(t, s, ch.ID, "Cooking 100%", now.Add(-2*time.Minute))

	hits, err := s.SearchVideos(ctx, "speedrun")
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID, b.ID}, videoIDs(hits))

	literal, err := s.SearchVideos(ctx, "_")
	require.NoError(t, err)
	assert.Empty(t, literal, "LIKE wildcards are matched literally")
}

func testVideoUpdateDelete(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	u := seedUser(t, s, "hank")
	ch := seedChannel(t, s, u.ID, "hankhow")
	v := seedVideo(t, s, ch.ID, "Original", time.Now().UTC())

	updated, err := s.UpdateVideo(ctx, v.ID, storage.VideoUpdate{Title: ptr("Renamed"), IsShorts: ptr(true)})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.True(t, updated.IsShorts)
	require.NotNil(t, updated.Channel)

	_, err = s.UpdateVideo(ctx, "missing", storage.VideoUpdate{Title: ptr("x")})
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = s.ToggleLike(ctx, u.ID, v.ID, entity.LikeTypeLike)
	require.NoError(t, err)
	require.NoError(t, s.CreateComment(ctx, &entity.Comment{VideoID: v.ID, UserID: u.ID, Content: "hi"}))

	ok, err := s.DeleteVideo(ctx, v.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = s.GetVideo(ctx, v.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	counts, err := s.GetLikeCounts(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.LikeCounts{}, counts)
	comments, err := s.GetCommentsByVideo(ctx, v.ID, storage.CommentQuery{})
	require.NoError(t, err)
	assert.Empty(t, comments)

	ok, err = s.DeleteVideo(ctx, v.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func testConcurrentViews(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	u := seedUser(t, s, "ivy")
	ch := seedChannel(t, s, u.ID, "ivyviews")
	v := seedVideo(t, s, ch.ID, "Popular", time.Now().UTC())

	const n = 25
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.IncrementViewCount(ctx, v.ID); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := s.GetVideo(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(n), got.Views)

	ok, err := s.IncrementViewCount(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func testSpaces(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	u := seedUser(t, s, "jack")
	a := seedChannel(t, s, u.ID, "jackone")
	other := seedUser(t, s, "kate")
	b := seedChannel(t, s, other.ID, "katetwo")

	now := time.Now().UTC()
	seedVideo(t, s, a.ID, "a1", now)
	seedVideo(t, s, a.ID, "a2", now.Add(-time.Minute))
	seedVideo(t, s, b.ID, "b1", now.Add(-2*time.Minute))

	sp := &entity.Space{Name: "Favourites", UserID: u.ID, ChannelIDs: []string{b.ID, "gone", a.ID}}
	require.NoError(t, s.CreateSpace(ctx, sp))
	require.NotEmpty(t, sp.ID)

	got, err := s.GetSpace(ctx, sp.ID)
	require.NoError(t, err)
	require.Len(t, got.Channels, 2)
	assert.Equal(t, b.ID, got.Channels[0].ID, "channel order follows channelIds")
	assert.Equal(t, a.ID, got.Channels[1].ID)
	assert.Equal(t, int64(3), got.VideoCount)

	_, err = s.UpdateSpace(ctx, sp.ID, storage.SpaceUpdate{ChannelIDs: &[]string{a.ID}})
	require.NoError(t, err)

	list, err := s.GetSpacesByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(2), list[0].VideoCount, "count is recomputed after edits")
	assert.Equal(t, []string{a.ID}, []string(list[0].ChannelIDs))

	empty := &entity.Space{Name: "Empty", UserID: u.ID}
	require.NoError(t, s.CreateSpace(ctx, empty))
	gotEmpty, err := s.GetSpace(ctx, empty.ID)
	require.NoError(t, err)
	assert.NotNil(t, gotEmpty.ChannelIDs)
	assert.NotNil(t, gotEmpty.Channels)
	assert.Zero(t, gotEmpty.VideoCount)

	assert.ErrorIs(t, s.CreateSpace(ctx, &entity.Space{Name: "x", UserID: "missing"}), storage.ErrInvalidReference)

	ok, err := s.DeleteSpace(ctx, sp.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	_, err = s.GetSpace(ctx, sp.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	ok, err = s.DeleteSpace(ctx, sp.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func testSubscriptions(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	owner := seedUser(t, s, "liam")
	fan := seedUser(t, s, "mia")
	ch := seedChannel(t, s, owner.ID, "liamlive")

	first, err := s.Subscribe(ctx, fan.ID, ch.ID)
	require.NoError(t, err)
	again, err := s.Subscribe(ctx, fan.ID, ch.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	got, err := s.GetChannel(ctx, ch.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Subscribers, "repeat subscribe does not double count")

	subscribed, err := s.IsSubscribed(ctx, fan.ID, ch.ID)
	require.NoError(t, err)
	assert.True(t, subscribed)

	subs, err := s.GetSubscriptions(ctx, fan.ID)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, ch.ID, subs[0].ID)

	ids, err := s.GetSubscriberIDs(ctx, ch.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{fan.ID}, ids)

	ok, err := s.Unsubscribe(ctx, fan.ID, ch.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = s.Unsubscribe(ctx, fan.ID, ch.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	subs, err = s.GetSubscriptions(ctx, fan.ID)
	require.NoError(t, err)
	assert.Empty(t, subs)

	got, err = s.GetChannel(ctx, ch.ID)
	require.NoError(t, err)
	assert.Zero(t, got.Subscribers)

	_, err = s.Subscribe(ctx, fan.ID, "missing")
	assert.ErrorIs(t, err, storage.ErrInvalidReference)
}

func testComments(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	u := seedUser(t, s, "noah")
	ch := seedChannel(t, s, u.ID, "noahnotes")
	v := seedVideo(t, s, ch.ID, "Notes", time.Now().UTC())
	other := seedVideo(t, s, ch.ID, "Other", time.Now().UTC().Add(-time.Hour))

	root := &entity.Comment{VideoID: v.ID, UserID: u.ID, Content: "first"}
	require.NoError(t, s.CreateComment(ctx, root))
	second := &entity.Comment{VideoID: v.ID, UserID: u.ID, Content: "second"}
	require.NoError(t, s.CreateComment(ctx, second))
	reply := &entity.Comment{VideoID: v.ID, UserID: u.ID, ParentID: &root.ID, Content: "reply"}
	require.NoError(t, s.CreateComment(ctx, reply))

	crossVideo := &entity.Comment{VideoID: other.ID, UserID: u.ID, ParentID: &root.ID, Content: "x"}
	assert.ErrorIs(t, s.CreateComment(ctx, crossVideo), storage.ErrInvalidReference)
	assert.ErrorIs(t, s.CreateComment(ctx, &entity.Comment{VideoID: "missing", UserID: u.ID, Content: "x"}), storage.ErrInvalidReference)

	ok, err := s.LikeComment(ctx, root.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = s.LikeComment(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	popular, err := s.GetCommentsByVideo(ctx, v.ID, storage.CommentQuery{SortBy: storage.CommentSortPopular})
	require.NoError(t, err)
	require.Len(t, popular, 3)
	assert.Equal(t, root.ID, popular[0].ID)
	assert.Equal(t, int64(1), popular[0].Likes)
	require.NotNil(t, popular[0].User)
	assert.Equal(t, "noah", *popular[0].User.Username)

	page, err := s.GetCommentsByVideo(ctx, v.ID, storage.CommentQuery{Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.Len(t, page, 1)

	edited, err := s.UpdateComment(ctx, second.ID, "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", edited.Content)
	_, err = s.UpdateComment(ctx, "missing", "x")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	ok, err = s.DeleteComment(ctx, root.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	_, err = s.GetComment(ctx, reply.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound, "replies go with their parent")

	left, err := s.GetCommentsByVideo(ctx, v.ID, storage.CommentQuery{})
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, second.ID, left[0].ID)
}

func testToggleLike(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	u := seedUser(t, s, "olive")
	ch := seedChannel(t, s, u.ID, "olivetv")
	v := seedVideo(t, s, ch.ID, "Clip", time.Now().UTC())

	_, err := s.ToggleLike(ctx, u.ID, v.ID, "love")
	assert.ErrorIs(t, err, storage.ErrInvalidInput)

	l, err := s.ToggleLike(ctx, u.ID, v.ID, entity.LikeTypeLike)
	require.NoError(t, err)
	require.NotNil(t, l)
	assert.Equal(t, entity.LikeTypeLike, l.Type)

	l, err = s.ToggleLike(ctx, u.ID, v.ID, entity.LikeTypeLike)
	require.NoError(t, err)
	assert.Nil(t, l, "same type twice removes the reaction")
	_, err = s.GetLike(ctx, u.ID, v.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = s.ToggleLike(ctx, u.ID, v.ID, entity.LikeTypeLike)
	require.NoError(t, err)
	l, err = s.ToggleLike(ctx, u.ID, v.ID, entity.LikeTypeDislike)
	require.NoError(t, err)
	require.NotNil(t, l)
	assert.Equal(t, entity.LikeTypeDislike, l.Type)

	stored, err := s.GetLike(ctx, u.ID, v.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.LikeTypeDislike, stored.Type)

	counts, err := s.GetLikeCounts(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.LikeCounts{Likes: 0, Dislikes: 1}, counts)

	_, err = s.ToggleLike(ctx, u.ID, "missing", entity.LikeTypeLike)
	assert.ErrorIs(t, err, storage.ErrInvalidReference)
}

func testWatchHistory(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	u := seedUser(t, s, "paul")
	ch := seedChannel(t, s, u.ID, "paulplays")
	now := time.Now().UTC()
	a := seedVideo(t, s, ch.ID, "A", now)
	b := seedVideo(t, s, ch.ID, "B", now)

	require.NoError(t, s.AddToWatchHistory(ctx, &entity.WatchHistory{UserID: u.ID, VideoID: a.ID, WatchDuration: 30, WatchedAt: now.Add(-time.Hour)}))
	require.NoError(t, s.AddToWatchHistory(ctx, &entity.WatchHistory{UserID: u.ID, VideoID: b.ID, WatchDuration: 5, WatchedAt: now}))
	assert.ErrorIs(t, s.AddToWatchHistory(ctx, &entity.WatchHistory{UserID: u.ID, VideoID: "missing"}), storage.ErrInvalidReference)

	history, err := s.GetWatchHistory(ctx, u.ID, 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, b.ID, history[0].VideoID)
	require.NotNil(t, history[0].Video)
	require.NotNil(t, history[0].Video.Channel)
	assert.Equal(t, "paulplays", history[0].Video.Channel.Username)

	limited, err := s.GetWatchHistory(ctx, u.ID, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	require.NoError(t, s.ClearWatchHistory(ctx, u.ID))
	history, err = s.GetWatchHistory(ctx, u.ID, 0)
	require.NoError(t, err)
	assert.NotNil(t, history)
	assert.Empty(t, history)
}

func testPlaylists(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	u := seedUser(t, s, "quinn")
	ch := seedChannel(t, s, u.ID, "quinnq")
	now := time.Now().UTC()
	a := seedVideo(t, s, ch.ID, "A", now)
	b := seedVideo(t, s, ch.ID, "B", now.Add(time.Minute))

	p := &entity.Playlist{UserID: u.ID, Name: "Later"}
	require.NoError(t, s.CreatePlaylist(ctx, p))

	first, err := s.AddVideoToPlaylist(ctx, p.ID, b.ID)
	require.NoError(t, err)
	second, err := s.AddVideoToPlaylist(ctx, p.ID, a.ID)
	require.NoError(t, err)
	assert.Greater(t, second.Position, first.Position)

	repeat, err := s.AddVideoToPlaylist(ctx, p.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, repeat.ID)

	items, err := s.GetPlaylistVideos(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, b.ID, items[0].VideoID)
	assert.Equal(t, a.ID, items[1].VideoID)
	require.NotNil(t, items[0].Video)
	require.NotNil(t, items[0].Video.Channel)

	updated, err := s.UpdatePlaylist(ctx, p.ID, storage.PlaylistUpdate{IsPublic: ptr(true)})
	require.NoError(t, err)
	assert.True(t, updated.IsPublic)
	assert.Equal(t, "Later", updated.Name)

	ok, err := s.RemoveVideoFromPlaylist(ctx, p.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = s.RemoveVideoFromPlaylist(ctx, p.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	mine, err := s.GetPlaylistsByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	_, err = s.AddVideoToPlaylist(ctx, "missing", a.ID)
	assert.ErrorIs(t, err, storage.ErrInvalidReference)

	ok, err = s.DeletePlaylist(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	items, err = s.GetPlaylistVideos(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
	_, err = s.GetPlaylist(ctx, p.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func testNotifications(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	u := seedUser(t, s, "rosa")

	for i := 0; i < 3; i++ {
		n := &entity.Notification{
			UserID:  u.ID,
			Type:    entity.NotificationNewVideo,
			Title:   fmt.Sprintf("video %d", i),
			Content: "new upload",
		}
		require.NoError(t, s.CreateNotification(ctx, n))
	}
	assert.ErrorIs(t, s.CreateNotification(ctx, &entity.Notification{UserID: "missing", Type: "x", Title: "x"}), storage.ErrInvalidReference)

	unread, err := s.GetUnreadNotificationCount(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), unread)

	page, err := s.GetNotifications(ctx, u.ID, 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)

	ok, err := s.MarkNotificationRead(ctx, page[0].ID)
	require.NoError(t, err)
	assert.True(t, ok)
	got, err := s.GetNotification(ctx, page[0].ID)
	require.NoError(t, err)
	assert.True(t, got.IsRead)

	marked, err := s.MarkAllNotificationsRead(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), marked)

	unread, err = s.GetUnreadNotificationCount(ctx, u.ID)
	require.NoError(t, err)
	assert.Zero(t, unread)

	ok, err = s.MarkNotificationRead(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func testScenario(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	u1 := seedUser(t, s, "u1")
	u2 := seedUser(t, s, "u2")

	hub := &entity.Channel{UserID: u1.ID, Name: "Gaming Hub", Username: "gaminghub"}
	require.NoError(t, s.CreateChannel(ctx, hub))
	assert.ErrorIs(t, s.CreateChannel(ctx, &entity.Channel{UserID: u1.ID, Name: "Again", Username: "again"}), storage.ErrDuplicate)

	ep1 := seedVideo(t, s, hub.ID, "Ep1", time.Now().UTC())
	videos, err := s.GetVideos(ctx, 0, "")
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Equal(t, ep1.ID, videos[0].ID)
	assert.Equal(t, "Gaming Hub", videos[0].Channel.Name)

	_, err = s.ToggleLike(ctx, u2.ID, ep1.ID, entity.LikeTypeLike)
	require.NoError(t, err)
	counts, err := s.GetLikeCounts(ctx, ep1.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.LikeCounts{Likes: 1, Dislikes: 0}, counts)
}

// testRowsDetached writes through pointer fields of values passed in and
// handed out, then re-reads the rows.
func testRowsDetached(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	u := seedUser(t, s, "alias")

	ch := &entity.Channel{UserID: u.ID, Name: "Alias", Username: "alias", Avatar: ptr("a.png")}
	require.NoError(t, s.CreateChannel(ctx, ch))
	*ch.Avatar = "changed-after-create.png"

	v := &entity.Video{
		Title:       "aliasing",
		Thumbnail:   "t",
		Duration:    "1:00",
		ChannelID:   ch.ID,
		Description: ptr("original"),
		Category:    ptr("music"),
	}
	require.NoError(t, s.CreateVideo(ctx, v))
	*v.Description = "changed-after-create"

	got, err := s.GetVideo(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", *got.Description)
	assert.Equal(t, "a.png", *got.Channel.Avatar)

	*got.Category = "hacked"
	*got.Channel.Avatar = "evil.png"

	again, err := s.GetVideo(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, "music", *again.Category)
	assert.Equal(t, "a.png", *again.Channel.Avatar)

	music, err := s.GetVideos(ctx, 0, "music")
	require.NoError(t, err)
	assert.Len(t, music, 1)

	gotUser, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	*gotUser.Email = "evil@example.com"
	byEmail, err := s.GetUserByEmail(ctx, "alias@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	sp := &entity.Space{Name: "s", UserID: u.ID, ChannelIDs: []string{ch.ID}, Color: ptr("#fff")}
	require.NoError(t, s.CreateSpace(ctx, sp))
	*sp.Color = "#000"
	gotSpace, err := s.GetSpace(ctx, sp.ID)
	require.NoError(t, err)
	assert.Equal(t, "#fff", *gotSpace.Color)

	n := &entity.Notification{UserID: u.ID, Type: "new_video", Title: "t", Content: "c", VideoID: ptr(v.ID)}
	require.NoError(t, s.CreateNotification(ctx, n))
	gotN, err := s.GetNotification(ctx, n.ID)
	require.NoError(t, err)
	*gotN.VideoID = "other"
	gotN, err = s.GetNotification(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, v.ID, *gotN.VideoID)
}
