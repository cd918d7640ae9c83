// Package storage defines the content repository shared by the HTTP
// modules. Two implementations satisfy it: memory (tests, demos) and
// sqlstore (GORM over PostgreSQL or SQLite).
//
// Lookups by id return ErrNotFound when nothing matches. Boolean mutations
// report false for unknown ids instead of failing. Any other error is an
// infrastructure failure.
package storage

import (
	"context"
	"errors"

	"anoa.com/vidspace/internal/entity"
)

var (
	ErrNotFound = errors.New("storage: not found")
	// ErrInvalidReference means a write named a related row that does not exist.
	ErrInvalidReference = errors.New("storage: invalid reference")
	// ErrDuplicate means a unique key is already taken.
	ErrDuplicate = errors.New("storage: duplicate")
	// ErrInvalidInput means a value is outside its domain, e.g. a like type.
	ErrInvalidInput = errors.New("storage: invalid input")
)

type Storage interface {
	UserStore
	ChannelStore
	VideoStore
	SpaceStore
	SubscriptionStore
	CommentStore
	LikeStore
	WatchHistoryStore
	PlaylistStore
	NotificationStore
}

// UpsertUserInput merges into an existing user keyed by ID. Nil fields keep
// their stored value.
type UpsertUserInput struct {
	ID              string
	Email           *string
	Username        *string
	FirstName       *string
	LastName        *string
	ProfileImageURL *string
	AuthProvider    *string
	IsVerified      *bool
}

type UserUpdate struct {
	Username        *string
	FirstName       *string
	LastName        *string
	ProfileImageURL *string
	PersonalMode    *bool
}

type UserStore interface {
	GetUser(ctx context.Context, id string) (*entity.User, error)
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
	GetUserByUsername(ctx context.Context, username string) (*entity.User, error)
	// CreateUser inserts a new user; ErrDuplicate on a taken email or username.
	CreateUser(ctx context.Context, user *entity.User) error
	UpsertUser(ctx context.Context, in UpsertUserInput) (*entity.User, error)
	UpdateUser(ctx context.Context, id string, upd UserUpdate) (*entity.User, error)
	BlockChannel(ctx context.Context, userID, channelID string) (bool, error)
	UnblockChannel(ctx context.Context, userID, channelID string) (bool, error)
	GetBlockedChannels(ctx context.Context, userID string) ([]string, error)
}

type ChannelUpdate struct {
	Name        *string
	Username    *string
	Avatar      *string
	Description *string
}

type ChannelStore interface {
	GetChannel(ctx context.Context, id string) (*entity.Channel, error)
	GetChannelByUsername(ctx context.Context, username string) (*entity.Channel, error)
	GetChannelByUserID(ctx context.Context, userID string) (*entity.Channel, error)
	GetChannels(ctx context.Context) ([]entity.Channel, error)
	// CreateChannel ignores Verified and Subscribers on input.
	CreateChannel(ctx context.Context, channel *entity.Channel) error
	UpdateChannel(ctx context.Context, id string, upd ChannelUpdate) (*entity.Channel, error)
}

type VideoUpdate struct {
	Title       *string
	Thumbnail   *string
	Description *string
	Category    *string
	Duration    *string
	IsLive      *bool
	IsShorts    *bool
}

// Video lists are inner-joined with their channel (Video.Channel is set,
// rows with a missing channel are dropped) and ordered newest first.
type VideoStore interface {
	// GetVideos filters by exact category when non-empty; limit <= 0 means all.
	GetVideos(ctx context.Context, limit int, category string) ([]entity.Video, error)
	GetVideo(ctx context.Context, id string) (*entity.Video, error)
	GetVideosByChannel(ctx context.Context, channelID string) ([]entity.Video, error)
	GetVideosByChannels(ctx context.Context, channelIDs []string) ([]entity.Video, error)
	GetVideosByIDs(ctx context.Context, ids []string) ([]entity.Video, error)
	// SearchVideos matches a case-insensitive substring of title or description.
	SearchVideos(ctx context.Context, query string) ([]entity.Video, error)
	CreateVideo(ctx context.Context, video *entity.Video) error
	UpdateVideo(ctx context.Context, id string, upd VideoUpdate) (*entity.Video, error)
	// DeleteVideo also removes likes, comments, history and playlist entries.
	DeleteVideo(ctx context.Context, id string) (bool, error)
	IncrementViewCount(ctx context.Context, id string) (bool, error)
}

// SpaceWithChannels is a space with its derived fields filled in.
type SpaceWithChannels struct {
	entity.Space
	Channels   []entity.Channel `json:"channels"`
	VideoCount int64            `json:"videoCount"`
}

type SpaceUpdate struct {
	Name        *string
	Description *string
	ChannelIDs  *[]string
	Icon        *string
	Color       *string
}

type SpaceStore interface {
	GetSpace(ctx context.Context, id string) (*SpaceWithChannels, error)
	GetSpacesByUser(ctx context.Context, userID string) ([]SpaceWithChannels, error)
	CreateSpace(ctx context.Context, space *entity.Space) error
	UpdateSpace(ctx context.Context, id string, upd SpaceUpdate) (*entity.Space, error)
	DeleteSpace(ctx context.Context, id string) (bool, error)
}

type SubscriptionStore interface {
	// Subscribe is idempotent and returns the existing row on repeat calls.
	Subscribe(ctx context.Context, userID, channelID string) (*entity.Subscription, error)
	Unsubscribe(ctx context.Context, userID, channelID string) (bool, error)
	GetSubscriptions(ctx context.Context, userID string) ([]entity.Channel, error)
	IsSubscribed(ctx context.Context, userID, channelID string) (bool, error)
	GetSubscriberIDs(ctx context.Context, channelID string) ([]string, error)
}

const (
	CommentSortRecent  = "recent"
	CommentSortPopular = "popular"
)

type CommentQuery struct {
	Limit  int
	Offset int
	SortBy string
}

type CommentStore interface {
	GetComment(ctx context.Context, id string) (*entity.Comment, error)
	// GetCommentsByVideo returns a flat page with User preloaded; threading
	// is the caller's job.
	GetCommentsByVideo(ctx context.Context, videoID string, q CommentQuery) ([]entity.Comment, error)
	// CreateComment rejects unknown videos, users and parents, and parents
	// that belong to another video, with ErrInvalidReference.
	CreateComment(ctx context.Context, comment *entity.Comment) error
	UpdateComment(ctx context.Context, id, content string) (*entity.Comment, error)
	// DeleteComment also removes direct replies.
	DeleteComment(ctx context.Context, id string) (bool, error)
	LikeComment(ctx context.Context, id string) (bool, error)
}

type LikeStore interface {
	// ToggleLike: no row creates one, same type removes it (returns nil),
	// other type switches it.
	ToggleLike(ctx context.Context, userID, videoID, likeType string) (*entity.Like, error)
	GetLike(ctx context.Context, userID, videoID string) (*entity.Like, error)
	GetLikeCounts(ctx context.Context, videoID string) (entity.LikeCounts, error)
}

type WatchHistoryStore interface {
	AddToWatchHistory(ctx context.Context, entry *entity.WatchHistory) error
	// GetWatchHistory returns entries newest first with Video and
	// Video.Channel preloaded; limit <= 0 means all.
	GetWatchHistory(ctx context.Context, userID string, limit int) ([]entity.WatchHistory, error)
	ClearWatchHistory(ctx context.Context, userID string) error
}

type PlaylistUpdate struct {
	Name        *string
	Description *string
	IsPublic    *bool
}

type PlaylistStore interface {
	GetPlaylist(ctx context.Context, id string) (*entity.Playlist, error)
	GetPlaylistsByUser(ctx context.Context, userID string) ([]entity.Playlist, error)
	CreatePlaylist(ctx context.Context, playlist *entity.Playlist) error
	UpdatePlaylist(ctx context.Context, id string, upd PlaylistUpdate) (*entity.Playlist, error)
	// DeletePlaylist also removes its entries.
	DeletePlaylist(ctx context.Context, id string) (bool, error)
	// AddVideoToPlaylist appends at the end; adding a present video returns
	// the existing entry.
	AddVideoToPlaylist(ctx context.Context, playlistID, videoID string) (*entity.PlaylistVideo, error)
	RemoveVideoFromPlaylist(ctx context.Context, playlistID, videoID string) (bool, error)
	// GetPlaylistVideos orders by position with Video.Channel preloaded.
	GetPlaylistVideos(ctx context.Context, playlistID string) ([]entity.PlaylistVideo, error)
}

type NotificationStore interface {
	CreateNotification(ctx context.Context, n *entity.Notification) error
	GetNotification(ctx context.Context, id string) (*entity.Notification, error)
	GetNotifications(ctx context.Context, userID string, limit, offset int) ([]entity.Notification, error)
	GetUnreadNotificationCount(ctx context.Context, userID string) (int64, error)
	MarkNotificationRead(ctx context.Context, id string) (bool, error)
	MarkAllNotificationsRead(ctx context.Context, userID string) (int64, error)
}

// ValidLikeType reports whether t is "like" or "dislike".
func ValidLikeType(t string) bool {
	return t == entity.LikeTypeLike || t == entity.LikeTypeDislike
}
