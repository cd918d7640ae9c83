// Package memory is a map-backed storage.Storage. All access goes through
// one RWMutex, so it is safe for concurrent handlers; data is lost on exit.
package memory

import (
	"sort"
	"strings"
	"sync"
	"time"

	"anoa.com/vidspace/internal/entity"
	"anoa.com/vidspace/internal/storage"
	"gorm.io/datatypes"
)

type Store struct {
	mu sync.RWMutex

	users         map[string]*entity.User
	channels      map[string]*entity.Channel
	videos        map[string]*entity.Video
	spaces        map[string]*entity.Space
	subscriptions map[string]*entity.Subscription
	comments      map[string]*entity.Comment
	likes         map[string]*entity.Like
	history       map[string]*entity.WatchHistory
	playlists     map[string]*entity.Playlist
	playlistItems map[string]*entity.PlaylistVideo
	notifications map[string]*entity.Notification

	now func() time.Time
}

var _ storage.Storage = (*Store)(nil)

func New() *Store {
	return &Store{
		users:         make(map[string]*entity.User),
		channels:      make(map[string]*entity.Channel),
		videos:        make(map[string]*entity.Video),
		spaces:        make(map[string]*entity.Space),
		subscriptions: make(map[string]*entity.Subscription),
		comments:      make(map[string]*entity.Comment),
		likes:         make(map[string]*entity.Like),
		history:       make(map[string]*entity.WatchHistory),
		playlists:     make(map[string]*entity.Playlist),
		playlistItems: make(map[string]*entity.PlaylistVideo),
		notifications: make(map[string]*entity.Notification),
		now:           time.Now,
	}
}

// WithClock replaces the time source, for deterministic tests.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func newer(a, b time.Time, idA, idB string) bool {
	if !a.Equal(b) {
		return a.After(b)
	}
	return idA > idB
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), needle)
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func jsonSlice(in []string) datatypes.JSONSlice[string] {
	return datatypes.JSONSlice[string](cloneStrings(in))
}

func strPtr(s string) *string {
	return &s
}

// clonePtr returns a fresh pointer to a copy of *p, or nil.
func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// The copy helpers below detach every pointer and slice field so neither
// the caller nor the store can reach the other's rows.

func copyUser(u *entity.User) *entity.User {
	c := *u
	c.Username = clonePtr(u.Username)
	c.Email = clonePtr(u.Email)
	c.Password = clonePtr(u.Password)
	c.FirstName = clonePtr(u.FirstName)
	c.LastName = clonePtr(u.LastName)
	c.ProfileImageURL = clonePtr(u.ProfileImageURL)
	c.BlockedChannels = jsonSlice(u.BlockedChannels)
	return &c
}

func copyChannel(ch *entity.Channel) *entity.Channel {
	c := *ch
	c.Avatar = clonePtr(ch.Avatar)
	c.Description = clonePtr(ch.Description)
	return &c
}

func copySpace(sp *entity.Space) *entity.Space {
	c := *sp
	c.Description = clonePtr(sp.Description)
	c.ChannelIDs = jsonSlice(sp.ChannelIDs)
	c.Icon = clonePtr(sp.Icon)
	c.Color = clonePtr(sp.Color)
	return &c
}

// copyVideo drops the joined channel; reads attach a fresh one.
func copyVideo(v *entity.Video) *entity.Video {
	c := *v
	c.VideoURL = clonePtr(v.VideoURL)
	c.StorageKey = clonePtr(v.StorageKey)
	c.Description = clonePtr(v.Description)
	c.Category = clonePtr(v.Category)
	c.Channel = nil
	return &c
}

func copyComment(cm *entity.Comment) *entity.Comment {
	c := *cm
	c.ParentID = clonePtr(cm.ParentID)
	c.User = nil
	return &c
}

func copyNotification(n *entity.Notification) *entity.Notification {
	c := *n
	c.VideoID = clonePtr(n.VideoID)
	c.ChannelID = clonePtr(n.ChannelID)
	c.Thumbnail = clonePtr(n.Thumbnail)
	return &c
}

func copyPlaylist(p *entity.Playlist) *entity.Playlist {
	c := *p
	c.Description = clonePtr(p.Description)
	return &c
}

// videoWithChannel joins v with its channel; ok is false for dangling rows.
// Callers hold at least a read lock.
func (s *Store) videoWithChannel(v *entity.Video) (entity.Video, bool) {
	ch, ok := s.channels[v.ChannelID]
	if !ok {
		return entity.Video{}, false
	}
	out := copyVideo(v)
	out.Channel = copyChannel(ch)
	return *out, true
}

// collectVideos joins, filters and sorts newest first. Callers hold a lock.
func (s *Store) collectVideos(keep func(*entity.Video) bool) []entity.Video {
	out := make([]entity.Video, 0)
	for _, v := range s.videos {
		if !keep(v) {
			continue
		}
		if joined, ok := s.videoWithChannel(v); ok {
			out = append(out, joined)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return newer(out[i].UploadedAt, out[j].UploadedAt, out[i].ID, out[j].ID)
	})
	return out
}
