package memory

import (
	"context"
	"strings"

	"anoa.com/vidspace/internal/entity"
	"anoa.com/vidspace/internal/storage"
)

func (s *Store) GetVideos(_ context.Context, limit int, category string) ([]entity.Video, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.collectVideos(func(v *entity.Video) bool {
		return category == "" || (v.Category != nil && *v.Category == category)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) GetVideo(_ context.Context, id string) (*entity.Video, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.videos[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	joined, ok := s.videoWithChannel(v)
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &joined, nil
}

func (s *Store) GetVideosByChannel(_ context.Context, channelID string) ([]entity.Video, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.collectVideos(func(v *entity.Video) bool {
		return v.ChannelID == channelID
	}), nil
}

func (s *Store) GetVideosByChannels(_ context.Context, channelIDs []string) ([]entity.Video, error) {
	if len(channelIDs) == 0 {
		return []entity.Video{}, nil
	}
	want := make(map[string]struct{}, len(channelIDs))
	for _, id := range channelIDs {
		want[id] = struct{}{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.collectVideos(func(v *entity.Video) bool {
		_, ok := want[v.ChannelID]
		return ok
	}), nil
}

func (s *Store) GetVideosByIDs(_ context.Context, ids []string) ([]entity.Video, error) {
	if len(ids) == 0 {
		return []entity.Video{}, nil
	}
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.collectVideos(func(v *entity.Video) bool {
		_, ok := want[v.ID]
		return ok
	}), nil
}

func (s *Store) SearchVideos(_ context.Context, query string) ([]entity.Video, error) {
	needle := strings.ToLower(query)

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.collectVideos(func(v *entity.Video) bool {
		if containsFold(v.Title, needle) {
			return true
		}
		return v.Description != nil && containsFold(*v.Description, needle)
	}), nil
}

func (s *Store) CreateVideo(_ context.Context, video *entity.Video) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.channels[video.ChannelID]; !ok {
		return storage.ErrInvalidReference
	}
	if video.ID == "" {
		video.ID = entity.NewID()
	}
	if video.UploadedAt.IsZero() {
		video.UploadedAt = s.now()
	}

	s.videos[video.ID] = copyVideo(video)
	return nil
}

func (s *Store) UpdateVideo(_ context.Context, id string, upd storage.VideoUpdate) (*entity.Video, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.videos[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	if upd.Title != nil {
		v.Title = *upd.Title
	}
	if upd.Thumbnail != nil {
		v.Thumbnail = *upd.Thumbnail
	}
	if upd.Description != nil {
		v.Description = strPtr(*upd.Description)
	}
	if upd.Category != nil {
		v.Category = strPtr(*upd.Category)
	}
	if upd.Duration != nil {
		v.Duration = *upd.Duration
	}
	if upd.IsLive != nil {
		v.IsLive = *upd.IsLive
	}
	if upd.IsShorts != nil {
		v.IsShorts = *upd.IsShorts
	}

	joined, ok := s.videoWithChannel(v)
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &joined, nil
}

func (s *Store) DeleteVideo(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.videos[id]; !ok {
		return false, nil
	}
	delete(s.videos, id)

	for key, l := range s.likes {
		if l.VideoID == id {
			delete(s.likes, key)
		}
	}
	for key, c := range s.comments {
		if c.VideoID == id {
			delete(s.comments, key)
		}
	}
	for key, h := range s.history {
		if h.VideoID == id {
			delete(s.history, key)
		}
	}
	for key, item := range s.playlistItems {
		if item.VideoID == id {
			delete(s.playlistItems, key)
		}
	}
	return true, nil
}

func (s *Store) IncrementViewCount(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.videos[id]
	if !ok {
		return false, nil
	}
	v.Views++
	return true, nil
}
