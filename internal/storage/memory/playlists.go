package memory

import (
	"context"
	"sort"

	"anoa.com/vidspace/internal/entity"
	"anoa.com/vidspace/internal/storage"
)

func playlistItemKey(playlistID, videoID string) string {
	return playlistID + "\x00" + videoID
}

func (s *Store) GetPlaylist(_ context.Context, id string) (*entity.Playlist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.playlists[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return copyPlaylist(p), nil
}

func (s *Store) GetPlaylistsByUser(_ context.Context, userID string) ([]entity.Playlist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entity.Playlist, 0)
	for _, p := range s.playlists {
		if p.UserID == userID {
			out = append(out, *copyPlaylist(p))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return newer(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID)
	})
	return out, nil
}

func (s *Store) CreatePlaylist(_ context.Context, playlist *entity.Playlist) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[playlist.UserID]; !ok {
		return storage.ErrInvalidReference
	}
	if playlist.ID == "" {
		playlist.ID = entity.NewID()
	}
	now := s.now()
	playlist.CreatedAt, playlist.UpdatedAt = now, now

	s.playlists[playlist.ID] = copyPlaylist(playlist)
	return nil
}

func (s *Store) UpdatePlaylist(_ context.Context, id string, upd storage.PlaylistUpdate) (*entity.Playlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.playlists[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.Description != nil {
		p.Description = strPtr(*upd.Description)
	}
	if upd.IsPublic != nil {
		p.IsPublic = *upd.IsPublic
	}
	p.UpdatedAt = s.now()

	return copyPlaylist(p), nil
}

func (s *Store) DeletePlaylist(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.playlists[id]; !ok {
		return false, nil
	}
	delete(s.playlists, id)
	for key, item := range s.playlistItems {
		if item.PlaylistID == id {
			delete(s.playlistItems, key)
		}
	}
	return true, nil
}

func (s *Store) AddVideoToPlaylist(_ context.Context, playlistID, videoID string) (*entity.PlaylistVideo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.playlists[playlistID]
	if !ok {
		return nil, storage.ErrInvalidReference
	}
	if _, ok := s.videos[videoID]; !ok {
		return nil, storage.ErrInvalidReference
	}

	key := playlistItemKey(playlistID, videoID)
	if existing, ok := s.playlistItems[key]; ok {
		out := *existing
		return &out, nil
	}

	position := 0
	for _, item := range s.playlistItems {
		if item.PlaylistID == playlistID && item.Position >= position {
			position = item.Position + 1
		}
	}

	now := s.now()
	item := &entity.PlaylistVideo{
		ID:         entity.NewID(),
		PlaylistID: playlistID,
		VideoID:    videoID,
		Position:   position,
		AddedAt:    now,
	}
	s.playlistItems[key] = item
	p.UpdatedAt = now

	out := *item
	return &out, nil
}

func (s *Store) RemoveVideoFromPlaylist(_ context.Context, playlistID, videoID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := playlistItemKey(playlistID, videoID)
	if _, ok := s.playlistItems[key]; !ok {
		return false, nil
	}
	delete(s.playlistItems, key)
	if p, ok := s.playlists[playlistID]; ok {
		p.UpdatedAt = s.now()
	}
	return true, nil
}

func (s *Store) GetPlaylistVideos(_ context.Context, playlistID string) ([]entity.PlaylistVideo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entity.PlaylistVideo, 0)
	for _, item := range s.playlistItems {
		if item.PlaylistID != playlistID {
			continue
		}
		v, ok := s.videos[item.VideoID]
		if !ok {
			continue
		}
		joined, ok := s.videoWithChannel(v)
		if !ok {
			continue
		}
		entry := *item
		entry.Video = &joined
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
