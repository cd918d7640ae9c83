package memory

import (
	"context"
	"sort"

	"anoa.com/vidspace/internal/entity"
	"anoa.com/vidspace/internal/storage"
)

func (s *Store) AddToWatchHistory(_ context.Context, entry *entity.WatchHistory) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[entry.UserID]; !ok {
		return storage.ErrInvalidReference
	}
	if _, ok := s.videos[entry.VideoID]; !ok {
		return storage.ErrInvalidReference
	}
	if entry.WatchDuration < 0 {
		return storage.ErrInvalidInput
	}

	if entry.ID == "" {
		entry.ID = entity.NewID()
	}
	if entry.WatchedAt.IsZero() {
		entry.WatchedAt = s.now()
	}

	stored := *entry
	stored.Video = nil
	s.history[entry.ID] = &stored
	return nil
}

func (s *Store) GetWatchHistory(_ context.Context, userID string, limit int) ([]entity.WatchHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entity.WatchHistory, 0)
	for _, h := range s.history {
		if h.UserID != userID {
			continue
		}
		v, ok := s.videos[h.VideoID]
		if !ok {
			continue
		}
		joined, ok := s.videoWithChannel(v)
		if !ok {
			continue
		}
		entry := *h
		entry.Video = &joined
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool {
		return newer(out[i].WatchedAt, out[j].WatchedAt, out[i].ID, out[j].ID)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) ClearWatchHistory(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, h := range s.history {
		if h.UserID == userID {
			delete(s.history, key)
		}
	}
	return nil
}
