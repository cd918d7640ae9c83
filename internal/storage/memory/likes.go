package memory

import (
	"context"

	"anoa.com/vidspace/internal/entity"
	"anoa.com/vidspace/internal/storage"
)

func likeKey(userID, videoID string) string {
	return userID + "\x00" + videoID
}

func (s *Store) ToggleLike(_ context.Context, userID, videoID, likeType string) (*entity.Like, error) {
	if !storage.ValidLikeType(likeType) {
		return nil, storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[userID]; !ok {
		return nil, storage.ErrInvalidReference
	}
	if _, ok := s.videos[videoID]; !ok {
		return nil, storage.ErrInvalidReference
	}

	key := likeKey(userID, videoID)
	existing, ok := s.likes[key]
	switch {
	case !ok:
		l := &entity.Like{
			ID:        entity.NewID(),
			UserID:    userID,
			VideoID:   videoID,
			Type:      likeType,
			CreatedAt: s.now(),
		}
		s.likes[key] = l
		out := *l
		return &out, nil
	case existing.Type == likeType:
		delete(s.likes, key)
		return nil, nil
	default:
		existing.Type = likeType
		out := *existing
		return &out, nil
	}
}

func (s *Store) GetLike(_ context.Context, userID, videoID string) (*entity.Like, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.likes[likeKey(userID, videoID)]
	if !ok {
		return nil, storage.ErrNotFound
	}
	out := *l
	return &out, nil
}

func (s *Store) GetLikeCounts(_ context.Context, videoID string) (entity.LikeCounts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var counts entity.LikeCounts
	for _, l := range s.likes {
		if l.VideoID != videoID {
			continue
		}
		switch l.Type {
		case entity.LikeTypeLike:
			counts.Likes++
		case entity.LikeTypeDislike:
			counts.Dislikes++
		}
	}
	return counts, nil
}
