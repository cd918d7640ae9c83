package memory

import (
	"context"
	"sort"

	"anoa.com/vidspace/internal/entity"
	"anoa.com/vidspace/internal/storage"
)

// commentWithUser copies c and attaches its author. Callers hold a lock.
func (s *Store) commentWithUser(c *entity.Comment) entity.Comment {
	out := *copyComment(c)
	if u, ok := s.users[c.UserID]; ok {
		out.User = copyUser(u)
	}
	return out
}

func (s *Store) GetComment(_ context.Context, id string) (*entity.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.comments[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	out := s.commentWithUser(c)
	return &out, nil
}

func (s *Store) GetCommentsByVideo(_ context.Context, videoID string, q storage.CommentQuery) ([]entity.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entity.Comment, 0)
	for _, c := range s.comments {
		if c.VideoID == videoID {
			out = append(out, s.commentWithUser(c))
		}
	}

	if q.SortBy == storage.CommentSortPopular {
		sort.Slice(out, func(i, j int) bool {
			if out[i].Likes != out[j].Likes {
				return out[i].Likes > out[j].Likes
			}
			return newer(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID)
		})
	} else {
		sort.Slice(out, func(i, j int) bool {
			return newer(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID)
		})
	}

	if q.Offset > 0 {
		if q.Offset >= len(out) {
			return []entity.Comment{}, nil
		}
		out = out[q.Offset:]
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (s *Store) CreateComment(_ context.Context, comment *entity.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.videos[comment.VideoID]; !ok {
		return storage.ErrInvalidReference
	}
	if _, ok := s.users[comment.UserID]; !ok {
		return storage.ErrInvalidReference
	}
	if comment.ParentID != nil {
		parent, ok := s.comments[*comment.ParentID]
		if !ok || parent.VideoID != comment.VideoID {
			return storage.ErrInvalidReference
		}
	}

	if comment.ID == "" {
		comment.ID = entity.NewID()
	}
	now := s.now()
	comment.Likes = 0
	comment.CreatedAt, comment.UpdatedAt = now, now

	s.comments[comment.ID] = copyComment(comment)
	return nil
}

func (s *Store) UpdateComment(_ context.Context, id, content string) (*entity.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	c.Content = content
	c.UpdatedAt = s.now()

	out := s.commentWithUser(c)
	return &out, nil
}

func (s *Store) DeleteComment(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.comments[id]; !ok {
		return false, nil
	}
	delete(s.comments, id)
	for key, c := range s.comments {
		if c.ParentID != nil && *c.ParentID == id {
			delete(s.comments, key)
		}
	}
	return true, nil
}

func (s *Store) LikeComment(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[id]
	if !ok {
		return false, nil
	}
	c.Likes++
	return true, nil
}
