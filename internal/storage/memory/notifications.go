package memory

import (
	"context"
	"sort"

	"anoa.com/vidspace/internal/entity"
	"anoa.com/vidspace/internal/storage"
)

func (s *Store) CreateNotification(_ context.Context, n *entity.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[n.UserID]; !ok {
		return storage.ErrInvalidReference
	}
	if n.ID == "" {
		n.ID = entity.NewID()
	}
	n.IsRead = false
	n.CreatedAt = s.now()

	s.notifications[n.ID] = copyNotification(n)
	return nil
}

func (s *Store) GetNotification(_ context.Context, id string) (*entity.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.notifications[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return copyNotification(n), nil
}

func (s *Store) GetNotifications(_ context.Context, userID string, limit, offset int) ([]entity.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entity.Notification, 0)
	for _, n := range s.notifications {
		if n.UserID == userID {
			out = append(out, *copyNotification(n))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return newer(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID)
	})

	if offset > 0 {
		if offset >= len(out) {
			return []entity.Notification{}, nil
		}
		out = out[offset:]
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) GetUnreadNotificationCount(_ context.Context, userID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, n := range s.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (s *Store) MarkNotificationRead(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notifications[id]
	if !ok {
		return false, nil
	}
	n.IsRead = true
	return true, nil
}

func (s *Store) MarkAllNotificationsRead(_ context.Context, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var updated int64
	for _, n := range s.notifications {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			updated++
		}
	}
	return updated, nil
}
