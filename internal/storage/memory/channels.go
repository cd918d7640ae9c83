package memory

import (
	"context"
	"sort"

	"anoa.com/vidspace/internal/entity"
	"anoa.com/vidspace/internal/storage"
)

func (s *Store) GetChannel(_ context.Context, id string) (*entity.Channel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ch, ok := s.channels[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return copyChannel(ch), nil
}

func (s *Store) GetChannelByUsername(_ context.Context, username string) (*entity.Channel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, ch := range s.channels {
		if ch.Username == username {
			return copyChannel(ch), nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *Store) GetChannelByUserID(_ context.Context, userID string) (*entity.Channel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, ch := range s.channels {
		if ch.UserID == userID {
			return copyChannel(ch), nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *Store) GetChannels(_ context.Context) ([]entity.Channel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entity.Channel, 0, len(s.channels))
	for _, ch := range s.channels {
		out = append(out, *copyChannel(ch))
	}
	sort.Slice(out, func(i, j int) bool {
		return newer(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID)
	})
	return out, nil
}

func (s *Store) CreateChannel(_ context.Context, channel *entity.Channel) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[channel.UserID]; !ok {
		return storage.ErrInvalidReference
	}
	for _, ch := range s.channels {
		if ch.UserID == channel.UserID || ch.Username == channel.Username {
			return storage.ErrDuplicate
		}
	}

	if channel.ID == "" {
		channel.ID = entity.NewID()
	}
	channel.Verified = false
	channel.Subscribers = 0
	channel.CreatedAt = s.now()

	s.channels[channel.ID] = copyChannel(channel)
	return nil
}

func (s *Store) UpdateChannel(_ context.Context, id string, upd storage.ChannelUpdate) (*entity.Channel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, ok := s.channels[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	if upd.Username != nil {
		for _, other := range s.channels {
			if other.ID != id && other.Username == *upd.Username {
				return nil, storage.ErrDuplicate
			}
		}
		ch.Username = *upd.Username
	}
	if upd.Name != nil {
		ch.Name = *upd.Name
	}
	if upd.Avatar != nil {
		ch.Avatar = strPtr(*upd.Avatar)
	}
	if upd.Description != nil {
		ch.Description = strPtr(*upd.Description)
	}
	return copyChannel(ch), nil
}
