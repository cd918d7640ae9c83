package memory

import (
	"context"
	"sort"

	"anoa.com/vidspace/internal/entity"
	"anoa.com/vidspace/internal/storage"
)

// withChannels derives channels and videoCount. Callers hold a lock.
func (s *Store) withChannels(sp *entity.Space) storage.SpaceWithChannels {
	out := storage.SpaceWithChannels{
		Space:    *copySpace(sp),
		Channels: make([]entity.Channel, 0, len(sp.ChannelIDs)),
	}

	present := make(map[string]struct{}, len(sp.ChannelIDs))
	for _, id := range sp.ChannelIDs {
		ch, ok := s.channels[id]
		if !ok {
			continue
		}
		if _, dup := present[id]; dup {
			continue
		}
		present[id] = struct{}{}
		out.Channels = append(out.Channels, *copyChannel(ch))
	}

	for _, v := range s.videos {
		if _, ok := present[v.ChannelID]; ok {
			out.VideoCount++
		}
	}
	return out
}

func (s *Store) GetSpace(_ context.Context, id string) (*storage.SpaceWithChannels, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sp, ok := s.spaces[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	out := s.withChannels(sp)
	return &out, nil
}

func (s *Store) GetSpacesByUser(_ context.Context, userID string) ([]storage.SpaceWithChannels, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	owned := make([]*entity.Space, 0)
	for _, sp := range s.spaces {
		if sp.UserID == userID {
			owned = append(owned, sp)
		}
	}
	sort.Slice(owned, func(i, j int) bool {
		return newer(owned[i].CreatedAt, owned[j].CreatedAt, owned[i].ID, owned[j].ID)
	})

	out := make([]storage.SpaceWithChannels, 0, len(owned))
	for _, sp := range owned {
		out = append(out, s.withChannels(sp))
	}
	return out, nil
}

func (s *Store) CreateSpace(_ context.Context, space *entity.Space) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[space.UserID]; !ok {
		return storage.ErrInvalidReference
	}
	if space.ID == "" {
		space.ID = entity.NewID()
	}
	space.Normalize()
	space.CreatedAt = s.now()

	s.spaces[space.ID] = copySpace(space)
	return nil
}

func (s *Store) UpdateSpace(_ context.Context, id string, upd storage.SpaceUpdate) (*entity.Space, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sp, ok := s.spaces[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	if upd.Name != nil {
		sp.Name = *upd.Name
	}
	if upd.Description != nil {
		sp.Description = strPtr(*upd.Description)
	}
	if upd.ChannelIDs != nil {
		sp.ChannelIDs = jsonSlice(*upd.ChannelIDs)
	}
	if upd.Icon != nil {
		sp.Icon = strPtr(*upd.Icon)
	}
	if upd.Color != nil {
		sp.Color = strPtr(*upd.Color)
	}
	return copySpace(sp), nil
}

func (s *Store) DeleteSpace(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.spaces[id]; !ok {
		return false, nil
	}
	delete(s.spaces, id)
	return true, nil
}
