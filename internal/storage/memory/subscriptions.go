package memory

import (
	"context"
	"sort"

	"anoa.com/vidspace/internal/entity"
	"anoa.com/vidspace/internal/storage"
)

func subscriptionKey(userID, channelID string) string {
	return userID + "\x00" + channelID
}

func (s *Store) Subscribe(_ context.Context, userID, channelID string) (*entity.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[userID]; !ok {
		return nil, storage.ErrInvalidReference
	}
	ch, ok := s.channels[channelID]
	if !ok {
		return nil, storage.ErrInvalidReference
	}

	key := subscriptionKey(userID, channelID)
	if existing, ok := s.subscriptions[key]; ok {
		sub := *existing
		return &sub, nil
	}

	sub := &entity.Subscription{
		ID:        entity.NewID(),
		UserID:    userID,
		ChannelID: channelID,
		CreatedAt: s.now(),
	}
	s.subscriptions[key] = sub
	ch.Subscribers++

	out := *sub
	return &out, nil
}

func (s *Store) Unsubscribe(_ context.Context, userID, channelID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := subscriptionKey(userID, channelID)
	if _, ok := s.subscriptions[key]; !ok {
		return false, nil
	}
	delete(s.subscriptions, key)
	if ch, ok := s.channels[channelID]; ok && ch.Subscribers > 0 {
		ch.Subscribers--
	}
	return true, nil
}

func (s *Store) GetSubscriptions(_ context.Context, userID string) ([]entity.Channel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	subs := make([]*entity.Subscription, 0)
	for _, sub := range s.subscriptions {
		if sub.UserID == userID {
			subs = append(subs, sub)
		}
	}
	sort.Slice(subs, func(i, j int) bool {
		return newer(subs[i].CreatedAt, subs[j].CreatedAt, subs[i].ID, subs[j].ID)
	})

	out := make([]entity.Channel, 0, len(subs))
	for _, sub := range subs {
		if ch, ok := s.channels[sub.ChannelID]; ok {
			out = append(out, *ch)
		}
	}
	return out, nil
}

func (s *Store) IsSubscribed(_ context.Context, userID, channelID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.subscriptions[subscriptionKey(userID, channelID)]
	return ok, nil
}

func (s *Store) GetSubscriberIDs(_ context.Context, channelID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0)
	for _, sub := range s.subscriptions {
		if sub.ChannelID == channelID {
			out = append(out, sub.UserID)
		}
	}
	sort.Strings(out)
	return out, nil
}
