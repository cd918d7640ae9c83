package subscription

import (
	"context"

	"anoa.com/vidspace/internal/entity"
	"anoa.com/vidspace/internal/modules/shared"
	"anoa.com/vidspace/internal/storage"
	"anoa.com/vidspace/pkg/metrics"
)

type SubscriptionService interface {
	GetSubscriptions(ctx context.Context, userID string) ([]entity.Channel, error)
	IsSubscribed(ctx context.Context, userID, channelID string) (bool, error)
	Subscribe(ctx context.Context, userID, channelID string) (*entity.Subscription, error)
	// Unsubscribe succeeds whether or not a subscription existed.
	Unsubscribe(ctx context.Context, userID, channelID string) error
}

type subscriptionService struct {
	store   storage.Storage
	metrics *metrics.Metrics
}

func NewSubscriptionService(store storage.Storage, m *metrics.Metrics) SubscriptionService {
	return &subscriptionService{store: store, metrics: m}
}

func (s *subscriptionService) GetSubscriptions(ctx context.Context, userID string) ([]entity.Channel, error) {
	return s.store.GetSubscriptions(ctx, userID)
}

func (s *subscriptionService) IsSubscribed(ctx context.Context, userID, channelID string) (bool, error) {
	return s.store.IsSubscribed(ctx, userID, channelID)
}

func (s *subscriptionService) Subscribe(ctx context.Context, userID, channelID string) (*entity.Subscription, error) {
	if _, err := s.store.GetChannel(ctx, channelID); err != nil {
		return nil, shared.StorageError(err, "channel")
	}

	sub, err := s.store.Subscribe(ctx, userID, channelID)
	if err != nil {
		return nil, shared.StorageError(err, "subscription")
	}
	s.metrics.RecordSubscription("subscribe")
	return sub, nil
}

func (s *subscriptionService) Unsubscribe(ctx context.Context, userID, channelID string) error {
	removed, err := s.store.Unsubscribe(ctx, userID, channelID)
	if err != nil {
		return err
	}
	if removed {
		s.metrics.RecordSubscription("unsubscribe")
	}
	return nil
}
