package sqlstore

import (
	"context"

	"anoa.com/vidspace/internal/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Subscribe inserts with ON CONFLICT DO NOTHING and bumps the counter only
// when a row was actually written, so repeats never double count.
func (s *Store) Subscribe(ctx context.Context, userID, channelID string) (*entity.Subscription, error) {
	var sub entity.Subscription
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRow(tx, &entity.User{}, userID); err != nil {
			return err
		}
		if err := requireRow(tx, &entity.Channel{}, channelID); err != nil {
			return err
		}

		row := entity.Subscription{UserID: userID, ChannelID: channelID}
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "channel_id"}},
			DoNothing: true,
		}).Create(&row)
		if res.Error != nil {
			return translate(res.Error)
		}
		if res.RowsAffected > 0 {
			if err := tx.Model(&entity.Channel{}).
				Where("id = ?", channelID).
				UpdateColumn("subscribers", gorm.Expr("subscribers + ?", 1)).Error; err != nil {
				return err
			}
		}

		return findOne(tx.Where("user_id = ? AND channel_id = ?", userID, channelID), &sub)
	})
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (s *Store) Unsubscribe(ctx context.Context, userID, channelID string) (bool, error) {
	removed := false
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND channel_id = ?", userID, channelID).Delete(&entity.Subscription{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		removed = true
		return tx.Model(&entity.Channel{}).
			Where("id = ? AND subscribers > 0", channelID).
			UpdateColumn("subscribers", gorm.Expr("subscribers - ?", 1)).Error
	})
	return removed, err
}

func (s *Store) GetSubscriptions(ctx context.Context, userID string) ([]entity.Channel, error) {
	out := make([]entity.Channel, 0)
	err := s.conn(ctx).
		Model(&entity.Channel{}).
		Select("channels.*").
		Joins("JOIN subscriptions ON subscriptions.channel_id = channels.id").
		Where("subscriptions.user_id = ?", userID).
		Order("subscriptions.created_at DESC").
		Order("subscriptions.id DESC").
		Find(&out).Error
	return out, err
}

func (s *Store) IsSubscribed(ctx context.Context, userID, channelID string) (bool, error) {
	return exists(s.conn(ctx), &entity.Subscription{}, "user_id = ? AND channel_id = ?", userID, channelID)
}

func (s *Store) GetSubscriberIDs(ctx context.Context, channelID string) ([]string, error) {
	out := make([]string, 0)
	err := s.conn(ctx).
		Model(&entity.Subscription{}).
		Where("channel_id = ?", channelID).
		Order("user_id").
		Pluck("user_id", &out).Error
	return out, err
}
