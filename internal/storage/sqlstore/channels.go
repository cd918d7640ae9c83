package sqlstore

import (
	"context"

	"anoa.com/vidspace/internal/entity"
	"anoa.com/vidspace/internal/storage"
	"gorm.io/gorm"
)

func (s *Store) GetChannel(ctx context.Context, id string) (*entity.Channel, error) {
	var ch entity.Channel
	if err := findOne(s.conn(ctx).Where("id = ?", id), &ch); err != nil {
		return nil, err
	}
	return &ch, nil
}

func (s *Store) GetChannelByUsername(ctx context.Context, username string) (*entity.Channel, error) {
	var ch entity.Channel
	if err := findOne(s.conn(ctx).Where("username = ?", username), &ch); err != nil {
		return nil, err
	}
	return &ch, nil
}

func (s *Store) GetChannelByUserID(ctx context.Context, userID string) (*entity.Channel, error) {
	var ch entity.Channel
	if err := findOne(s.conn(ctx).Where("user_id = ?", userID), &ch); err != nil {
		return nil, err
	}
	return &ch, nil
}

func (s *Store) GetChannels(ctx context.Context) ([]entity.Channel, error) {
	out := make([]entity.Channel, 0)
	err := s.conn(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Find(&out).Error
	return out, err
}

func (s *Store) CreateChannel(ctx context.Context, channel *entity.Channel) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRow(tx, &entity.User{}, channel.UserID); err != nil {
			return err
		}
		taken, err := exists(tx, &entity.Channel{}, "user_id = ? OR username = ?", channel.UserID, channel.Username)
		if err != nil {
			return err
		}
		if taken {
			return storage.ErrDuplicate
		}

		channel.Verified = false
		channel.Subscribers = 0
		return translate(tx.Create(channel).Error)
	})
}

func (s *Store) UpdateChannel(ctx context.Context, id string, upd storage.ChannelUpdate) (*entity.Channel, error) {
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := exists(tx, &entity.Channel{}, "id = ?", id)
		if err != nil {
			return err
		}
		if !found {
			return storage.ErrNotFound
		}

		fields := map[string]any{}
		if upd.Username != nil {
			taken, err := exists(tx, &entity.Channel{}, "username = ? AND id <> ?", *upd.Username, id)
			if err != nil {
				return err
			}
			if taken {
				return storage.ErrDuplicate
			}
			fields["username"] = *upd.Username
		}
		if upd.Name != nil {
			fields["name"] = *upd.Name
		}
		if upd.Avatar != nil {
			fields["avatar"] = *upd.Avatar
		}
		if upd.Description != nil {
			fields["description"] = *upd.Description
		}
		if len(fields) == 0 {
			return nil
		}
		return translate(tx.Model(&entity.Channel{}).Where("id = ?", id).Updates(fields).Error)
	})
	if err != nil {
		return nil, err
	}
	return s.GetChannel(ctx, id)
}
