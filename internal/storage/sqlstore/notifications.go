package sqlstore

import (
	"context"

	"anoa.com/vidspace/internal/entity"
	"gorm.io/gorm"
)

func (s *Store) CreateNotification(ctx context.Context, n *entity.Notification) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRow(tx, &entity.User{}, n.UserID); err != nil {
			return err
		}
		n.IsRead = false
		return translate(tx.Create(n).Error)
	})
}

func (s *Store) GetNotification(ctx context.Context, id string) (*entity.Notification, error) {
	var n entity.Notification
	if err := findOne(s.conn(ctx).Where("id = ?", id), &n); err != nil {
		return nil, err
	}
	return &n, nil
}

func (s *Store) GetNotifications(ctx context.Context, userID string, limit, offset int) ([]entity.Notification, error) {
	q := s.conn(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC")
	if offset > 0 {
		q = q.Offset(offset)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	out := make([]entity.Notification, 0)
	return out, q.Find(&out).Error
}

func (s *Store) GetUnreadNotificationCount(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := s.conn(ctx).
		Model(&entity.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (s *Store) MarkNotificationRead(ctx context.Context, id string) (bool, error) {
	res := s.conn(ctx).Model(&entity.Notification{}).Where("id = ?", id).Update("is_read", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *Store) MarkAllNotificationsRead(ctx context.Context, userID string) (int64, error) {
	res := s.conn(ctx).
		Model(&entity.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}
