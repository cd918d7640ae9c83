package sqlstore

import (
	"context"

	"anoa.com/vidspace/internal/entity"
	"anoa.com/vidspace/internal/storage"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (s *Store) AddToWatchHistory(ctx context.Context, entry *entity.WatchHistory) error {
	if entry.WatchDuration < 0 {
		return storage.ErrInvalidInput
	}
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRow(tx, &entity.User{}, entry.UserID); err != nil {
			return err
		}
		if err := requireRow(tx, &entity.Video{}, entry.VideoID); err != nil {
			return err
		}
		return translate(tx.Omit(clause.Associations).Create(entry).Error)
	})
}

// GetWatchHistory inner-joins videos and channels so entries whose video
// lost its channel are skipped, then preloads the joined rows.
func (s *Store) GetWatchHistory(ctx context.Context, userID string, limit int) ([]entity.WatchHistory, error) {
	q := s.conn(ctx).
		Select("watch_history.*").
		Joins("JOIN videos ON videos.id = watch_history.video_id").
		Joins("JOIN channels ON channels.id = videos.channel_id").
		Preload("Video.Channel").
		Where("watch_history.user_id = ?", userID).
		Order("watch_history.watched_at DESC").
		Order("watch_history.id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	out := make([]entity.WatchHistory, 0)
	return out, q.Find(&out).Error
}

func (s *Store) ClearWatchHistory(ctx context.Context, userID string) error {
	return s.conn(ctx).Where("user_id = ?", userID).Delete(&entity.WatchHistory{}).Error
}
