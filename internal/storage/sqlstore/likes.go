package sqlstore

import (
	"context"

	"anoa.com/vidspace/internal/entity"
	"anoa.com/vidspace/internal/storage"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ToggleLike runs in one transaction. Deleting a same-type row means the
// user clicked the active reaction again; otherwise the upsert creates the
// row or switches its type.
func (s *Store) ToggleLike(ctx context.Context, userID, videoID, likeType string) (*entity.Like, error) {
	if !storage.ValidLikeType(likeType) {
		return nil, storage.ErrInvalidInput
	}

	var out *entity.Like
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRow(tx, &entity.User{}, userID); err != nil {
			return err
		}
		if err := requireRow(tx, &entity.Video{}, videoID); err != nil {
			return err
		}

		res := tx.Where("user_id = ? AND video_id = ? AND type = ?", userID, videoID, likeType).Delete(&entity.Like{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}

		row := entity.Like{UserID: userID, VideoID: videoID, Type: likeType}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "video_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"type"}),
		}).Create(&row).Error
		if err != nil {
			return translate(err)
		}

		var stored entity.Like
		if err := findOne(tx.Where("user_id = ? AND video_id = ?", userID, videoID), &stored); err != nil {
			return err
		}
		out = &stored
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) GetLike(ctx context.Context, userID, videoID string) (*entity.Like, error) {
	var l entity.Like
	if err := findOne(s.conn(ctx).Where("user_id = ? AND video_id = ?", userID, videoID), &l); err != nil {
		return nil, err
	}
	return &l, nil
}

func (s *Store) GetLikeCounts(ctx context.Context, videoID string) (entity.LikeCounts, error) {
	type row struct {
		Type  string
		Count int64
	}
	var rows []row
	err := s.conn(ctx).
		Model(&entity.Like{}).
		Select("type, count(*) as count").
		Where("video_id = ?", videoID).
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return entity.LikeCounts{}, err
	}

	var counts entity.LikeCounts
	for _, r := range rows {
		switch r.Type {
		case entity.LikeTypeLike:
			counts.Likes = r.Count
		case entity.LikeTypeDislike:
			counts.Dislikes = r.Count
		}
	}
	return counts, nil
}
