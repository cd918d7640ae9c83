package sqlstore

import (
	"context"
	"time"

	"anoa.com/vidspace/internal/entity"
	"anoa.com/vidspace/internal/storage"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (s *Store) GetComment(ctx context.Context, id string) (*entity.Comment, error) {
	var c entity.Comment
	if err := findOne(s.conn(ctx).Preload("User").Where("id = ?", id), &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) GetCommentsByVideo(ctx context.Context, videoID string, q storage.CommentQuery) ([]entity.Comment, error) {
	db := s.conn(ctx).Preload("User").Where("video_id = ?", videoID)
	if q.SortBy == storage.CommentSortPopular {
		db = db.Order("likes DESC")
	}
	db = db.Order("created_at DESC").Order("id DESC")
	if q.Offset > 0 {
		db = db.Offset(q.Offset)
	}
	if q.Limit > 0 {
		db = db.Limit(q.Limit)
	}

	out := make([]entity.Comment, 0)
	return out, db.Find(&out).Error
}

func (s *Store) CreateComment(ctx context.Context, comment *entity.Comment) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRow(tx, &entity.Video{}, comment.VideoID); err != nil {
			return err
		}
		if err := requireRow(tx, &entity.User{}, comment.UserID); err != nil {
			return err
		}
		if comment.ParentID != nil {
			ok, err := exists(tx, &entity.Comment{}, "id = ? AND video_id = ?", *comment.ParentID, comment.VideoID)
			if err != nil {
				return err
			}
			if !ok {
				return storage.ErrInvalidReference
			}
		}

		comment.Likes = 0
		return translate(tx.Omit(clause.Associations).Create(comment).Error)
	})
}

func (s *Store) UpdateComment(ctx context.Context, id, content string) (*entity.Comment, error) {
	res := s.conn(ctx).Model(&entity.Comment{}).Where("id = ?", id).Updates(map[string]any{
		"content":    content,
		"updated_at": time.Now(),
	})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, storage.ErrNotFound
	}
	return s.GetComment(ctx, id)
}

func (s *Store) DeleteComment(ctx context.Context, id string) (bool, error) {
	deleted := false
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&entity.Comment{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		deleted = true
		return tx.Where("parent_id = ?", id).Delete(&entity.Comment{}).Error
	})
	return deleted, err
}

func (s *Store) LikeComment(ctx context.Context, id string) (bool, error) {
	res := s.conn(ctx).
		Model(&entity.Comment{}).
		Where("id = ?", id).
		UpdateColumn("likes", gorm.Expr("likes + ?", 1))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
