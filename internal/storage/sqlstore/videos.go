package sqlstore

import (
	"context"

	"anoa.com/vidspace/internal/entity"
	"anoa.com/vidspace/internal/storage"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (s *Store) GetVideos(ctx context.Context, limit int, category string) ([]entity.Video, error) {
	q := s.videoQuery(ctx)
	if category != "" {
		q = q.Where("videos.category = ?", category)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	out := make([]entity.Video, 0)
	return out, q.Find(&out).Error
}

func (s *Store) GetVideo(ctx context.Context, id string) (*entity.Video, error) {
	var v entity.Video
	if err := findOne(s.videoQuery(ctx).Where("videos.id = ?", id), &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *Store) GetVideosByChannel(ctx context.Context, channelID string) ([]entity.Video, error) {
	out := make([]entity.Video, 0)
	err := s.videoQuery(ctx).Where("videos.channel_id = ?", channelID).Find(&out).Error
	return out, err
}

func (s *Store) GetVideosByChannels(ctx context.Context, channelIDs []string) ([]entity.Video, error) {
	out := make([]entity.Video, 0)
	if len(channelIDs) == 0 {
		return out, nil
	}
	err := s.videoQuery(ctx).Where("videos.channel_id IN ?", channelIDs).Find(&out).Error
	return out, err
}

func (s *Store) GetVideosByIDs(ctx context.Context, ids []string) ([]entity.Video, error) {
	out := make([]entity.Video, 0)
	if len(ids) == 0 {
		return out, nil
	}
	err := s.videoQuery(ctx).Where("videos.id IN ?", ids).Find(&out).Error
	return out, err
}

func (s *Store) SearchVideos(ctx context.Context, query string) ([]entity.Video, error) {
	pattern := containsPattern(query)
	out := make([]entity.Video, 0)
	err := s.videoQuery(ctx).
		Where(`(LOWER(videos.title) LIKE ? ESCAPE '\' OR LOWER(videos.description) LIKE ? ESCAPE '\')`, pattern, pattern).
		Find(&out).Error
	return out, err
}

func (s *Store) CreateVideo(ctx context.Context, video *entity.Video) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRow(tx, &entity.Channel{}, video.ChannelID); err != nil {
			return err
		}
		return translate(tx.Omit(clause.Associations).Create(video).Error)
	})
}

func (s *Store) UpdateVideo(ctx context.Context, id string, upd storage.VideoUpdate) (*entity.Video, error) {
	fields := map[string]any{}
	if upd.Title != nil {
		fields["title"] = *upd.Title
	}
	if upd.Thumbnail != nil {
		fields["thumbnail"] = *upd.Thumbnail
	}
	if upd.Description != nil {
		fields["description"] = *upd.Description
	}
	if upd.Category != nil {
		fields["category"] = *upd.Category
	}
	if upd.Duration != nil {
		fields["duration"] = *upd.Duration
	}
	if upd.IsLive != nil {
		fields["is_live"] = *upd.IsLive
	}
	if upd.IsShorts != nil {
		fields["is_shorts"] = *upd.IsShorts
	}

	if len(fields) > 0 {
		res := s.conn(ctx).Model(&entity.Video{}).Where("id = ?", id).Updates(fields)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, storage.ErrNotFound
		}
	}
	return s.GetVideo(ctx, id)
}

// DeleteVideo removes dependents explicitly; SQLite only enforces the
// declared cascades when foreign keys are switched on.
func (s *Store) DeleteVideo(ctx context.Context, id string) (bool, error) {
	deleted := false
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{&entity.Like{}, &entity.Comment{}, &entity.WatchHistory{}, &entity.PlaylistVideo{}} {
			if err := tx.Where("video_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}
		res := tx.Where("id = ?", id).Delete(&entity.Video{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	return deleted, err
}

func (s *Store) IncrementViewCount(ctx context.Context, id string) (bool, error) {
	res := s.conn(ctx).
		Model(&entity.Video{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
