package sqlstore

import (
	"context"
	"errors"
	"time"

	"anoa.com/vidspace/internal/entity"
	"anoa.com/vidspace/internal/storage"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (s *Store) GetPlaylist(ctx context.Context, id string) (*entity.Playlist, error) {
	var p entity.Playlist
	if err := findOne(s.conn(ctx).Where("id = ?", id), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) GetPlaylistsByUser(ctx context.Context, userID string) ([]entity.Playlist, error) {
	out := make([]entity.Playlist, 0)
	err := s.conn(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&out).Error
	return out, err
}

func (s *Store) CreatePlaylist(ctx context.Context, playlist *entity.Playlist) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRow(tx, &entity.User{}, playlist.UserID); err != nil {
			return err
		}
		return translate(tx.Create(playlist).Error)
	})
}

func (s *Store) UpdatePlaylist(ctx context.Context, id string, upd storage.PlaylistUpdate) (*entity.Playlist, error) {
	fields := map[string]any{"updated_at": time.Now()}
	if upd.Name != nil {
		fields["name"] = *upd.Name
	}
	if upd.Description != nil {
		fields["description"] = *upd.Description
	}
	if upd.IsPublic != nil {
		fields["is_public"] = *upd.IsPublic
	}

	res := s.conn(ctx).Model(&entity.Playlist{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, storage.ErrNotFound
	}
	return s.GetPlaylist(ctx, id)
}

func (s *Store) DeletePlaylist(ctx context.Context, id string) (bool, error) {
	deleted := false
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("playlist_id = ?", id).Delete(&entity.PlaylistVideo{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&entity.Playlist{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	return deleted, err
}

// AddVideoToPlaylist locks the playlist row so concurrent appends get
// distinct positions.
func (s *Store) AddVideoToPlaylist(ctx context.Context, playlistID, videoID string) (*entity.PlaylistVideo, error) {
	var item entity.PlaylistVideo
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var p entity.Playlist
		if err := findOne(forUpdate(tx).Where("id = ?", playlistID), &p); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return storage.ErrInvalidReference
			}
			return err
		}
		if err := requireRow(tx, &entity.Video{}, videoID); err != nil {
			return err
		}

		err := findOne(tx.Where("playlist_id = ? AND video_id = ?", playlistID, videoID), &item)
		if err == nil {
			return nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return err
		}

		var last int
		if err := tx.Model(&entity.PlaylistVideo{}).
			Select("COALESCE(MAX(position), -1)").
			Where("playlist_id = ?", playlistID).
			Scan(&last).Error; err != nil {
			return err
		}

		item = entity.PlaylistVideo{PlaylistID: playlistID, VideoID: videoID, Position: last + 1}
		if err := tx.Omit(clause.Associations).Create(&item).Error; err != nil {
			return translate(err)
		}
		return tx.Model(&entity.Playlist{}).Where("id = ?", playlistID).Update("updated_at", time.Now()).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) RemoveVideoFromPlaylist(ctx context.Context, playlistID, videoID string) (bool, error) {
	removed := false
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("playlist_id = ? AND video_id = ?", playlistID, videoID).Delete(&entity.PlaylistVideo{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		removed = true
		return tx.Model(&entity.Playlist{}).Where("id = ?", playlistID).Update("updated_at", time.Now()).Error
	})
	return removed, err
}

func (s *Store) GetPlaylistVideos(ctx context.Context, playlistID string) ([]entity.PlaylistVideo, error) {
	out := make([]entity.PlaylistVideo, 0)
	err := s.conn(ctx).
		Select("playlist_videos.*").
		Joins("JOIN videos ON videos.id = playlist_videos.video_id").
		Joins("JOIN channels ON channels.id = videos.channel_id").
		Preload("Video.Channel").
		Where("playlist_videos.playlist_id = ?", playlistID).
		Order("playlist_videos.position ASC").
		Order("playlist_videos.id ASC").
		Find(&out).Error
	return out, err
}
