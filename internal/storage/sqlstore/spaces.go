package sqlstore

import (
	"context"

	"anoa.com/vidspace/internal/entity"
	"anoa.com/vidspace/internal/storage"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// withChannels resolves channelIds in stored order, dropping ids that no
// longer exist, and counts their videos. One query pair per space.
func (s *Store) withChannels(ctx context.Context, sp entity.Space) (storage.SpaceWithChannels, error) {
	out := storage.SpaceWithChannels{Space: sp, Channels: make([]entity.Channel, 0, len(sp.ChannelIDs))}
	if len(sp.ChannelIDs) == 0 {
		return out, nil
	}

	var found []entity.Channel
	if err := s.conn(ctx).Where("id IN ?", []string(sp.ChannelIDs)).Find(&found).Error; err != nil {
		return out, err
	}
	byID := make(map[string]entity.Channel, len(found))
	for _, ch := range found {
		byID[ch.ID] = ch
	}

	present := make([]string, 0, len(found))
	seen := make(map[string]struct{}, len(found))
	for _, id := range sp.ChannelIDs {
		ch, ok := byID[id]
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		present = append(present, id)
		out.Channels = append(out.Channels, ch)
	}
	if len(present) == 0 {
		return out, nil
	}

	err := s.conn(ctx).Model(&entity.Video{}).Where("channel_id IN ?", present).Count(&out.VideoCount).Error
	return out, err
}

func (s *Store) GetSpace(ctx context.Context, id string) (*storage.SpaceWithChannels, error) {
	var sp entity.Space
	if err := findOne(s.conn(ctx).Where("id = ?", id), &sp); err != nil {
		return nil, err
	}
	out, err := s.withChannels(ctx, sp)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Store) GetSpacesByUser(ctx context.Context, userID string) ([]storage.SpaceWithChannels, error) {
	var spaces []entity.Space
	err := s.conn(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&spaces).Error
	if err != nil {
		return nil, err
	}

	out := make([]storage.SpaceWithChannels, 0, len(spaces))
	for _, sp := range spaces {
		full, err := s.withChannels(ctx, sp)
		if err != nil {
			return nil, err
		}
		out = append(out, full)
	}
	return out, nil
}

func (s *Store) CreateSpace(ctx context.Context, space *entity.Space) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRow(tx, &entity.User{}, space.UserID); err != nil {
			return err
		}
		return translate(tx.Create(space).Error)
	})
}

func (s *Store) UpdateSpace(ctx context.Context, id string, upd storage.SpaceUpdate) (*entity.Space, error) {
	fields := map[string]any{}
	if upd.Name != nil {
		fields["name"] = *upd.Name
	}
	if upd.Description != nil {
		fields["description"] = *upd.Description
	}
	if upd.ChannelIDs != nil {
		fields["channel_ids"] = datatypes.JSONSlice[string](append([]string{}, (*upd.ChannelIDs)...))
	}
	if upd.Icon != nil {
		fields["icon"] = *upd.Icon
	}
	if upd.Color != nil {
		fields["color"] = *upd.Color
	}

	if len(fields) > 0 {
		res := s.conn(ctx).Model(&entity.Space{}).Where("id = ?", id).Updates(fields)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, storage.ErrNotFound
		}
	}

	var sp entity.Space
	if err := findOne(s.conn(ctx).Where("id = ?", id), &sp); err != nil {
		return nil, err
	}
	return &sp, nil
}

func (s *Store) DeleteSpace(ctx context.Context, id string) (bool, error) {
	res := s.conn(ctx).Where("id = ?", id).Delete(&entity.Space{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
