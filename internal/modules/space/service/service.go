package space

import (
	"context"
	"errors"
	"strings"

	"anoa.com/vidspace/internal/entity"
	"anoa.com/vidspace/internal/modules/shared"
	"anoa.com/vidspace/internal/modules/space/dto"
	"anoa.com/vidspace/internal/storage"
	"anoa.com/vidspace/pkg/apperror"
)

type SpaceService interface {
	GetSpacesByUser(ctx context.Context, userID string) ([]storage.SpaceWithChannels, error)
	GetSpace(ctx context.Context, id string) (*storage.SpaceWithChannels, error)
	// GetSpaceVideos is the feed of every channel still in the space.
	GetSpaceVideos(ctx context.Context, id string) ([]entity.Video, error)
	CreateSpace(ctx context.Context, userID string, req dto.CreateSpaceRequest) (*storage.SpaceWithChannels, error)
	UpdateSpace(ctx context.Context, userID, id string, req dto.UpdateSpaceRequest) (*storage.SpaceWithChannels, error)
	DeleteSpace(ctx context.Context, userID, id string) error
}

type spaceService struct {
	store storage.Storage
}

func NewSpaceService(store storage.Storage) SpaceService {
	return &spaceService{store: store}
}

func (s *spaceService) GetSpacesByUser(ctx context.Context, userID string) ([]storage.SpaceWithChannels, error) {
	return s.store.GetSpacesByUser(ctx, userID)
}

func (s *spaceService) GetSpace(ctx context.Context, id string) (*storage.SpaceWithChannels, error) {
	sp, err := s.store.GetSpace(ctx, id)
	if err != nil {
		return nil, shared.StorageError(err, "space")
	}
	return sp, nil
}

func (s *spaceService) GetSpaceVideos(ctx context.Context, id string) ([]entity.Video, error) {
	sp, err := s.GetSpace(ctx, id)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(sp.Channels))
	for i, ch := range sp.Channels {
		ids[i] = ch.ID
	}
	return s.store.GetVideosByChannels(ctx, ids)
}

// channelSet dedupes ids and rejects ones that name no channel.
func (s *spaceService) channelSet(ctx context.Context, ids []string) ([]string, error) {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		_, err := s.store.GetChannel(ctx, id)
		switch {
		case errors.Is(err, storage.ErrNotFound):
			return nil, apperror.BadRequest("unknown channel " + id)
		case err != nil:
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func (s *spaceService) CreateSpace(ctx context.Context, userID string, req dto.CreateSpaceRequest) (*storage.SpaceWithChannels, error) {
	channelIDs, err := s.channelSet(ctx, req.ChannelIDs)
	if err != nil {
		return nil, err
	}

	sp := &entity.Space{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		UserID:      userID,
		ChannelIDs:  channelIDs,
		Icon:        req.Icon,
		Color:       req.Color,
	}
	if err := s.store.CreateSpace(ctx, sp); err != nil {
		return nil, shared.StorageError(err, "space")
	}
	return s.GetSpace(ctx, sp.ID)
}

func (s *spaceService) owned(ctx context.Context, userID, id string) error {
	sp, err := s.GetSpace(ctx, id)
	if err != nil {
		return err
	}
	if sp.UserID != userID {
		return apperror.Forbidden("you do not own this space")
	}
	return nil
}

func (s *spaceService) UpdateSpace(ctx context.Context, userID, id string, req dto.UpdateSpaceRequest) (*storage.SpaceWithChannels, error) {
	if err := s.owned(ctx, userID, id); err != nil {
		return nil, err
	}

	upd := storage.SpaceUpdate{
		Description: req.Description,
		Icon:        req.Icon,
		Color:       req.Color,
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperror.BadRequest("name must not be empty")
		}
		upd.Name = &name
	}
	if req.ChannelIDs != nil {
		ids, err := s.channelSet(ctx, *req.ChannelIDs)
		if err != nil {
			return nil, err
		}
		upd.ChannelIDs = &ids
	}

	if _, err := s.store.UpdateSpace(ctx, id, upd); err != nil {
		return nil, shared.StorageError(err, "space")
	}
	return s.GetSpace(ctx, id)
}

func (s *spaceService) DeleteSpace(ctx context.Context, userID, id string) error {
	if err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	ok, err := s.store.DeleteSpace(ctx, id)
	return shared.NotFoundIfFalse(ok, err, "space")
}
