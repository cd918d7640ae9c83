package channel

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"anoa.com/vidspace/internal/entity"
	"anoa.com/vidspace/internal/modules/channel/dto"
	"anoa.com/vidspace/internal/modules/shared"
	"anoa.com/vidspace/internal/storage"
	"anoa.com/vidspace/pkg/apperror"
)

var handlePattern = regexp.MustCompile(`^[a-z0-9_.]{3,50}$`)

type ChannelService interface {
	GetChannels(ctx context.Context) ([]entity.Channel, error)
	GetChannel(ctx context.Context, id string) (*entity.Channel, error)
	GetChannelByUsername(ctx context.Context, username string) (*entity.Channel, error)
	GetMyChannel(ctx context.Context, userID string) (*entity.Channel, error)
	GetChannelVideos(ctx context.Context, id string) ([]entity.Video, error)
	CreateChannel(ctx context.Context, userID string, req dto.CreateChannelRequest) (*entity.Channel, error)
	UpdateChannel(ctx context.Context, userID, id string, req dto.UpdateChannelRequest) (*entity.Channel, error)
}

type channelService struct {
	store storage.Storage
}

func NewChannelService(store storage.Storage) ChannelService {
	return &channelService{store: store}
}

// NormalizeHandle lowercases a channel handle and drops a leading "@".
func NormalizeHandle(s string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "@"))
}

func validHandle(h string) error {
	if !handlePattern.MatchString(h) {
		return apperror.BadRequest("username must be 3-50 letters, digits, '_' or '.'")
	}
	return nil
}

func (s *channelService) GetChannels(ctx context.Context) ([]entity.Channel, error) {
	return s.store.GetChannels(ctx)
}

func (s *channelService) GetChannel(ctx context.Context, id string) (*entity.Channel, error) {
	ch, err := s.store.GetChannel(ctx, id)
	if err != nil {
		return nil, shared.StorageError(err, "channel")
	}
	return ch, nil
}

func (s *channelService) GetChannelByUsername(ctx context.Context, username string) (*entity.Channel, error) {
	ch, err := s.store.GetChannelByUsername(ctx, NormalizeHandle(username))
	if err != nil {
		return nil, shared.StorageError(err, "channel")
	}
	return ch, nil
}

func (s *channelService) GetMyChannel(ctx context.Context, userID string) (*entity.Channel, error) {
	ch, err := s.store.GetChannelByUserID(ctx, userID)
	if err != nil {
		return nil, shared.StorageError(err, "channel")
	}
	return ch, nil
}

func (s *channelService) GetChannelVideos(ctx context.Context, id string) ([]entity.Video, error) {
	if _, err := s.GetChannel(ctx, id); err != nil {
		return nil, err
	}
	return s.store.GetVideosByChannel(ctx, id)
}

func (s *channelService) CreateChannel(ctx context.Context, userID string, req dto.CreateChannelRequest) (*entity.Channel, error) {
	handle := NormalizeHandle(req.Username)
	if err := validHandle(handle); err != nil {
		return nil, err
	}

	_, err := s.store.GetChannelByUserID(ctx, userID)
	switch {
	case err == nil:
		return nil, apperror.BadRequest("user already has a channel")
	case !errors.Is(err, storage.ErrNotFound):
		return nil, err
	}

	ch := &entity.Channel{
		UserID:      userID,
		Name:        strings.TrimSpace(req.Name),
		Username:    handle,
		Avatar:      req.Avatar,
		Description: req.Description,
	}
	if err := s.store.CreateChannel(ctx, ch); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			// Lost a race with our own create, or the handle is taken.
			if _, mine := s.store.GetChannelByUserID(ctx, userID); mine == nil {
				return nil, apperror.BadRequest("user already has a channel")
			}
			return nil, apperror.BadRequest("channel username is already taken")
		}
		return nil, shared.StorageError(err, "channel")
	}
	return ch, nil
}

func (s *channelService) UpdateChannel(ctx context.Context, userID, id string, req dto.UpdateChannelRequest) (*entity.Channel, error) {
	ch, err := s.GetChannel(ctx, id)
	if err != nil {
		return nil, err
	}
	if ch.UserID != userID {
		return nil, apperror.Forbidden("you do not own this channel")
	}

	upd := storage.ChannelUpdate{
		Avatar:      req.Avatar,
		Description: req.Description,
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperror.BadRequest("name must not be empty")
		}
		upd.Name = &name
	}
	if req.Username != nil {
		handle := NormalizeHandle(*req.Username)
		if err := validHandle(handle); err != nil {
			return nil, err
		}
		upd.Username = &handle
	}

	updated, err := s.store.UpdateChannel(ctx, id, upd)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, apperror.BadRequest("channel username is already taken")
		}
		return nil, shared.StorageError(err, "channel")
	}
	return updated, nil
}
