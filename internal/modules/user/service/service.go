package service

import (
	"context"
	"strings"

	"anoa.com/vidspace/internal/entity"
	"anoa.com/vidspace/internal/modules/shared"
	"anoa.com/vidspace/internal/modules/user/dto"
	"anoa.com/vidspace/internal/storage"
	"anoa.com/vidspace/pkg/apperror"
	commonDto "anoa.com/vidspace/pkg/dto"
	objectstore "anoa.com/vidspace/pkg/storage"
)

type UserService interface {
	GetCurrentUser(ctx context.Context, userID string) (*entity.User, error)
	UpdateCurrentUser(ctx context.Context, userID string, input dto.UpdateUserRequest) (*entity.User, error)
	UploadAvatar(ctx context.Context, userID string, avatar *commonDto.UploadFile) (*entity.User, error)
	GetBlockedChannels(ctx context.Context, userID string) ([]string, error)
	BlockChannel(ctx context.Context, userID, channelID string) ([]string, error)
	UnblockChannel(ctx context.Context, userID, channelID string) error
}

type userService struct {
	store        storage.Storage
	imageStorage objectstore.ImageStorage
}

// NewUserService takes a nil imageStorage when avatar uploads are disabled.
func NewUserService(store storage.Storage, imageStorage objectstore.ImageStorage) UserService {
	return &userService{store: store, imageStorage: imageStorage}
}

func (s *userService) GetCurrentUser(ctx context.Context, userID string) (*entity.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, shared.StorageError(err, "user")
	}
	user.Password = nil
	return user, nil
}

func (s *userService) UpdateCurrentUser(ctx context.Context, userID string, input dto.UpdateUserRequest) (*entity.User, error) {
	user, err := s.store.UpdateUser(ctx, userID, storage.UserUpdate{
		Username:        normalizeOptional(input.Username),
		FirstName:       normalizeOptional(input.FirstName),
		LastName:        normalizeOptional(input.LastName),
		ProfileImageURL: normalizeOptional(input.ProfileImageURL),
		PersonalMode:    input.PersonalMode,
	})
	if err != nil {
		return nil, shared.StorageError(err, "user")
	}
	user.Password = nil
	return user, nil
}

func (s *userService) UploadAvatar(ctx context.Context, userID string, avatar *commonDto.UploadFile) (*entity.User, error) {
	if s.imageStorage == nil {
		return nil, apperror.BadRequest("avatar uploads are not configured")
	}
	if avatar == nil || avatar.Reader == nil {
		return nil, apperror.BadRequest("avatar file is required")
	}
	if !strings.HasPrefix(avatar.ContentType, "image/") {
		return nil, apperror.BadRequest("avatar must be an image")
	}

	current, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, shared.StorageError(err, "user")
	}

	url, err := s.imageStorage.UploadImage(ctx, avatar.Reader, "avatars", avatar.FileName)
	if err != nil {
		return nil, err
	}

	user, err := s.store.UpdateUser(ctx, userID, storage.UserUpdate{ProfileImageURL: &url})
	if err != nil {
		_ = s.imageStorage.DeleteImage(ctx, url)
		return nil, shared.StorageError(err, "user")
	}
	if current.ProfileImageURL != nil && *current.ProfileImageURL != url {
		// Provider avatars live elsewhere; the image store ignores unknown URLs.
		_ = s.imageStorage.DeleteImage(ctx, *current.ProfileImageURL)
	}

	user.Password = nil
	return user, nil
}

func (s *userService) GetBlockedChannels(ctx context.Context, userID string) ([]string, error) {
	return s.store.GetBlockedChannels(ctx, userID)
}

func (s *userService) BlockChannel(ctx context.Context, userID, channelID string) ([]string, error) {
	if _, err := s.store.GetChannel(ctx, channelID); err != nil {
		return nil, shared.StorageError(err, "channel")
	}
	ok, err := s.store.BlockChannel(ctx, userID, channelID)
	if err := shared.NotFoundIfFalse(ok, err, "user"); err != nil {
		return nil, err
	}
	return s.store.GetBlockedChannels(ctx, userID)
}

func (s *userService) UnblockChannel(ctx context.Context, userID, channelID string) error {
	ok, err := s.store.UnblockChannel(ctx, userID, channelID)
	return shared.NotFoundIfFalse(ok, err, "user")
}

func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}

	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
