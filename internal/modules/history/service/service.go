package history

import (
	"context"
	"errors"

	"anoa.com/vidspace/internal/entity"
	"anoa.com/vidspace/internal/modules/history/dto"
	"anoa.com/vidspace/internal/modules/shared"
	"anoa.com/vidspace/internal/storage"
	"anoa.com/vidspace/pkg/apperror"
)

const defaultHistoryLimit = 50

type HistoryService interface {
	GetHistory(ctx context.Context, userID string, limit int) ([]entity.WatchHistory, error)
	AddToHistory(ctx context.Context, userID string, req dto.AddHistoryRequest) (*entity.WatchHistory, error)
	ClearHistory(ctx context.Context, userID string) error
}

type historyService struct {
	store storage.Storage
}

func NewHistoryService(store storage.Storage) HistoryService {
	return &historyService{store: store}
}

func (s *historyService) GetHistory(ctx context.Context, userID string, limit int) ([]entity.WatchHistory, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return s.store.GetWatchHistory(ctx, userID, limit)
}

func (s *historyService) AddToHistory(ctx context.Context, userID string, req dto.AddHistoryRequest) (*entity.WatchHistory, error) {
	entry := &entity.WatchHistory{UserID: userID, VideoID: req.VideoID, WatchDuration: req.WatchDuration}
	if err := s.store.AddToWatchHistory(ctx, entry); err != nil {
		if errors.Is(err, storage.ErrInvalidReference) {
			return nil, apperror.NotFound("video")
		}
		return nil, shared.StorageError(err, "watch history")
	}
	return entry, nil
}

func (s *historyService) ClearHistory(ctx context.Context, userID string) error {
	return s.store.ClearWatchHistory(ctx, userID)
}
