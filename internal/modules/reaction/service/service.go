package reaction

import (
	"context"
	"errors"

	"anoa.com/vidspace/internal/entity"
	"anoa.com/vidspace/internal/modules/reaction/dto"
	"anoa.com/vidspace/internal/modules/shared"
	"anoa.com/vidspace/internal/storage"
	"anoa.com/vidspace/pkg/apperror"
	"anoa.com/vidspace/pkg/metrics"
)

type ReactionService interface {
	ToggleLike(ctx context.Context, userID, videoID string, req dto.ToggleLikeRequest) (*dto.ToggleLikeResponse, error)
	GetLikeCounts(ctx context.Context, videoID string) (*entity.LikeCounts, error)
	// GetUserLike returns nil when the user has not reacted.
	GetUserLike(ctx context.Context, userID, videoID string) (*entity.Like, error)
}

type reactionService struct {
	store   storage.Storage
	metrics *metrics.Metrics
}

func NewReactionService(store storage.Storage, m *metrics.Metrics) ReactionService {
	return &reactionService{store: store, metrics: m}
}

func (s *reactionService) videoExists(ctx context.Context, videoID string) error {
	if _, err := s.store.GetVideo(ctx, videoID); err != nil {
		return shared.StorageError(err, "video")
	}
	return nil
}

func (s *reactionService) ToggleLike(ctx context.Context, userID, videoID string, req dto.ToggleLikeRequest) (*dto.ToggleLikeResponse, error) {
	if !storage.ValidLikeType(req.Type) {
		return nil, apperror.BadRequest("type must be like or dislike")
	}
	if err := s.videoExists(ctx, videoID); err != nil {
		return nil, err
	}

	// Only used to label the metric.
	prior, err := s.GetUserLike(ctx, userID, videoID)
	if err != nil {
		return nil, err
	}

	like, err := s.store.ToggleLike(ctx, userID, videoID, req.Type)
	if err != nil {
		return nil, shared.StorageError(err, "like")
	}
	s.metrics.RecordLikeToggle(toggleResult(prior, like))

	counts, err := s.store.GetLikeCounts(ctx, videoID)
	if err != nil {
		return nil, err
	}
	return &dto.ToggleLikeResponse{Like: like, LikeCounts: counts}, nil
}

func toggleResult(prior, now *entity.Like) string {
	switch {
	case now == nil:
		return "removed"
	case prior == nil:
		return "added"
	default:
		return "switched"
	}
}

func (s *reactionService) GetLikeCounts(ctx context.Context, videoID string) (*entity.LikeCounts, error) {
	if err := s.videoExists(ctx, videoID); err != nil {
		return nil, err
	}
	counts, err := s.store.GetLikeCounts(ctx, videoID)
	if err != nil {
		return nil, err
	}
	return &counts, nil
}

func (s *reactionService) GetUserLike(ctx context.Context, userID, videoID string) (*entity.Like, error) {
	like, err := s.store.GetLike(ctx, userID, videoID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	return like, err
}
