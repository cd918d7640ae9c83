package view

import (
	"context"

	"anoa.com/vidspace/internal/entity"
	"anoa.com/vidspace/internal/modules/shared"
	"anoa.com/vidspace/internal/storage"
	"anoa.com/vidspace/pkg/metrics"
	"github.com/rs/zerolog"
)

type ViewService interface {
	// RecordView counts one view of videoID and, for signed-in viewers,
	// appends a watch history entry. It returns the new view count.
	RecordView(ctx context.Context, videoID, userID string, watchDuration int) (int64, error)
}

type viewService struct {
	store   storage.Storage
	metrics *metrics.Metrics
	log     zerolog.Logger
}

func NewViewService(store storage.Storage, m *metrics.Metrics, log zerolog.Logger) ViewService {
	return &viewService{
		store:   store,
		metrics: m,
		log:     log.With().Str("component", "view").Logger(),
	}
}

func (s *viewService) RecordView(ctx context.Context, videoID, userID string, watchDuration int) (int64, error) {
	ok, err := s.store.IncrementViewCount(ctx, videoID)
	if err := shared.NotFoundIfFalse(ok, err, "video"); err != nil {
		return 0, err
	}
	s.metrics.RecordView()

	if userID != "" {
		entry := &entity.WatchHistory{UserID: userID, VideoID: videoID, WatchDuration: watchDuration}
		if err := s.store.AddToWatchHistory(ctx, entry); err != nil {
			// The view already counted; history is best effort.
			s.log.Warn().Err(err).Str("video_id", videoID).Str("user_id", userID).Msg("failed to append watch history")
		}
	}

	v, err := s.store.GetVideo(ctx, videoID)
	if err != nil {
		return 0, shared.StorageError(err, "video")
	}
	return v.Views, nil
}
