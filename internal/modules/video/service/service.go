package video

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"anoa.com/vidspace/internal/entity"
	search "anoa.com/vidspace/internal/modules/search/service"
	"anoa.com/vidspace/internal/modules/shared"
	"anoa.com/vidspace/internal/modules/video/dto"
	"anoa.com/vidspace/internal/storage"
	"anoa.com/vidspace/pkg/apperror"
	commonDto "anoa.com/vidspace/pkg/dto"
	"anoa.com/vidspace/pkg/metrics"
	objectstore "anoa.com/vidspace/pkg/storage"
	"github.com/rs/zerolog"
)

const searchLimit = 50

var (
	errUploadsDisabled = apperror.New(http.StatusServiceUnavailable, "video uploads are not configured", nil)
	errNoChannel       = apperror.Forbidden("create a channel before publishing videos")
)

var videoExtensions = map[string]bool{
	".mp4": true, ".m4v": true, ".webm": true, ".mov": true, ".mkv": true, ".ogv": true,
}

// Notifier is told about freshly published videos.
type Notifier interface {
	NotifyNewVideo(ctx context.Context, video *entity.Video) error
}

type VideoService interface {
	GetVideos(ctx context.Context, limit int, category string) ([]entity.Video, error)
	GetVideo(ctx context.Context, id string) (*entity.Video, error)
	SearchVideos(ctx context.Context, query string) ([]entity.Video, error)
	GetSubscriptionFeed(ctx context.Context, userID string) ([]entity.Video, error)
	CreateVideo(ctx context.Context, userID string, req dto.CreateVideoRequest) (*entity.Video, error)
	UploadVideo(ctx context.Context, userID string, form dto.UploadVideoForm, file, thumbnail *commonDto.UploadFile) (*entity.Video, error)
	UpdateVideo(ctx context.Context, userID, id string, req dto.UpdateVideoRequest) (*entity.Video, error)
	DeleteVideo(ctx context.Context, userID, id string) error
	// OpenStream opens the stored blob for id. Videos hosted elsewhere come
	// back as a redirect URL instead.
	OpenStream(ctx context.Context, id, byteRange string) (*objectstore.Object, string, error)
}

type videoService struct {
	store    storage.Storage
	blobs    objectstore.VideoStorage
	images   objectstore.ImageStorage
	index    search.VideoIndex
	notifier Notifier
	metrics  *metrics.Metrics
	log      zerolog.Logger
}

// NewVideoService wires the video use cases. blobs may be nil (uploads and
// streaming disabled), images may be nil (thumbnails go to blobs), index may
// be nil (search scans storage) and notifier may be nil.
func NewVideoService(
	store storage.Storage,
	blobs objectstore.VideoStorage,
	images objectstore.ImageStorage,
	index search.VideoIndex,
	notifier Notifier,
	m *metrics.Metrics,
	log zerolog.Logger,
) VideoService {
	if images == nil && blobs != nil {
		images = objectstore.NewBlobImageStorage(blobs)
	}
	return &videoService{
		store:    store,
		blobs:    blobs,
		images:   images,
		index:    index,
		notifier: notifier,
		metrics:  m,
		log:      log.With().Str("component", "video").Logger(),
	}
}

func (s *videoService) GetVideos(ctx context.Context, limit int, category string) ([]entity.Video, error) {
	return s.store.GetVideos(ctx, limit, category)
}

func (s *videoService) GetVideo(ctx context.Context, id string) (*entity.Video, error) {
	v, err := s.store.GetVideo(ctx, id)
	if err != nil {
		return nil, shared.StorageError(err, "video")
	}
	return v, nil
}

// SearchVideos asks the index first and scans storage when the index is
// missing, failing, or has nothing (it may lag behind seeded data).
func (s *videoService) SearchVideos(ctx context.Context, query string) ([]entity.Video, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperror.BadRequest("search query is required")
	}

	if s.index != nil {
		ids, err := s.index.Search(ctx, query, searchLimit)
		switch {
		case err != nil:
			s.log.Warn().Err(err).Msg("search index unavailable, falling back to storage")
		case len(ids) > 0:
			return s.store.GetVideosByIDs(ctx, ids)
		}
	}
	return s.store.SearchVideos(ctx, query)
}

func (s *videoService) GetSubscriptionFeed(ctx context.Context, userID string) ([]entity.Video, error) {
	channels, err := s.store.GetSubscriptions(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(channels))
	for i, ch := range channels {
		ids[i] = ch.ID
	}
	return s.store.GetVideosByChannels(ctx, ids)
}

func (s *videoService) ownChannel(ctx context.Context, userID string) (*entity.Channel, error) {
	ch, err := s.store.GetChannelByUserID(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, errNoChannel
	}
	return ch, err
}

func (s *videoService) CreateVideo(ctx context.Context, userID string, req dto.CreateVideoRequest) (*entity.Video, error) {
	ch, err := s.ownChannel(ctx, userID)
	if err != nil {
		return nil, err
	}

	v := &entity.Video{
		Title:       strings.TrimSpace(req.Title),
		Thumbnail:   req.Thumbnail,
		VideoURL:    req.VideoURL,
		Duration:    req.Duration,
		ChannelID:   ch.ID,
		IsLive:      req.IsLive,
		IsShorts:    req.IsShorts,
		Description: req.Description,
		Category:    req.Category,
	}
	if err := s.store.CreateVideo(ctx, v); err != nil {
		return nil, shared.StorageError(err, "video")
	}
	return s.published(ctx, v.ID)
}

func (s *videoService) UploadVideo(ctx context.Context, userID string, form dto.UploadVideoForm, file, thumbnail *commonDto.UploadFile) (*entity.Video, error) {
	if s.blobs == nil {
		return nil, errUploadsDisabled
	}
	if file == nil || file.Reader == nil {
		return nil, apperror.BadRequest("video file is required")
	}
	contentType, err := videoContentType(file)
	if err != nil {
		return nil, err
	}
	if thumbnail != nil && !strings.HasPrefix(thumbnail.ContentType, "image/") {
		return nil, apperror.BadRequest("thumbnail must be an image")
	}

	ch, err := s.ownChannel(ctx, userID)
	if err != nil {
		return nil, err
	}

	res, err := s.blobs.Upload(ctx, file.Reader, file.FileName, contentType)
	if err != nil {
		s.metrics.RecordUploadError()
		return nil, err
	}

	var thumbURL string
	if thumbnail != nil {
		if thumbURL, err = s.images.UploadImage(ctx, thumbnail.Reader, "thumbnails", thumbnail.FileName); err != nil {
			s.metrics.RecordUploadError()
			s.discardBlob(ctx, res.Key)
			return nil, err
		}
	}

	v := &entity.Video{
		Title:      strings.TrimSpace(form.Title),
		Thumbnail:  thumbURL,
		VideoURL:   &res.URL,
		StorageKey: &res.Key,
		Duration:   form.Duration,
		ChannelID:  ch.ID,
		IsShorts:   form.IsShorts,
	}
	if d := strings.TrimSpace(form.Description); d != "" {
		v.Description = &d
	}
	if c := strings.TrimSpace(form.Category); c != "" {
		v.Category = &c
	}

	if err := s.store.CreateVideo(ctx, v); err != nil {
		s.discardBlob(ctx, res.Key)
		if thumbURL != "" {
			_ = s.images.DeleteImage(ctx, thumbURL)
		}
		return nil, shared.StorageError(err, "video")
	}

	s.metrics.RecordUpload(res.Size)
	s.log.Info().Str("video_id", v.ID).Str("key", res.Key).Int64("bytes", res.Size).Msg("video uploaded")
	return s.published(ctx, v.ID)
}

func videoContentType(file *commonDto.UploadFile) (string, error) {
	ct := file.ContentType
	if strings.HasPrefix(ct, "video/") {
		return ct, nil
	}
	if videoExtensions[strings.ToLower(filepath.Ext(file.FileName))] {
		// Let storage derive it from the extension.
		return "", nil
	}
	return "", apperror.BadRequest("file must be a video")
}

func (s *videoService) discardBlob(ctx context.Context, key string) {
	if err := s.blobs.Delete(context.WithoutCancel(ctx), key); err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("failed to remove orphaned blob")
	}
}

// published reloads the new video with its channel, indexes it and fans
// out notifications in the background.
func (s *videoService) published(ctx context.Context, id string) (*entity.Video, error) {
	v, err := s.GetVideo(ctx, id)
	if err != nil {
		return nil, err
	}
	s.reindex(ctx, v)

	if s.notifier != nil {
		bg := context.WithoutCancel(ctx)
		snapshot := *v
		go func() {
			if err := s.notifier.NotifyNewVideo(bg, &snapshot); err != nil {
				s.log.Error().Err(err).Str("video_id", snapshot.ID).Msg("new video notification failed")
			}
		}()
	}
	return v, nil
}

func (s *videoService) reindex(ctx context.Context, v *entity.Video) {
	if s.index == nil {
		return
	}
	if err := s.index.IndexVideo(ctx, v); err != nil {
		s.log.Warn().Err(err).Str("video_id", v.ID).Msg("failed to index video")
	}
}

// owned loads id and checks userID owns its channel.
func (s *videoService) owned(ctx context.Context, userID, id string) (*entity.Video, error) {
	v, err := s.GetVideo(ctx, id)
	if err != nil {
		return nil, err
	}
	ch := v.Channel
	if ch == nil {
		if ch, err = s.store.GetChannel(ctx, v.ChannelID); err != nil {
			return nil, shared.StorageError(err, "channel")
		}
	}
	if ch.UserID != userID {
		return nil, apperror.Forbidden("you do not own this video")
	}
	return v, nil
}

func (s *videoService) UpdateVideo(ctx context.Context, userID, id string, req dto.UpdateVideoRequest) (*entity.Video, error) {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return nil, err
	}

	if _, err := s.store.UpdateVideo(ctx, id, storage.VideoUpdate{
		Title:       req.Title,
		Thumbnail:   req.Thumbnail,
		Description: req.Description,
		Category:    req.Category,
		Duration:    req.Duration,
		IsLive:      req.IsLive,
		IsShorts:    req.IsShorts,
	}); err != nil {
		return nil, shared.StorageError(err, "video")
	}

	v, err := s.GetVideo(ctx, id)
	if err != nil {
		return nil, err
	}
	s.reindex(ctx, v)
	return v, nil
}

func (s *videoService) DeleteVideo(ctx context.Context, userID, id string) error {
	v, err := s.owned(ctx, userID, id)
	if err != nil {
		return err
	}

	ok, err := s.store.DeleteVideo(ctx, id)
	if err := shared.NotFoundIfFalse(ok, err, "video"); err != nil {
		return err
	}

	if v.StorageKey != nil && s.blobs != nil {
		s.discardBlob(ctx, *v.StorageKey)
		if v.Thumbnail != "" {
			if err := s.images.DeleteImage(ctx, v.Thumbnail); err != nil {
				s.log.Warn().Err(err).Str("video_id", id).Msg("failed to delete thumbnail")
			}
		}
	}
	if s.index != nil {
		if err := s.index.DeleteVideo(ctx, id); err != nil {
			s.log.Warn().Err(err).Str("video_id", id).Msg("failed to unindex video")
		}
	}
	return nil
}

func (s *videoService) OpenStream(ctx context.Context, id, byteRange string) (*objectstore.Object, string, error) {
	v, err := s.GetVideo(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if v.StorageKey == nil {
		if v.VideoURL != nil && *v.VideoURL != "" {
			return nil, *v.VideoURL, nil
		}
		return nil, "", apperror.NotFound("video stream")
	}
	if s.blobs == nil {
		return nil, "", errUploadsDisabled
	}

	obj, err := s.blobs.Read(ctx, *v.StorageKey, byteRange)
	switch {
	case errors.Is(err, objectstore.ErrObjectNotFound):
		return nil, "", apperror.NotFound("video stream")
	case errors.Is(err, objectstore.ErrInvalidRange):
		return nil, "", apperror.New(http.StatusRequestedRangeNotSatisfiable, "invalid range", err)
	case err != nil:
		return nil, "", err
	}
	return obj, "", nil
}
