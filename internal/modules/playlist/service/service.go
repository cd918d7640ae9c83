package playlist

import (
	"context"
	"errors"
	"strings"

	"anoa.com/vidspace/internal/entity"
	"anoa.com/vidspace/internal/modules/playlist/dto"
	"anoa.com/vidspace/internal/modules/shared"
	"anoa.com/vidspace/internal/storage"
	"anoa.com/vidspace/pkg/apperror"
)

type PlaylistService interface {
	GetMyPlaylists(ctx context.Context, userID string) ([]entity.Playlist, error)
	// GetPlaylist and GetPlaylistVideos allow anyone on public playlists and
	// only the owner otherwise; viewerID is "" for anonymous callers.
	GetPlaylist(ctx context.Context, viewerID, id string) (*entity.Playlist, error)
	GetPlaylistVideos(ctx context.Context, viewerID, id string) ([]entity.PlaylistVideo, error)
	CreatePlaylist(ctx context.Context, userID string, req dto.CreatePlaylistRequest) (*entity.Playlist, error)
	UpdatePlaylist(ctx context.Context, userID, id string, req dto.UpdatePlaylistRequest) (*entity.Playlist, error)
	DeletePlaylist(ctx context.Context, userID, id string) error
	AddVideo(ctx context.Context, userID, id string, req dto.AddVideoRequest) (*entity.PlaylistVideo, error)
	RemoveVideo(ctx context.Context, userID, id, videoID string) error
}

type playlistService struct {
	store storage.Storage
}

func NewPlaylistService(store storage.Storage) PlaylistService {
	return &playlistService{store: store}
}

func (s *playlistService) GetMyPlaylists(ctx context.Context, userID string) ([]entity.Playlist, error) {
	return s.store.GetPlaylistsByUser(ctx, userID)
}

func (s *playlistService) load(ctx context.Context, id string) (*entity.Playlist, error) {
	p, err := s.store.GetPlaylist(ctx, id)
	if err != nil {
		return nil, shared.StorageError(err, "playlist")
	}
	return p, nil
}

func (s *playlistService) visible(ctx context.Context, viewerID, id string) (*entity.Playlist, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	switch {
	case p.IsPublic || p.UserID == viewerID:
		return p, nil
	case viewerID == "":
		return nil, apperror.ErrUnauthorized
	default:
		return nil, apperror.Forbidden("this playlist is private")
	}
}

func (s *playlistService) owned(ctx context.Context, userID, id string) (*entity.Playlist, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.UserID != userID {
		return nil, apperror.Forbidden("you do not own this playlist")
	}
	return p, nil
}

func (s *playlistService) GetPlaylist(ctx context.Context, viewerID, id string) (*entity.Playlist, error) {
	return s.visible(ctx, viewerID, id)
}

func (s *playlistService) GetPlaylistVideos(ctx context.Context, viewerID, id string) ([]entity.PlaylistVideo, error) {
	if _, err := s.visible(ctx, viewerID, id); err != nil {
		return nil, err
	}
	return s.store.GetPlaylistVideos(ctx, id)
}

func (s *playlistService) CreatePlaylist(ctx context.Context, userID string, req dto.CreatePlaylistRequest) (*entity.Playlist, error) {
	p := &entity.Playlist{
		UserID:      userID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		IsPublic:    req.IsPublic,
	}
	if p.Name == "" {
		return nil, apperror.BadRequest("name must not be empty")
	}
	if err := s.store.CreatePlaylist(ctx, p); err != nil {
		return nil, shared.StorageError(err, "playlist")
	}
	return p, nil
}

func (s *playlistService) UpdatePlaylist(ctx context.Context, userID, id string, req dto.UpdatePlaylistRequest) (*entity.Playlist, error) {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return nil, err
	}

	upd := storage.PlaylistUpdate{Description: req.Description, IsPublic: req.IsPublic}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperror.BadRequest("name must not be empty")
		}
		upd.Name = &name
	}

	p, err := s.store.UpdatePlaylist(ctx, id, upd)
	if err != nil {
		return nil, shared.StorageError(err, "playlist")
	}
	return p, nil
}

func (s *playlistService) DeletePlaylist(ctx context.Context, userID, id string) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	ok, err := s.store.DeletePlaylist(ctx, id)
	return shared.NotFoundIfFalse(ok, err, "playlist")
}

func (s *playlistService) AddVideo(ctx context.Context, userID, id string, req dto.AddVideoRequest) (*entity.PlaylistVideo, error) {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return nil, err
	}

	item, err := s.store.AddVideoToPlaylist(ctx, id, req.VideoID)
	if errors.Is(err, storage.ErrInvalidReference) {
		return nil, apperror.NotFound("video")
	}
	if err != nil {
		return nil, shared.StorageError(err, "playlist entry")
	}
	return item, nil
}

func (s *playlistService) RemoveVideo(ctx context.Context, userID, id, videoID string) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	ok, err := s.store.RemoveVideoFromPlaylist(ctx, id, videoID)
	return shared.NotFoundIfFalse(ok, err, "playlist entry")
}
