package search

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"anoa.com/vidspace/internal/entity"
	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
)

const videosIndex = "videos"

// VideoIndex keeps a full-text index of videos. Search returns matching
// video ids best match first.
type VideoIndex interface {
	IndexVideo(ctx context.Context, video *entity.Video) error
	DeleteVideo(ctx context.Context, id string) error
	Search(ctx context.Context, query string, limit int) ([]string, error)
}

type meiliSearchService struct {
	client    meilisearch.ServiceManager
	sanitizer *bluemonday.Policy
	log       zerolog.Logger
}

func NewMeiliSearchService(client meilisearch.ServiceManager, log zerolog.Logger) VideoIndex {
	s := &meiliSearchService{
		client:    client,
		sanitizer: bluemonday.StrictPolicy(),
		log:       log.With().Str("component", "meilisearch").Logger(),
	}
	s.initIndexes()
	return s
}

func (s *meiliSearchService) initIndexes() {
	index := s.client.Index(videosIndex)

	searchable := []string{"title", "description", "channel_name", "category"}
	if _, err := index.UpdateSearchableAttributes(&searchable); err != nil {
		s.log.Warn().Err(err).Msg("failed to update videos searchable attributes")
	}

	filterable := []any{"category", "channel_id", "is_shorts"}
	if _, err := index.UpdateFilterableAttributes(&filterable); err != nil {
		s.log.Warn().Err(err).Msg("failed to update videos filterable attributes")
	}

	sortable := []string{"uploaded_at", "views"}
	if _, err := index.UpdateSortableAttributes(&sortable); err != nil {
		s.log.Warn().Err(err).Msg("failed to update videos sortable attributes")
	}

	s.log.Info().Msg("meilisearch indexes initialized")
}

type meiliVideoDoc struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	ChannelID   string `json:"channel_id"`
	ChannelName string `json:"channel_name"`
	IsShorts    bool   `json:"is_shorts"`
	Views       int64  `json:"views"`
	UploadedAt  int64  `json:"uploaded_at"`
}

func (s *meiliSearchService) cleanContentForIndex(content string) string {
	content = strings.ReplaceAll(content, "</p>", " ")
	content = strings.ReplaceAll(content, "<br>", " ")
	content = strings.ReplaceAll(content, "</div>", " ")

	cleanText := html.UnescapeString(s.sanitizer.Sanitize(content))
	return strings.Join(strings.Fields(cleanText), " ")
}

func (s *meiliSearchService) toDocument(video *entity.Video) meiliVideoDoc {
	doc := meiliVideoDoc{
		ID:          video.ID,
		Title:       s.cleanContentForIndex(video.Title),
		Description: s.cleanContentForIndex(getStringOrEmpty(video.Description)),
		Category:    getStringOrEmpty(video.Category),
		ChannelID:   video.ChannelID,
		IsShorts:    video.IsShorts,
		Views:       video.Views,
		UploadedAt:  video.UploadedAt.Unix(),
	}
	if video.Channel != nil {
		doc.ChannelName = video.Channel.Name
	}
	return doc
}

func (s *meiliSearchService) IndexVideo(_ context.Context, video *entity.Video) error {
	doc := s.toDocument(video)
	task, err := s.client.Index(videosIndex).AddDocuments([]meiliVideoDoc{doc}, strPtr("id"))
	if err != nil {
		return fmt.Errorf("index video %s: %w", video.ID, err)
	}
	s.log.Debug().Str("video_id", video.ID).Int64("task_uid", task.TaskUID).Msg("video indexed")
	return nil
}

func (s *meiliSearchService) DeleteVideo(_ context.Context, id string) error {
	if _, err := s.client.Index(videosIndex).DeleteDocument(id); err != nil {
		return fmt.Errorf("unindex video %s: %w", id, err)
	}
	return nil
}

func (s *meiliSearchService) Search(_ context.Context, query string, limit int) ([]string, error) {
	raw, err := s.client.Index(videosIndex).SearchRaw(query, &meilisearch.SearchRequest{
		Limit:                int64(limit),
		AttributesToRetrieve: []string{"id"},
	})
	if err != nil {
		return nil, fmt.Errorf("search videos: %w", err)
	}
	return decodeHitIDs(*raw)
}

func decodeHitIDs(raw []byte) ([]string, error) {
	var resp struct {
		Hits []struct {
			ID string `json:"id"`
		} `json:"hits"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	ids := make([]string, 0, len(resp.Hits))
	for _, hit := range resp.Hits {
		if hit.ID != "" {
			ids = append(ids, hit.ID)
		}
	}
	return ids, nil
}

func getStringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func strPtr(s string) *string {
	return &s
}
