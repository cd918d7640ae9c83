package comment

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"anoa.com/vidspace/internal/entity"
	"anoa.com/vidspace/internal/modules/comment/dto"
	"anoa.com/vidspace/internal/modules/shared"
	"anoa.com/vidspace/internal/storage"
	"anoa.com/vidspace/pkg/apperror"
	"anoa.com/vidspace/pkg/metrics"
	"anoa.com/vidspace/pkg/ratelimit"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
)

const (
	defaultCommentLimit = 20
	rateLimitAction     = "comment"
)

// Notifier is told about replies so the parent's author hears of them.
type Notifier interface {
	NotifyReply(ctx context.Context, parent, reply *entity.Comment) error
}

// RateLimiter throttles comment creation per user.
type RateLimiter interface {
	Allow(ctx context.Context, userID, action string) (bool, error)
	RetryAfter(ctx context.Context, userID, action string) (time.Duration, error)
	Clear(ctx context.Context, userID, action string) error
}

type CommentService interface {
	// GetComments pages over top-level comments and attaches their replies.
	GetComments(ctx context.Context, videoID string, q dto.ListCommentsQuery) ([]dto.CommentResponse, error)
	CreateComment(ctx context.Context, userID, videoID string, req dto.CreateCommentRequest) (*entity.Comment, error)
	UpdateComment(ctx context.Context, userID, id string, req dto.UpdateCommentRequest) (*entity.Comment, error)
	DeleteComment(ctx context.Context, userID, id string) error
	LikeComment(ctx context.Context, id string) (*entity.Comment, error)
}

type commentService struct {
	store     storage.Storage
	limiter   RateLimiter
	notifier  Notifier
	sanitizer *bluemonday.Policy
	metrics   *metrics.Metrics
	log       zerolog.Logger
}

// NewCommentService builds the comment use cases. A nil limiter or
// notifier disables that concern.
func NewCommentService(store storage.Storage, limiter RateLimiter, notifier Notifier, m *metrics.Metrics, log zerolog.Logger) CommentService {
	if limiter == nil {
		limiter = (*ratelimit.Limiter)(nil)
	}
	return &commentService{
		store:     store,
		limiter:   limiter,
		notifier:  notifier,
		sanitizer: bluemonday.StrictPolicy(),
		metrics:   m,
		log:       log.With().Str("component", "comment").Logger(),
	}
}

func (s *commentService) clean(content string) (string, error) {
	out := strings.TrimSpace(s.sanitizer.Sanitize(content))
	if out == "" {
		return "", apperror.BadRequest("comment must not be empty")
	}
	return out, nil
}

func (s *commentService) GetComments(ctx context.Context, videoID string, q dto.ListCommentsQuery) ([]dto.CommentResponse, error) {
	if _, err := s.store.GetVideo(ctx, videoID); err != nil {
		return nil, shared.StorageError(err, "video")
	}
	if q.Limit == 0 {
		q.Limit = defaultCommentLimit
	}

	// Replies must travel with their parent, so page after threading.
	all, err := s.store.GetCommentsByVideo(ctx, videoID, storage.CommentQuery{SortBy: q.SortBy})
	if err != nil {
		return nil, err
	}
	threads := thread(all)

	if q.Offset >= len(threads) {
		return []dto.CommentResponse{}, nil
	}
	threads = threads[q.Offset:]
	if len(threads) > q.Limit {
		threads = threads[:q.Limit]
	}
	return threads, nil
}

// thread groups a flat, already sorted list into top-level comments with
// replies. Replies whose parent is gone are dropped.
func thread(all []entity.Comment) []dto.CommentResponse {
	replies := make(map[string][]entity.Comment)
	for _, c := range all {
		if c.ParentID != nil {
			replies[*c.ParentID] = append(replies[*c.ParentID], c)
		}
	}

	out := make([]dto.CommentResponse, 0, len(all)-len(replies))
	for _, c := range all {
		if c.ParentID != nil {
			continue
		}
		rs := replies[c.ID]
		if rs == nil {
			rs = []entity.Comment{}
		}
		sort.SliceStable(rs, func(i, j int) bool { return rs[i].CreatedAt.Before(rs[j].CreatedAt) })
		out = append(out, dto.CommentResponse{Comment: c, Replies: rs})
	}
	return out
}

func (s *commentService) CreateComment(ctx context.Context, userID, videoID string, req dto.CreateCommentRequest) (*entity.Comment, error) {
	content, err := s.clean(req.Content)
	if err != nil {
		return nil, err
	}

	allowed, err := s.limiter.Allow(ctx, userID, rateLimitAction)
	if err != nil {
		return nil, err
	}
	if !allowed {
		ttl, err := s.limiter.RetryAfter(ctx, userID, rateLimitAction)
		if err != nil {
			s.log.Warn().Err(err).Str("user_id", userID).Msg("failed to read rate limit ttl")
			ttl = 0
		}
		return nil, &ratelimit.Error{
			Message:    fmt.Sprintf("you are commenting too fast, please wait %.0f seconds", ttl.Seconds()),
			RetryAfter: ttl,
		}
	}

	created := false
	defer func() {
		if !created {
			_ = s.limiter.Clear(context.WithoutCancel(ctx), userID, rateLimitAction)
		}
	}()

	var parent *entity.Comment
	c := &entity.Comment{VideoID: videoID, UserID: userID, Content: content}
	if req.ParentID != nil && *req.ParentID != "" {
		parent, err = s.store.GetComment(ctx, *req.ParentID)
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperror.BadRequest("parent comment does not exist")
		}
		if err != nil {
			return nil, err
		}
		// Threads are one level deep; a reply to a reply joins the thread.
		root := parent.ID
		if parent.ParentID != nil {
			root = *parent.ParentID
		}
		c.ParentID = &root
	}

	if err := s.store.CreateComment(ctx, c); err != nil {
		if errors.Is(err, storage.ErrInvalidReference) {
			if _, verr := s.store.GetVideo(ctx, videoID); errors.Is(verr, storage.ErrNotFound) {
				return nil, apperror.NotFound("video")
			}
		}
		return nil, shared.StorageError(err, "comment")
	}
	created = true
	s.metrics.RecordComment()

	out, err := s.store.GetComment(ctx, c.ID)
	if err != nil {
		return nil, shared.StorageError(err, "comment")
	}

	if parent != nil && s.notifier != nil {
		bg := context.WithoutCancel(ctx)
		reply := *out
		go func() {
			if err := s.notifier.NotifyReply(bg, parent, &reply); err != nil {
				s.log.Error().Err(err).Str("comment_id", reply.ID).Msg("reply notification failed")
			}
		}()
	}
	return out, nil
}

func (s *commentService) owned(ctx context.Context, userID, id string) (*entity.Comment, error) {
	c, err := s.store.GetComment(ctx, id)
	if err != nil {
		return nil, shared.StorageError(err, "comment")
	}
	if c.UserID != userID {
		return nil, apperror.Forbidden("you can only change your own comment")
	}
	return c, nil
}

func (s *commentService) UpdateComment(ctx context.Context, userID, id string, req dto.UpdateCommentRequest) (*entity.Comment, error) {
	content, err := s.clean(req.Content)
	if err != nil {
		return nil, err
	}
	if _, err := s.owned(ctx, userID, id); err != nil {
		return nil, err
	}

	out, err := s.store.UpdateComment(ctx, id, content)
	if err != nil {
		return nil, shared.StorageError(err, "comment")
	}
	return out, nil
}

func (s *commentService) DeleteComment(ctx context.Context, userID, id string) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	ok, err := s.store.DeleteComment(ctx, id)
	return shared.NotFoundIfFalse(ok, err, "comment")
}

func (s *commentService) LikeComment(ctx context.Context, id string) (*entity.Comment, error) {
	ok, err := s.store.LikeComment(ctx, id)
	if err := shared.NotFoundIfFalse(ok, err, "comment"); err != nil {
		return nil, err
	}
	out, err := s.store.GetComment(ctx, id)
	if err != nil {
		return nil, shared.StorageError(err, "comment")
	}
	return out, nil
}
