package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"anoa.com/vidspace/internal/entity"
	"anoa.com/vidspace/internal/modules/shared"
	"anoa.com/vidspace/internal/storage"
	"anoa.com/vidspace/pkg/apperror"
	"anoa.com/vidspace/pkg/metrics"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type NotificationService interface {
	CreateNotification(ctx context.Context, notification *entity.Notification) error
	// NotifyNewVideo tells every subscriber of the video's channel about it.
	NotifyNewVideo(ctx context.Context, video *entity.Video) error
	// NotifyReply tells the parent comment's author about a reply. Replies
	// to one's own comment are skipped.
	NotifyReply(ctx context.Context, parent, reply *entity.Comment) error
	GetNotifications(ctx context.Context, userID string, limit, offset int) ([]entity.Notification, error)
	MarkAsRead(ctx context.Context, userID, id string) error
	MarkAllAsRead(ctx context.Context, userID string) (int64, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
}

type notificationService struct {
	store       storage.Storage
	redisClient *redis.Client
	metrics     *metrics.Metrics
	log         zerolog.Logger
}

func NewNotificationService(store storage.Storage, redisClient *redis.Client, m *metrics.Metrics, log zerolog.Logger) NotificationService {
	return &notificationService{
		store:       store,
		redisClient: redisClient,
		metrics:     m,
		log:         log.With().Str("component", "notification").Logger(),
	}
}

// Channel is the Redis pub/sub channel carrying userID's notifications.
func Channel(userID string) string {
	return fmt.Sprintf("user_notifications:%s", userID)
}

func (s *notificationService) CreateNotification(ctx context.Context, notification *entity.Notification) error {
	if err := s.store.CreateNotification(ctx, notification); err != nil {
		return shared.StorageError(err, "notification")
	}
	s.metrics.RecordNotification()

	if s.redisClient != nil {
		payload, err := json.Marshal(notification)
		if err != nil {
			return err
		}
		if err := s.redisClient.Publish(ctx, Channel(notification.UserID), payload).Err(); err != nil {
			// Already persisted; the client picks it up on the next fetch.
			s.log.Warn().Err(err).Str("user_id", notification.UserID).Msg("failed to publish notification")
		}
	}
	return nil
}

func (s *notificationService) NotifyNewVideo(ctx context.Context, video *entity.Video) error {
	channel := video.Channel
	if channel == nil {
		c, err := s.store.GetChannel(ctx, video.ChannelID)
		if err != nil {
			return shared.StorageError(err, "channel")
		}
		channel = c
	}

	subscribers, err := s.store.GetSubscriberIDs(ctx, channel.ID)
	if err != nil {
		return err
	}

	sent := 0
	for _, userID := range subscribers {
		if userID == channel.UserID {
			continue
		}
		n := &entity.Notification{
			UserID:    userID,
			Type:      entity.NotificationNewVideo,
			Title:     fmt.Sprintf("New video from %s", channel.Name),
			Content:   video.Title,
			VideoID:   &video.ID,
			ChannelID: &channel.ID,
		}
		if video.Thumbnail != "" {
			n.Thumbnail = &video.Thumbnail
		}
		if err := s.CreateNotification(ctx, n); err != nil {
			s.log.Error().Err(err).Str("user_id", userID).Str("video_id", video.ID).Msg("failed to notify subscriber")
			continue
		}
		sent++
	}

	s.log.Info().Str("video_id", video.ID).Int("sent", sent).Msg("new video fan-out finished")
	return nil
}

func (s *notificationService) NotifyReply(ctx context.Context, parent, reply *entity.Comment) error {
	if parent.UserID == reply.UserID {
		return nil
	}

	who := "Someone"
	if reply.User != nil && reply.User.Username != nil {
		who = "@" + *reply.User.Username
	}

	return s.CreateNotification(ctx, &entity.Notification{
		UserID:  parent.UserID,
		Type:    entity.NotificationCommentReply,
		Title:   fmt.Sprintf("%s replied to your comment", who),
		Content: excerpt(reply.Content, 100),
		VideoID: &reply.VideoID,
	})
}

func excerpt(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

func (s *notificationService) GetNotifications(ctx context.Context, userID string, limit, offset int) ([]entity.Notification, error) {
	return s.store.GetNotifications(ctx, userID, limit, offset)
}

func (s *notificationService) MarkAsRead(ctx context.Context, userID, id string) error {
	n, err := s.store.GetNotification(ctx, id)
	if err != nil {
		return shared.StorageError(err, "notification")
	}
	if n.UserID != userID {
		return apperror.Forbidden("notification belongs to another user")
	}
	ok, err := s.store.MarkNotificationRead(ctx, id)
	return shared.NotFoundIfFalse(ok, err, "notification")
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, userID string) (int64, error) {
	return s.store.MarkAllNotificationsRead(ctx, userID)
}

func (s *notificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.store.GetUnreadNotificationCount(ctx, userID)
}
