package entity

import (
	"time"

	"gorm.io/gorm"
)

const (
	NotificationNewVideo     = "new_video"
	NotificationCommentReply = "comment_reply"
)

type Notification struct {
	ID        string    `gorm:"size:64;primaryKey" json:"id"`
	UserID    string    `gorm:"size:255;not null;index:idx_notifications_user_read,priority:1" json:"userId"`
	Type      string    `gorm:"size:32;not null" json:"type"`
	Title     string    `gorm:"size:200;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	VideoID   *string   `gorm:"size:64" json:"videoId"`
	ChannelID *string   `gorm:"size:64" json:"channelId"`
	Thumbnail *string   `gorm:"type:text" json:"thumbnail"`
	IsRead    bool      `gorm:"not null;default:false;index:idx_notifications_user_read,priority:2" json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = NewID()
	}
	return nil
}
