package entity

import (
	"time"

	"gorm.io/gorm"
)

const (
	LikeTypeLike    = "like"
	LikeTypeDislike = "dislike"
)

// Like is a user's reaction to a video; one row per (user, video).
type Like struct {
	ID        string    `gorm:"size:64;primaryKey" json:"id"`
	UserID    string    `gorm:"size:255;not null;uniqueIndex:idx_likes_user_video,priority:1" json:"userId"`
	VideoID   string    `gorm:"size:64;not null;uniqueIndex:idx_likes_user_video,priority:2;index" json:"videoId"`
	Type      string    `gorm:"size:10;not null" json:"type"`
	CreatedAt time.Time `json:"createdAt"`
}

func (l *Like) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = NewID()
	}
	return nil
}

// LikeCounts always carries both keys.
type LikeCounts struct {
	Likes    int64 `json:"likes"`
	Dislikes int64 `json:"dislikes"`
}
