package entity

import (
	"time"

	"gorm.io/gorm"
)

type Subscription struct {
	ID        string    `gorm:"size:64;primaryKey" json:"id"`
	UserID    string    `gorm:"size:255;not null;uniqueIndex:idx_subscriptions_user_channel,priority:1" json:"userId"`
	ChannelID string    `gorm:"size:64;not null;uniqueIndex:idx_subscriptions_user_channel,priority:2;index" json:"channelId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = NewID()
	}
	return nil
}
