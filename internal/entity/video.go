package entity

import (
	"time"

	"gorm.io/gorm"
)

type Video struct {
	ID          string    `gorm:"size:64;primaryKey" json:"id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Thumbnail   string    `gorm:"type:text;not null" json:"thumbnail"`
	VideoURL    *string   `gorm:"type:text" json:"videoUrl"`
	StorageKey  *string   `gorm:"size:512" json:"storageKey,omitempty"`
	Duration    string    `gorm:"size:16;not null" json:"duration"`
	Views       int64     `gorm:"not null;default:0" json:"views"`
	ChannelID   string    `gorm:"size:64;not null;index" json:"channelId"`
	Channel     *Channel  `gorm:"foreignKey:ChannelID;constraint:OnDelete:CASCADE" json:"channel,omitempty"`
	UploadedAt  time.Time `gorm:"not null;index" json:"uploadedAt"`
	IsLive      bool      `gorm:"not null;default:false" json:"isLive"`
	IsShorts    bool      `gorm:"not null;default:false" json:"isShorts"`
	Description *string   `gorm:"type:text" json:"description"`
	Category    *string   `gorm:"size:50;index" json:"category"`
}

func (v *Video) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = NewID()
	}
	if v.UploadedAt.IsZero() {
		v.UploadedAt = time.Now()
	}
	return nil
}
