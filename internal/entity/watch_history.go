package entity

import (
	"time"

	"gorm.io/gorm"
)

type WatchHistory struct {
	ID            string    `gorm:"size:64;primaryKey" json:"id"`
	UserID        string    `gorm:"size:255;not null;index:idx_watch_history_user_time,priority:1" json:"userId"`
	VideoID       string    `gorm:"size:64;not null;index" json:"videoId"`
	Video         *Video    `gorm:"foreignKey:VideoID;constraint:OnDelete:CASCADE" json:"video,omitempty"`
	WatchedAt     time.Time `gorm:"not null;index:idx_watch_history_user_time,priority:2" json:"watchedAt"`
	WatchDuration int       `gorm:"not null;default:0" json:"watchDuration"`
}

func (WatchHistory) TableName() string {
	return "watch_history"
}

func (w *WatchHistory) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = NewID()
	}
	if w.WatchedAt.IsZero() {
		w.WatchedAt = time.Now()
	}
	return nil
}
