package entity

import (
	"time"

	"gorm.io/gorm"
)

type Playlist struct {
	ID          string    `gorm:"size:64;primaryKey" json:"id"`
	UserID      string    `gorm:"size:255;not null;index" json:"userId"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description *string   `gorm:"type:text" json:"description"`
	IsPublic    bool      `gorm:"not null;default:false" json:"isPublic"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (p *Playlist) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = NewID()
	}
	return nil
}

type PlaylistVideo struct {
	ID         string    `gorm:"size:64;primaryKey" json:"id"`
	PlaylistID string    `gorm:"size:64;not null;uniqueIndex:idx_playlist_videos_pair,priority:1" json:"playlistId"`
	VideoID    string    `gorm:"size:64;not null;uniqueIndex:idx_playlist_videos_pair,priority:2;index" json:"videoId"`
	Video      *Video    `gorm:"foreignKey:VideoID;constraint:OnDelete:CASCADE" json:"video,omitempty"`
	Position   int       `gorm:"not null" json:"position"`
	AddedAt    time.Time `gorm:"not null" json:"addedAt"`
}

func (p *PlaylistVideo) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = NewID()
	}
	if p.AddedAt.IsZero() {
		p.AddedAt = time.Now()
	}
	return nil
}
