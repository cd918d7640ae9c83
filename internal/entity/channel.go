package entity

import (
	"time"

	"gorm.io/gorm"
)

// Channel is a user's publishing identity. A user owns at most one.
type Channel struct {
	ID          string    `gorm:"size:64;primaryKey" json:"id"`
	UserID      string    `gorm:"size:255;not null;uniqueIndex" json:"userId"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Username    string    `gorm:"size:50;not null;uniqueIndex" json:"username"`
	Avatar      *string   `gorm:"type:text" json:"avatar"`
	Verified    bool      `gorm:"not null;default:false" json:"verified"`
	Subscribers int64     `gorm:"not null;default:0" json:"subscribers"`
	Description *string   `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (c *Channel) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = NewID()
	}
	return nil
}
