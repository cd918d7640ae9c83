package entity

import (
	"time"

	"gorm.io/gorm"
)

type Comment struct {
	ID        string    `gorm:"size:64;primaryKey" json:"id"`
	VideoID   string    `gorm:"size:64;not null;index" json:"videoId"`
	UserID    string    `gorm:"size:255;not null;index" json:"userId"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	ParentID  *string   `gorm:"size:64;index" json:"parentId"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Likes     int64     `gorm:"not null;default:0" json:"likes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = NewID()
	}
	return nil
}
