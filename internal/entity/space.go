package entity

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Space is a user-curated collection of channels. Its channel details and
// video count are derived on read and never stored.
type Space struct {
	ID          string                      `gorm:"size:64;primaryKey" json:"id"`
	Name        string                      `gorm:"size:100;not null" json:"name"`
	Description *string                     `gorm:"type:text" json:"description"`
	UserID      string                      `gorm:"size:255;not null;index" json:"userId"`
	ChannelIDs  datatypes.JSONSlice[string] `json:"channelIds"`
	Icon        *string                     `gorm:"size:64" json:"icon"`
	Color       *string                     `gorm:"size:32" json:"color"`
	CreatedAt   time.Time                   `json:"createdAt"`
}

func (s *Space) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = NewID()
	}
	return nil
}

func (s *Space) BeforeSave(tx *gorm.DB) error {
	s.Normalize()
	return nil
}

func (s *Space) AfterFind(tx *gorm.DB) error {
	s.Normalize()
	return nil
}

func (s *Space) Normalize() {
	if s.ChannelIDs == nil {
		s.ChannelIDs = datatypes.JSONSlice[string]{}
	}
}
