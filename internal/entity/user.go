package entity

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	AuthProviderEmail  = "email"
	AuthProviderGoogle = "google"
	AuthProviderReplit = "replit"
)

// User ids are opaque: generated for email signups, the provider subject
// for OIDC logins.
type User struct {
	ID              string                      `gorm:"size:255;primaryKey" json:"id"`
	Username        *string                     `gorm:"size:50;uniqueIndex" json:"username"`
	Email           *string                     `gorm:"size:255;uniqueIndex" json:"email"`
	Password        *string                     `gorm:"size:255" json:"-"`
	FirstName       *string                     `gorm:"size:100" json:"firstName"`
	LastName        *string                     `gorm:"size:100" json:"lastName"`
	ProfileImageURL *string                     `gorm:"type:text" json:"profileImageUrl"`
	PersonalMode    bool                        `gorm:"not null;default:false" json:"personalMode"`
	BlockedChannels datatypes.JSONSlice[string] `json:"blockedChannels"`
	AuthProvider    string                      `gorm:"size:20;not null;default:email" json:"authProvider"`
	IsVerified      bool                        `gorm:"not null;default:false" json:"isVerified"`
	CreatedAt       time.Time                   `json:"createdAt"`
	UpdatedAt       time.Time                   `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = NewID()
	}
	if u.AuthProvider == "" {
		u.AuthProvider = AuthProviderEmail
	}
	return nil
}

func (u *User) BeforeSave(tx *gorm.DB) error {
	u.Normalize()
	return nil
}

func (u *User) AfterFind(tx *gorm.DB) error {
	u.Normalize()
	return nil
}

// Normalize guarantees BlockedChannels is never nil.
func (u *User) Normalize() {
	if u.BlockedChannels == nil {
		u.BlockedChannels = datatypes.JSONSlice[string]{}
	}
}

// HasBlocked reports whether channelID is in the block list.
func (u *User) HasBlocked(channelID string) bool {
	for _, id := range u.BlockedChannels {
		if id == channelID {
			return true
		}
	}
	return false
}
