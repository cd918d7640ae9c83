package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func TestUserNormalize(t *testing.T) {
	u := &User{}
	u.Normalize()
	assert.NotNil(t, u.BlockedChannels)
	assert.Len(t, u.BlockedChannels, 0)

	u.BlockedChannels = datatypes.JSONSlice[string]{"c1"}
	assert.True(t, u.HasBlocked("c1"))
	assert.False(t, u.HasBlocked("c2"))
}

func TestNewIDIsUnique(t *testing.T) {
	assert.NotEqual(t, NewID(), NewID())
}
