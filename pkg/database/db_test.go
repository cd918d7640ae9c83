package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect_SQLite(t *testing.T) {
	db, err := Connect(Options{Driver: "sqlite", DSN: "file::memory:"})
	require.NoError(t, err)
	defer Close(db)

	var one int
	require.NoError(t, db.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)
}

func TestConnect_UnknownDriver(t *testing.T) {
	_, err := Connect(Options{Driver: "oracle"})
	assert.ErrorContains(t, err, "unsupported database driver")
}
