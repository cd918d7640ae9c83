package sqlstore

import (
	"fmt"
	"strings"
	"testing"

	"anoa.com/vidspace/internal/storage"
	"anoa.com/vidspace/internal/storage/storagetest"
	"anoa.com/vidspace/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStore opens a private shared-cache in-memory SQLite database.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.Connect(database.Options{
		Driver: "sqlite",
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	s := New(db)
	require.NoError(t, s.Migrate(t.Context()))
	return s
}

func TestStore(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Storage {
		return newTestStore(t)
	})
}

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%abc%", containsPattern("ABC"))
	assert.Equal(t, `%50\%\_off%`, containsPattern("50%_off"))
	assert.Equal(t, `%a\\b%`, containsPattern(`a\b`))
}

func TestMigrate_Idempotent(t *testing.T) {
	s := newTestStore(t)
	assert.NoError(t, s.Migrate(t.Context()))
}
