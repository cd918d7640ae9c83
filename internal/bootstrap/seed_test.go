package bootstrap

import (
	"testing"

	"anoa.com/vidspace/internal/storage/memory"
	"anoa.com/vidspace/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestSeedDemo(t *testing.T) {
	ctx := t.Context()
	store := memory.New()

	videos, err := SeedDemo(ctx, store, logger.Nop())
	require.NoError(t, err)
	assert.Len(t, videos, 7)

	viewer, err := store.GetUserByEmail(ctx, DemoEmail)
	require.NoError(t, err)
	require.NotNil(t, viewer.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*viewer.Password), []byte(DemoPassword)))

	spaces, err := store.GetSpacesByUser(ctx, viewer.ID)
	require.NoError(t, err)
	require.Len(t, spaces, 1)
	assert.Len(t, spaces[0].ChannelIDs, 2)

	all, err := store.GetVideos(ctx, 100, "")
	require.NoError(t, err)
	assert.Len(t, all, 7)

	again, err := SeedDemo(ctx, store, logger.Nop())
	require.NoError(t, err)
	assert.Empty(t, again)

	all, err = store.GetVideos(ctx, 100, "")
	require.NoError(t, err)
	assert.Len(t, all, 7)
}
