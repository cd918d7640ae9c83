package ratelimit

import (
	"testing"
	"time"

	"anoa.com/vidspace/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "rate_limit:user:u1:comment", key("u1", "comment"))
}

func TestNilClientAlwaysAllows(t *testing.T) {
	l := New(nil, time.Minute)
	for i := 0; i < 3; i++ {
		ok, err := l.Allow(t.Context(), "u1", "comment")
		require.NoError(t, err)
		assert.True(t, ok)
	}

	ttl, err := l.RetryAfter(t.Context(), "u1", "comment")
	require.NoError(t, err)
	assert.Zero(t, ttl)
	assert.NoError(t, l.Clear(t.Context(), "u1", "comment"))

	var none *Limiter
	ok, err := none.Allow(t.Context(), "u1", "comment")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestErrorMapsTo429(t *testing.T) {
	err := &Error{Message: "slow down", RetryAfter: 3 * time.Second}
	assert.ErrorIs(t, err, apperror.ErrRateLimitExceeded)
	assert.Equal(t, 429, apperror.MapErrorToStatus(err))
	assert.Equal(t, "slow down", err.Error())
}
