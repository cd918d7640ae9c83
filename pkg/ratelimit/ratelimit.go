// Package ratelimit enforces "one action per user per window" with a Redis
// SETNX lock. A nil client disables limiting.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"anoa.com/vidspace/pkg/apperror"
	"github.com/redis/go-redis/v9"
)

// Error is returned when a caller hits a live lock. It unwraps to
// apperror.ErrRateLimitExceeded.
type Error struct {
	Message    string
	RetryAfter time.Duration
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return apperror.ErrRateLimitExceeded
}

type Limiter struct {
	rdb    *redis.Client
	window time.Duration
}

func New(rdb *redis.Client, window time.Duration) *Limiter {
	return &Limiter{rdb: rdb, window: window}
}

func key(userID, action string) string {
	return fmt.Sprintf("rate_limit:user:%s:%s", userID, action)
}

// Allow takes the lock for (userID, action). It reports false while a
// previous lock is still live.
func (l *Limiter) Allow(ctx context.Context, userID, action string) (bool, error) {
	if l == nil || l.rdb == nil || l.window <= 0 {
		return true, nil
	}

	wasSet, err := l.rdb.SetNX(ctx, key(userID, action), "locked", l.window).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit in redis: %w", err)
	}
	return wasSet, nil
}

// RetryAfter is the remaining lock time, or 0 when not limited.
func (l *Limiter) RetryAfter(ctx context.Context, userID, action string) (time.Duration, error) {
	if l == nil || l.rdb == nil {
		return 0, nil
	}
	ttl, err := l.rdb.TTL(ctx, key(userID, action)).Result()
	if err != nil {
		return 0, err
	}
	if ttl < 0 {
		return 0, nil
	}
	return ttl, nil
}

// Clear releases the lock, e.g. when the limited action failed.
func (l *Limiter) Clear(ctx context.Context, userID, action string) error {
	if l == nil || l.rdb == nil {
		return nil
	}
	return l.rdb.Del(ctx, key(userID, action)).Err()
}
