package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginLimiter counts failed logins per user id. A nil client disables it.
type LoginLimiter struct {
	rdb         *redis.Client
	maxAttempts int
	lockout     time.Duration
}

func NewLoginLimiter(rdb *redis.Client, maxAttempts int, lockout time.Duration) *LoginLimiter {
	return &LoginLimiter{rdb: rdb, maxAttempts: maxAttempts, lockout: lockout}
}

func loginKey(userID string) string {
	return fmt.Sprintf("rate_limit:login:%s", userID)
}

// Locked reports whether userID has used up its attempts and for how long.
func (l *LoginLimiter) Locked(ctx context.Context, userID string) (bool, time.Duration, error) {
	if l == nil || l.rdb == nil || l.maxAttempts <= 0 {
		return false, 0, nil
	}

	count, err := l.rdb.Get(ctx, loginKey(userID)).Int()
	if err == redis.Nil {
		return false, 0, nil
	}
	if err != nil {
		return false, 0, fmt.Errorf("failed to check rate limit in redis: %w", err)
	}
	if count < l.maxAttempts {
		return false, 0, nil
	}

	ttl, err := l.rdb.TTL(ctx, loginKey(userID)).Result()
	if err != nil {
		return true, 0, err
	}
	return true, ttl, nil
}

// Fail records one failed attempt; the window starts at the first failure.
func (l *LoginLimiter) Fail(ctx context.Context, userID string) error {
	if l == nil || l.rdb == nil || l.maxAttempts <= 0 {
		return nil
	}

	key := loginKey(userID)
	count, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("failed to record login attempt in redis: %w", err)
	}
	if count == 1 {
		return l.rdb.Expire(ctx, key, l.lockout).Err()
	}
	return nil
}

func (l *LoginLimiter) Clear(ctx context.Context, userID string) error {
	if l == nil || l.rdb == nil {
		return nil
	}
	_, err := l.rdb.Del(ctx, loginKey(userID)).Result()
	return err
}
