package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const loginLimiterPrefix = "dashboard:login:failures:"

// LoginLimiter counts failed logins per client key in Redis within a fixed
// window. A nil client or a non-positive max disables it. Redis errors are
// logged and the request is allowed.
type LoginLimiter struct {
	client *redis.Client
	max    int64
	window time.Duration
}

// NewLoginLimiter creates a LoginLimiter allowing max failures per window.
func NewLoginLimiter(client *redis.Client, max int, window time.Duration) *LoginLimiter {
	return &LoginLimiter{client: client, max: int64(max), window: window}
}

func (l *LoginLimiter) enabled() bool {
	return l != nil && l.client != nil && l.max > 0
}

// Blocked reports whether key has used up its failures and, if so, how long
// until the window resets.
func (l *LoginLimiter) Blocked(ctx context.Context, key string) (bool, time.Duration) {
	if !l.enabled() {
		return false, 0
	}

	count, err := l.client.Get(ctx, loginLimiterPrefix+key).Int64()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("Login limiter lookup failed", "error", err)
		}
		return false, 0
	}
	if count < l.max {
		return false, 0
	}

	ttl, err := l.client.TTL(ctx, loginLimiterPrefix+key).Result()
	if err != nil || ttl <= 0 {
		ttl = l.window
	}
	return true, ttl
}

// Failure records a failed login for key.
func (l *LoginLimiter) Failure(ctx context.Context, key string) {
	if !l.enabled() {
		return
	}

	k := loginLimiterPrefix + key
	n, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		slog.Warn("Login limiter increment failed", "error", err)
		return
	}
	if n == 1 {
		if err := l.client.Expire(ctx, k, l.window).Err(); err != nil {
			slog.Warn("Login limiter expire failed", "error", err)
		}
	}
}

// Reset clears the failure count for key after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, key string) {
	if !l.enabled() {
		return
	}
	if err := l.client.Del(ctx, loginLimiterPrefix+key).Err(); err != nil {
		slog.Warn("Login limiter reset failed", "error", err)
	}
}
