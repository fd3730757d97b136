package dedup

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces dedup keys in Redis.
const DefaultRedisPrefix = "stockalert:dedup:"

// ErrRedis wraps failures talking to Redis.
var ErrRedis = errors.New("dedup redis operation failed")

// Redis keeps dedup keys in Redis so suppression survives restarts.
type Redis struct {
	db     redis.UniversalClient
	prefix string
}

// NewRedis creates a Redis-backed dedup cache. An empty prefix uses DefaultRedisPrefix.
func NewRedis(client redis.UniversalClient, prefix string) *Redis {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &Redis{db: client, prefix: prefix}
}

// ShouldSuppress reports whether key exists. Redis expires it on its own.
func (r *Redis) ShouldSuppress(ctx context.Context, key string) (bool, error) {
	n, err := r.db.Exists(ctx, r.prefix+key).Result()
	if err != nil {
		return false, errors.Join(ErrRedis, err)
	}
	return n > 0, nil
}

// Arm sets key with SET NX PX so a live key keeps its original deadline.
func (r *Redis) Arm(ctx context.Context, key string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if err := r.db.SetNX(ctx, r.prefix+key, 1, ttl).Err(); err != nil {
		return errors.Join(ErrRedis, err)
	}
	return nil
}
