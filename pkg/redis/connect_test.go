package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/stockalert/pkg/redis"
)

func TestConnect_InvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		url     string
		wantErr error
	}{
		{"empty url", "", redis.ErrEmptyConnectionURL},
		{"bad scheme", "http://localhost:6379", redis.ErrFailedToParseRedisConnString},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			client, err := redis.Connect(context.Background(), redis.Config{ConnectionURL: tt.url})
			assert.Nil(t, client)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestConnect_Unreachable(t *testing.T) {
	t.Parallel()

	cfg := redis.Config{
		ConnectionURL:  "redis://127.0.0.1:1/0",
		RetryAttempts:  2,
		RetryInterval:  10 * time.Millisecond,
		ConnectTimeout: 2 * time.Second,
	}

	client, err := redis.Connect(context.Background(), cfg)
	assert.Nil(t, client)
	assert.ErrorIs(t, err, redis.ErrRedisNotReady)
}

func TestStore_EmptyKey(t *testing.T) {
	t.Parallel()

	s := redis.NewStore(nil, "stockalert:")
	ctx := context.Background()

	_, err := s.Get(ctx, "")
	assert.ErrorIs(t, err, redis.ErrEmptyKey)
	assert.ErrorIs(t, s.Set(ctx, "", []byte("x")), redis.ErrEmptyKey)
	assert.ErrorIs(t, s.Delete(ctx, ""), redis.ErrEmptyKey)
}
