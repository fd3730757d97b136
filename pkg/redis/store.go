package redis

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// Store is a key-value store over Redis. Keys are namespaced by a prefix.
type Store struct {
	db     redis.UniversalClient
	prefix string
}

// NewStore wraps client. Every key is stored as prefix+key.
func NewStore(client redis.UniversalClient, prefix string) *Store {
	return &Store{db: client, prefix: prefix}
}

// Get returns the value for key, or nil when the key does not exist.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	val, err := s.db.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return val, err
}

// Set stores value under key without expiration.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return ErrEmptyKey
	}
	return s.db.Set(ctx, s.prefix+key, value, 0).Err()
}

// Delete removes key. Missing keys are not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	return s.db.Del(ctx, s.prefix+key).Err()
}

// Conn returns the underlying client.
func (s *Store) Conn() redis.UniversalClient {
	return s.db
}
