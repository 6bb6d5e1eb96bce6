// Package redis implements kv.Store on a Redis server. Session state is
// disposable, so every key carries a TTL and errors are reported but never
// retried.
package redis

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"

	"github.com/threadkart/storefront/internal/storage/kv"
)

var _ kv.Store = (*Store)(nil)

// Store wraps a Redis client as a TTL-bounded key/value store.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to the Redis server at url and verifies the connection.
// Every value written through the store expires after ttl.
func New(ctx context.Context, url string, ttl time.Duration) (*Store, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Wrap(err, "parse redis url")
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.Wrap(err, "ping redis")
	}

	return &Store{client: client, ttl: ttl}, nil
}

// Get returns the value for key, mapping redis.Nil to kv.ErrNotFound.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, kv.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "redis get")
	}
	return data, nil
}

// Set writes value under key with the configured TTL. Each write refreshes
// the expiry, so active sessions never lose state mid-visit.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, key, value, s.ttl).Err(); err != nil {
		return errors.Wrap(err, "redis set")
	}
	return nil
}

// Delete removes key. Deleting an absent key succeeds.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return errors.Wrap(err, "redis delete")
	}
	return nil
}

// Close releases the underlying client connections.
func (s *Store) Close() error {
	return s.client.Close()
}
