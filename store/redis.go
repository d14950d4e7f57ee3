package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis implements [Store] on a go-redis client. The client is injected so
// callers control pooling, addressing, and lifecycle; Close is a no-op on
// the underlying client unless the store was told to own it.
type Redis struct {
	client redis.UniversalClient
	owned  bool
}

// NewRedis wraps an existing client. The caller remains responsible for
// closing the client.
func NewRedis(client redis.UniversalClient) *Redis {
	return &Redis{client: client}
}

// NewOwnedRedis wraps a client whose lifecycle is handed over to the store:
// Close closes the client.
func NewOwnedRedis(client redis.UniversalClient) *Redis {
	return &Redis{client: client, owned: true}
}

func (s *Redis) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return val, nil
}

func (s *Redis) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *Redis) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	if ttl < 0 {
		ttl = 0
	}
	ok, err := s.client.SetNX(ctx, key, value, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return ok, nil
}

func (s *Redis) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *Redis) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *Redis) Close() error {
	if !s.owned {
		return nil
	}
	return s.client.Close()
}
