package store

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory implements [Store] in-process on top of go-cache. Expiry is
// enforced lazily on Get and swept by a background janitor, which matches
// the contract: eviction is not guaranteed to be instantaneous.
type Memory struct {
	c *gocache.Cache
}

// NewMemory creates an in-memory store. Intended for development and tests;
// records do not survive the process.
func NewMemory() *Memory {
	return &Memory{c: gocache.New(gocache.NoExpiration, time.Minute)}
}

func (s *Memory) Get(_ context.Context, key string) (string, error) {
	v, ok := s.c.Get(key)
	if !ok {
		return "", ErrNotFound
	}
	val, ok := v.(string)
	if !ok {
		return "", ErrNotFound
	}
	return val, nil
}

func (s *Memory) Set(_ context.Context, key, value string, ttl time.Duration) error {
	s.c.Set(key, value, normalizeTTL(ttl))
	return nil
}

func (s *Memory) SetNX(_ context.Context, key, value string, ttl time.Duration) (bool, error) {
	if err := s.c.Add(key, value, normalizeTTL(ttl)); err != nil {
		return false, nil
	}
	return true, nil
}

func (s *Memory) Delete(_ context.Context, key string) error {
	s.c.Delete(key)
	return nil
}

func (s *Memory) Ping(context.Context) error { return nil }

func (s *Memory) Close() error { return nil }

func normalizeTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return gocache.NoExpiration
	}
	return ttl
}
