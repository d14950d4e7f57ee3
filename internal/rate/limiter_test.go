package rate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestLimiter(t *testing.T, cfg Config) (*Limiter, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = rdb.Close()
		mr.Close()
	})

	return New(rdb, cfg), mr
}

func TestLimiterBudget(t *testing.T) {
	l, _ := newTestLimiter(t, Config{MaxAttempts: 3, Cooldown: time.Minute})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := l.Check(ctx, "alice", ""); err != nil {
			t.Fatalf("check %d: %v", i+1, err)
		}
		if err := l.Increment(ctx, "alice", ""); err != nil {
			t.Fatalf("increment %d: %v", i+1, err)
		}
	}

	if err := l.Increment(ctx, "alice", ""); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited past budget, got %v", err)
	}
	if err := l.Check(ctx, "alice", ""); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited on check, got %v", err)
	}

	// A different username has its own counter.
	if err := l.Check(ctx, "bob", ""); err != nil {
		t.Fatalf("expected bob unaffected: %v", err)
	}
}

func TestLimiterWindowExpiry(t *testing.T) {
	l, mr := newTestLimiter(t, Config{MaxAttempts: 1, Cooldown: time.Minute})
	ctx := context.Background()

	_ = l.Increment(ctx, "alice", "")
	if err := l.Increment(ctx, "alice", ""); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if err := l.Check(ctx, "alice", ""); err != nil {
		t.Fatalf("expected fresh window after cooldown: %v", err)
	}
}

func TestLimiterReset(t *testing.T) {
	l, _ := newTestLimiter(t, Config{MaxAttempts: 1, Cooldown: time.Minute})
	ctx := context.Background()

	_ = l.Increment(ctx, "alice", "")
	if err := l.Reset(ctx, "alice", ""); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if err := l.Increment(ctx, "alice", ""); err != nil {
		t.Fatalf("expected full budget after reset: %v", err)
	}
}

func TestLimiterIPThrottle(t *testing.T) {
	l, _ := newTestLimiter(t, Config{EnableIPThrottle: true, MaxAttempts: 1, Cooldown: time.Minute})
	ctx := context.Background()

	_ = l.Increment(ctx, "alice", "203.0.113.7")

	// Another username from the same address shares the IP counter.
	if err := l.Increment(ctx, "bob", "203.0.113.7"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected shared IP budget exhausted, got %v", err)
	}
}

func TestLimiterRedisOutage(t *testing.T) {
	l, mr := newTestLimiter(t, Config{MaxAttempts: 1, Cooldown: time.Minute})
	mr.Close()

	if err := l.Check(context.Background(), "alice", ""); !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("expected ErrRedisUnavailable, got %v", err)
	}
}
