package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when the key does not exist or has expired.
var ErrNotFound = errors.New("store: key not found")

// ErrUnavailable wraps backend transport failures.
var ErrUnavailable = errors.New("store: backend unavailable")

// Store is the key-value contract shared by all backends. A TTL of zero
// makes the record durable; a positive TTL schedules eviction. Eviction
// timing is backend-dependent: readers must treat a stale-but-present
// record and an evicted record as equivalent outcomes.
type Store interface {
	// Get returns the value for key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set writes the value, replacing any existing record.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// SetNX writes the value only if the key does not exist.
	// Returns false when the key was already present.
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)

	// Delete removes the key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Ping reports backend reachability.
	Ping(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}
