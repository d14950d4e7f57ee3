// Package store defines the key-value store contract backing credential and
// verification-key records, with Redis and in-memory implementations.
//
// # Semantics
//
// The store is a flat keyspace with per-key expiry. Writes with a TTL of zero
// are durable; writes with a positive TTL are evicted by the backend once the
// TTL elapses. Single-key Get/Set/SetNX are linearizable on both backends;
// no cross-key transactions are offered or needed.
//
// # Architecture boundaries
//
// This package owns persistence only. It has no knowledge of record shapes,
// key layouts, or authentication semantics — callers serialize their own
// values and choose their own key prefixes.
//
// # What this package must NOT do
//
//   - Interpret stored values.
//   - Retry or mask backend failures (callers decide how to fail).
//   - Import any other keymint package.
package store
