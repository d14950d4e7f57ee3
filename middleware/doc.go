// Package middleware exposes an HTTP adapter for bearer verification built
// on top of keymint.Engine.
//
// [Guard] reads the Authorization header, calls Engine.VerifyBearer, and
// injects the verified identity into the request context for downstream
// handlers via [IdentityFromContext].
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Engine calls. It does NOT
// implement verification logic itself — all decisions are delegated to
// Engine.VerifyBearer.
//
// # What this package must NOT do
//
//   - Parse or create tokens directly (delegates to Engine).
//   - Access the store (Engine handles I/O).
//   - Make authorization decisions beyond pass/reject from VerifyBearer.
package middleware
