// Package keymint exchanges long-term username/password credentials for
// short-lived signed bearer tokens, and verifies those tokens on later
// requests.
//
// Every issued token is signed by a key pair generated for that token alone:
// the private key is discarded after signing and only the public half is
// persisted, under a random key identifier, with a TTL equal to the token's
// validity window. A token is therefore verifiable exactly as long as it is
// valid, one key compromise can forge at most one token, and deleting a key
// record revokes its token early.
//
// # Architecture boundaries
//
// keymint is the public surface. It exposes [Engine], [Builder], [Config],
// audit/metrics types, and the request/response value types. Key lifecycle
// lives in the token subpackage, hashing in password, persistence in store,
// and throttling under internal/. The Engine is safe for concurrent use
// after [Builder.Build]; the backing store is the only shared state.
//
// # Failure discipline
//
// Authentication fails closed and undifferentiated: a missing username, a
// wrong password, and a store outage during lookup all surface as the same
// [ErrInvalidCredentials], so callers cannot be used as a username oracle.
// Malformed exchange requests are a distinct validation failure class and
// must be mapped to a client error, never to an authentication failure.
//
// # What this package must NOT do
//
//   - Expose store clients or key material in its public API.
//   - Retain private keys beyond a single signing operation.
//   - Distinguish unknown-username from wrong-password in any return value.
package keymint
