// Package token issues and verifies short-lived RS256 bearer tokens with a
// dedicated key pair per token.
//
// # Key lifecycle
//
// Issue generates a fresh RSA-2048 key pair, signs a {sub, exp} payload with
// the private key, persists only the public half under a random key
// identifier with a TTL equal to the token's validity window, and then drops
// the private key. Each private key signs exactly one token and is never
// stored, so compromising one token's key material cannot forge any other
// token, and evicting the public-key record revokes the token early.
//
// Verify resolves the token's kid to its stored public key. A missing record
// — whether never written, TTL-evicted, or unreadable because the store is
// down — is a single indistinguishable unknown-key failure: verification
// fails closed. Expiry is checked both by the JWT library and once more
// against the clock after parsing, because store eviction is not guaranteed
// to be instantaneous.
//
// # What this package must NOT do
//
//   - Retain or persist private keys past signing.
//   - Reuse a key pair across tokens.
//   - Return a token before its verification key is durably written.
package token
