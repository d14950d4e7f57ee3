// Package password implements salted password hashing and verification with
// Argon2id.
//
// # Output format
//
// Hashes are encoded as PHC strings:
//
//	$argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<hash>
//
// The encoded string self-describes its parameters, so verification always
// recomputes with the parameters the hash was created under. [Hasher.NeedsRehash]
// reports whether a stored hash is weaker than the configured parameters so
// the caller can transparently upgrade it after a successful verification.
//
// # Architecture boundaries
//
// This package owns hashing and comparison only. Credential storage, lookup,
// and failure mapping belong to the engine.
//
// # What this package must NOT do
//
//   - Store or retrieve credentials.
//   - Import any other keymint package.
//   - Use non-constant-time comparison for hash matching.
package password
