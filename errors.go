package keymint

import "errors"

var (
	// ErrEngineNotReady is returned when an Engine method is called before
	// the Engine was fully constructed through [Builder.Build].
	ErrEngineNotReady = errors.New("engine not initialized")

	// ErrInvalidCredentials is the single undifferentiated authentication
	// failure for credential exchange. Unknown username, wrong password,
	// and a store failure during lookup are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrExchangeRateLimited means the caller exhausted the failed-exchange
	// budget for the current window.
	ErrExchangeRateLimited = errors.New("exchange rate limited")

	// ErrUnsupportedSourceKind rejects an exchange whose source credential
	// kind is not "username-password". A validation failure, not an
	// authentication failure.
	ErrUnsupportedSourceKind = errors.New("unsupported source credential kind")

	// ErrUnsupportedTargetKind rejects an exchange whose target credential
	// kind is not "bearer". A validation failure, not an authentication
	// failure.
	ErrUnsupportedTargetKind = errors.New("unsupported target credential kind")

	// ErrUsernameRequired rejects a missing or blank username.
	ErrUsernameRequired = errors.New("username required")

	// ErrPasswordRequired rejects a missing or empty password.
	ErrPasswordRequired = errors.New("password required")

	// ErrIssuanceFailed means key generation, signing, or the verification
	// key write failed after the password was verified. The exchange
	// produced no token and left no partial state; the caller may retry.
	ErrIssuanceFailed = errors.New("token issuance failed")

	// ErrTokenMalformed rejects an absent, undecodable, or structurally
	// invalid bearer token, including one without a kid header.
	ErrTokenMalformed = errors.New("malformed token")

	// ErrTokenUnknownKey means no verification key exists for the token's
	// kid: expired, revoked, or never issued — indistinguishable on purpose.
	ErrTokenUnknownKey = errors.New("unknown or expired signing key")

	// ErrTokenSignature rejects a bearer token whose signature or algorithm
	// does not match its stored verification key.
	ErrTokenSignature = errors.New("invalid token signature")

	// ErrTokenExpired rejects a bearer token whose exp claim has elapsed,
	// independent of whether its key record was already evicted.
	ErrTokenExpired = errors.New("token expired")

	// ErrCredentialExists rejects credential creation for a username that
	// already has a credential record.
	ErrCredentialExists = errors.New("credential already exists")

	// ErrPasswordPolicy rejects credential creation when the password does
	// not satisfy the hashing policy.
	ErrPasswordPolicy = errors.New("password policy violation")

	// ErrCredentialUnavailable means the credential write path failed at
	// the store. Distinct from ErrInvalidCredentials because creation is
	// not an authentication decision.
	ErrCredentialUnavailable = errors.New("credential backend unavailable")
)
