package keymint

import "strings"

const (
	// CredentialKindPassword is the only supported source credential kind.
	CredentialKindPassword = "username-password"

	// TokenKindBearer is the only supported target credential kind.
	TokenKindBearer = "bearer"

	// TokenTypeBearer is the token type label returned with issued tokens.
	TokenTypeBearer = "bearer"
)

// ExchangeRequest asks the Engine to trade a username/password credential
// for a bearer token. From and To name the credential kinds so the wire
// contract can grow new kinds without changing shape.
type ExchangeRequest struct {
	From     string `json:"from"`
	Username string `json:"username"`
	Password string `json:"password"`
	To       string `json:"to"`
}

// ExchangeResult is a successful exchange. ExpiresAt is epoch milliseconds;
// the token's signed exp claim is the same instant floored to whole seconds.
type ExchangeResult struct {
	Token     string `json:"token"`
	TokenType string `json:"tokenType"`
	ExpiresAt int64  `json:"expiresAt"`
}

// CreateCredentialRequest registers a username/password credential. Identity
// is the opaque subject embedded in tokens issued for this credential; when
// empty a random identity is assigned.
type CreateCredentialRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Identity string `json:"identity,omitempty"`
}

// CreateCredentialResult reports the identity bound to the new credential.
type CreateCredentialResult struct {
	Identity string `json:"identity"`
}

// credentialRecord is the durable store value under credentials:<username>.
type credentialRecord struct {
	Hash     string `json:"hash"`
	Identity string `json:"identity"`
}

const credentialKeyPrefix = "credentials:"

func credentialKey(normalizedUsername string) string {
	return credentialKeyPrefix + normalizedUsername
}

// normalizeUsername trims surrounding whitespace and case-folds, so
// equivalent spellings resolve to one credential record.
func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
