package keymint

import (
	"errors"
	"time"
)

// Config tunes the Engine. Zero value is not usable; start from the
// defaults via [New] and override selectively with [Builder.WithConfig].
type Config struct {
	Token    TokenConfig
	Password PasswordConfig
	Security SecurityConfig
	Audit    AuditConfig
	Metrics  MetricsConfig
}

// TokenConfig governs bearer token issuance.
type TokenConfig struct {
	// Validity is the token lifetime and the TTL of its verification-key
	// record. Both expire together.
	Validity time.Duration

	// RSABits is the modulus size of the per-token key pair.
	RSABits int
}

// PasswordConfig carries Argon2id cost parameters for new hashes. Stored
// hashes self-describe their parameters; raising these only affects new
// hashes and, with UpgradeOnExchange, transparently re-hashes old ones.
type PasswordConfig struct {
	Memory            uint32 // KiB
	Time              uint32
	Parallelism       uint8
	SaltLength        uint32
	KeyLength         uint32
	UpgradeOnExchange bool
}

// SecurityConfig gates exchange throttling. Throttling requires a Redis
// client on the Builder.
type SecurityConfig struct {
	EnableExchangeThrottle bool
	EnableIPThrottle       bool
	MaxExchangeAttempts    int
	ExchangeCooldown       time.Duration
}

// AuditConfig controls the asynchronous audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls the in-process counter set.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// DefaultConfig returns the configuration [New] starts from.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		Token: TokenConfig{
			Validity: 24 * time.Hour,
			RSABits:  2048,
		},
		Password: PasswordConfig{
			Memory:            64 * 1024,
			Time:              3,
			Parallelism:       2,
			SaltLength:        16,
			KeyLength:         32,
			UpgradeOnExchange: true,
		},
		Security: SecurityConfig{
			EnableExchangeThrottle: false,
			EnableIPThrottle:       false,
			MaxExchangeAttempts:    10,
			ExchangeCooldown:       15 * time.Minute,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

// Validate rejects configurations the Engine cannot honor. Password cost
// parameters are validated separately by the password package during Build.
func (c *Config) Validate() error {
	if c.Token.Validity <= 0 {
		return errors.New("token validity must be > 0")
	}
	switch c.Token.RSABits {
	case 2048, 3072, 4096:
	default:
		return errors.New("token RSA bits must be 2048, 3072, or 4096")
	}

	if c.Security.EnableExchangeThrottle {
		if c.Security.MaxExchangeAttempts <= 0 {
			return errors.New("max exchange attempts must be > 0 when throttling")
		}
		if c.Security.ExchangeCooldown <= 0 {
			return errors.New("exchange cooldown must be > 0 when throttling")
		}
	}

	return nil
}
