package keymint

import (
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/keymint/keymint/internal/rate"
	"github.com/keymint/keymint/password"
	"github.com/keymint/keymint/store"
	"github.com/keymint/keymint/token"
)

// Builder assembles an [Engine]. One of WithStore or WithRedis is required;
// everything else has defaults.
type Builder struct {
	config Config

	store store.Store
	redis redis.UniversalClient

	auditSink AuditSink

	built bool
}

func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithStore uses an explicit store for credentials and verification keys.
// The caller keeps ownership; Engine.Close will not close it twice safely
// unless the store's Close is idempotent (both bundled stores are).
func (b *Builder) WithStore(st store.Store) *Builder {
	b.store = st
	return b
}

// WithRedis backs the Engine with Redis. The client also serves the exchange
// throttle when enabled.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	if sink != nil {
		b.config.Audit.Enabled = true
	}
	return b
}

func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := b.config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	st := b.store
	if st == nil {
		if b.redis == nil {
			return nil, errors.New("store or redis client required")
		}
		st = store.NewRedis(b.redis)
	}

	hasher, err := password.NewHasher(password.Params{
		Memory:      cfg.Password.Memory,
		Time:        cfg.Password.Time,
		Parallelism: cfg.Password.Parallelism,
		SaltLength:  cfg.Password.SaltLength,
		KeyLength:   cfg.Password.KeyLength,
	})
	if err != nil {
		return nil, err
	}

	var limiter *rate.Limiter
	if cfg.Security.EnableExchangeThrottle {
		if b.redis == nil {
			return nil, errors.New("exchange throttle requires redis client")
		}
		limiter = rate.New(b.redis, rate.Config{
			EnableIPThrottle: cfg.Security.EnableIPThrottle,
			MaxAttempts:      cfg.Security.MaxExchangeAttempts,
			Cooldown:         cfg.Security.ExchangeCooldown,
		})
	}

	engine := &Engine{
		config:   cfg,
		store:    st,
		hasher:   hasher,
		issuer:   token.NewIssuer(st, token.WithKeyBits(cfg.Token.RSABits)),
		verifier: token.NewVerifier(st),
		limiter:  limiter,
		audit:    newAuditDispatcher(cfg.Audit, b.auditSink),
		metrics:  NewMetrics(cfg.Metrics),
	}

	b.built = true
	return engine, nil
}
