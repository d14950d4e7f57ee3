package keymint

import (
	"testing"
	"time"
)

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"zero validity", func(c *Config) { c.Token.Validity = 0 }, true},
		{"negative validity", func(c *Config) { c.Token.Validity = -time.Hour }, true},
		{"weak rsa", func(c *Config) { c.Token.RSABits = 1024 }, true},
		{"rsa 3072", func(c *Config) { c.Token.RSABits = 3072 }, false},
		{"throttle without attempts", func(c *Config) {
			c.Security.EnableExchangeThrottle = true
			c.Security.MaxExchangeAttempts = 0
		}, true},
		{"throttle without cooldown", func(c *Config) {
			c.Security.EnableExchangeThrottle = true
			c.Security.ExchangeCooldown = 0
		}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaultConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr && err == nil {
				t.Fatal("expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected validation error: %v", err)
			}
		})
	}
}
