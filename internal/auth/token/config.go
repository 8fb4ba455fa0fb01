package token

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"time"
)

// minSecretBytes is the smallest accepted HMAC secret size.
const minSecretBytes = 32

// Config defines runtime configuration for the token subsystem.
type Config struct {
	// Issuer is the value set in and required from the "iss" claim.
	Issuer string

	// TTL is the token lifetime from the moment of issue.
	TTL time.Duration

	// SecretHex is the hex-encoded HMAC signing secret (>= 32 bytes).
	// When empty, the caller decides between failing and generating an
	// ephemeral secret; see NewEphemeralSecretHex.
	SecretHex string
}

// DefaultConfig returns defaults suitable for a single-user deployment.
// The 30-day TTL stands in for the original far-future expiration while
// keeping tokens bounded.
func DefaultConfig() Config {
	return Config{
		Issuer: "trend",
		TTL:    30 * 24 * time.Hour,
	}
}

// LoadConfigFromEnv loads token configuration from environment variables.
//
// Optional:
//   - TREND_TOKEN_ISSUER
//   - TREND_TOKEN_TTL (Go duration string)
//   - TREND_TOKEN_SECRET_HEX
//
// An empty secret is not an error here; the application layer chooses
// whether to generate an ephemeral one (invalidating sessions on restart).
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v := os.Getenv("TREND_TOKEN_ISSUER"); v != "" {
		cfg.Issuer = v
	}

	if v := os.Getenv("TREND_TOKEN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("%w: TREND_TOKEN_TTL", ErrConfig)
		}
		cfg.TTL = d
	}

	cfg.SecretHex = os.Getenv("TREND_TOKEN_SECRET_HEX")
	if cfg.SecretHex != "" {
		if _, err := decodeSecretHex(cfg.SecretHex); err != nil {
			return Config{}, err
		}
	}

	return cfg, nil
}

// NewEphemeralSecretHex generates a fresh random signing secret.
// Tokens signed with it become unverifiable after a restart; that trade-off
// belongs to the operator, not to this package.
func NewEphemeralSecretHex() (string, error) {
	b := make([]byte, minSecretBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func decodeSecretHex(s string) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: secret is not valid hex", ErrConfig)
	}
	if len(b) < minSecretBytes {
		return nil, fmt.Errorf("%w: secret shorter than %d bytes", ErrConfig, minSecretBytes)
	}
	return b, nil
}
