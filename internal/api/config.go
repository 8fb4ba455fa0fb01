package api

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config controls access-layer behavior and transport defaults.
type Config struct {
	// CookieName is the session cookie carrying the token text.
	CookieName string

	// CookieSecure marks the session cookie Secure; disable only for
	// plain-HTTP development setups.
	CookieSecure bool

	// MaxBodyBytes bounds request bodies before JSON decoding.
	MaxBodyBytes int64

	// Window is the smoothing window applied to the series read.
	Window int
}

// DefaultConfig returns the access-layer defaults.
func DefaultConfig() Config {
	return Config{
		CookieName:   "token",
		CookieSecure: true,
		MaxBodyBytes: 1 << 16, // measurements are tiny
		Window:       7,
	}
}

// LoadConfigFromEnv loads access-layer config from environment variables
// with safe defaults.
//
// Optional:
//   - TREND_COOKIE_NAME
//   - TREND_COOKIE_SECURE (true/false)
//   - TREND_MAX_BODY_BYTES
//   - TREND_AVERAGE_WINDOW
func LoadConfigFromEnv() Config {
	cfg := DefaultConfig()

	if v := strings.TrimSpace(os.Getenv("TREND_COOKIE_NAME")); v != "" {
		cfg.CookieName = v
	}
	if v := strings.TrimSpace(os.Getenv("TREND_COOKIE_SECURE")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.CookieSecure = b
		}
	}
	if v := strings.TrimSpace(os.Getenv("TREND_MAX_BODY_BYTES")); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.MaxBodyBytes = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("TREND_AVERAGE_WINDOW")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 365 {
			cfg.Window = n
		}
	}

	return cfg
}

// cookieExpiry trims the cookie lifetime to the token lifetime.
func cookieExpiry(exp time.Time) time.Time {
	return exp.UTC()
}
