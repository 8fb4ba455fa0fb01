package app

import (
	"errors"
	"time"
)

// Config contains all runtime configuration loaded from environment variables.
type Config struct {
	HTTPAddr  string
	LogLevel  string
	LogFormat string

	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int

	DatabaseURL string
	DBSchema    string
	DBMaxConns  int32
	DBMinConns  int32

	// Workers sizes the shared pool for password hashing and averaging.
	// Zero picks a CPU-derived default.
	Workers int

	// BootstrapUser and BootstrapSecret, when both set, provision a
	// credential at startup if none exists yet. Meant for first boot;
	// normal provisioning goes through the insert-hash subcommand.
	BootstrapUser   string
	BootstrapSecret string
}

// ErrConfig marks rejected runtime configuration.
var ErrConfig = errors.New("app: invalid config")

// LoadConfig loads Config from environment variables with defaults.
func LoadConfig() (Config, error) {
	cfg := Config{
		HTTPAddr:  EnvString("TREND_HTTP_ADDR", "0.0.0.0:8080"),
		LogLevel:  EnvString("TREND_LOG_LEVEL", "info"),
		LogFormat: EnvString("TREND_LOG_FORMAT", "json"),

		ReadHeaderTimeout: EnvDuration("TREND_HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
		ReadTimeout:       EnvDuration("TREND_HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:      EnvDuration("TREND_HTTP_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:       EnvDuration("TREND_HTTP_IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    EnvInt("TREND_HTTP_MAX_HEADER_BYTES", 1<<20),

		DatabaseURL: EnvString("TREND_DATABASE_URL", ""),
		DBSchema:    EnvString("TREND_DB_SCHEMA", "trend"),
		DBMaxConns:  EnvInt32("TREND_DB_MAX_CONNS", 10),
		DBMinConns:  EnvInt32("TREND_DB_MIN_CONNS", 0),

		Workers: EnvInt("TREND_WORKERS", 0),

		BootstrapUser:   EnvString("TREND_BOOTSTRAP_USER", ""),
		BootstrapSecret: EnvString("TREND_BOOTSTRAP_SECRET", ""),
	}

	// Measurements are the whole point of the service; there is no
	// in-memory fallback mode.
	if cfg.DatabaseURL == "" {
		return Config{}, errors.Join(ErrConfig, errors.New("TREND_DATABASE_URL is required"))
	}

	return cfg, nil
}
