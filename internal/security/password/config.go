package password

import (
	"fmt"
	"math"
	"os"
	"runtime"
	"strconv"
	"strings"
)

// Params controls Argon2id hashing cost.
// MemoryKiB is in KiB as required by argon2.IDKey.
type Params struct {
	MemoryKiB   uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// Config is the single configuration surface for this package.
type Config struct {
	Params Params

	// MaxSecretLen bounds the submitted secret before hashing.
	// Hashing unbounded input is an easy denial-of-service vector.
	MaxSecretLen int
}

// DefaultConfig returns a baseline suitable for interactive logins.
func DefaultConfig() Config {
	// Parallelism follows the host CPU count but is clamped to [1..4]
	// to keep resource usage predictable in containers.
	threads := runtime.NumCPU()
	if threads <= 0 {
		threads = 1
	}
	if threads > 4 {
		threads = 4
	}

	return Config{
		Params: Params{
			MemoryKiB:   64 * 1024, // 64 MiB
			Iterations:  3,
			Parallelism: uint8(threads), // #nosec G115 -- clamped to [1..4] above.
			SaltLength:  16,
			KeyLength:   32,
		},
		MaxSecretLen: 256,
	}
}

// FromEnv loads config from environment variables, starting from defaults.
//
// Env surface:
//   - TREND_ARGON2_MEMORY_KIB
//   - TREND_ARGON2_ITERATIONS
//   - TREND_ARGON2_PARALLELISM
//   - TREND_SECRET_MAX_LEN
func FromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v, ok := os.LookupEnv("TREND_ARGON2_MEMORY_KIB"); ok {
		u, err := atou32(v, 8*1024, 1024*1024) // 8 MiB .. 1 GiB
		if err != nil {
			return Config{}, fmt.Errorf("TREND_ARGON2_MEMORY_KIB: %w", err)
		}
		cfg.Params.MemoryKiB = u
	}

	if v, ok := os.LookupEnv("TREND_ARGON2_ITERATIONS"); ok {
		u, err := atou32(v, 1, 20)
		if err != nil {
			return Config{}, fmt.Errorf("TREND_ARGON2_ITERATIONS: %w", err)
		}
		cfg.Params.Iterations = u
	}

	if v, ok := os.LookupEnv("TREND_ARGON2_PARALLELISM"); ok {
		u, err := atou32(v, 1, math.MaxUint8)
		if err != nil {
			return Config{}, fmt.Errorf("TREND_ARGON2_PARALLELISM: %w", err)
		}
		cfg.Params.Parallelism = uint8(u) // #nosec G115 -- bounded by atou32 above.
	}

	if v, ok := os.LookupEnv("TREND_SECRET_MAX_LEN"); ok {
		u, err := atou32(v, 1, 4096)
		if err != nil {
			return Config{}, fmt.Errorf("TREND_SECRET_MAX_LEN: %w", err)
		}
		cfg.MaxSecretLen = int(u)
	}

	return cfg, nil
}

func atou32(s string, minVal, maxVal uint32) (uint32, error) {
	s = strings.TrimSpace(s)
	u64, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("not an unsigned integer")
	}

	u := uint32(u64)
	if u < minVal || u > maxVal {
		return 0, fmt.Errorf("out of range [%d..%d]", minVal, maxVal)
	}
	return u, nil
}

// Validate checks a submitted secret against the config bounds.
func (c Config) Validate(secret string) error {
	if secret == "" {
		return ErrSecretEmpty
	}
	if c.MaxSecretLen > 0 && len(secret) > c.MaxSecretLen {
		return ErrSecretTooLong
	}
	return nil
}

func (c Config) check() error {
	p := c.Params
	if p.MemoryKiB == 0 || p.Iterations == 0 || p.Parallelism == 0 {
		return fmt.Errorf("argon2 params must be positive")
	}
	if p.SaltLength < 8 || p.SaltLength > 64 {
		return fmt.Errorf("argon2 salt length out of range [8..64]")
	}
	if p.KeyLength < 16 || p.KeyLength > 128 {
		return fmt.Errorf("argon2 key length out of range [16..128]")
	}
	return nil
}
