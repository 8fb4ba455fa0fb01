package password

import "testing"

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	def := DefaultConfig()
	if cfg.Params.MemoryKiB != def.Params.MemoryKiB || cfg.Params.Iterations != def.Params.Iterations {
		t.Fatalf("expected defaults, got %+v", cfg.Params)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("TREND_ARGON2_MEMORY_KIB", "16384")
	t.Setenv("TREND_ARGON2_ITERATIONS", "2")
	t.Setenv("TREND_ARGON2_PARALLELISM", "2")
	t.Setenv("TREND_SECRET_MAX_LEN", "128")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Params.MemoryKiB != 16384 {
		t.Fatalf("MemoryKiB=%d", cfg.Params.MemoryKiB)
	}
	if cfg.Params.Iterations != 2 {
		t.Fatalf("Iterations=%d", cfg.Params.Iterations)
	}
	if cfg.Params.Parallelism != 2 {
		t.Fatalf("Parallelism=%d", cfg.Params.Parallelism)
	}
	if cfg.MaxSecretLen != 128 {
		t.Fatalf("MaxSecretLen=%d", cfg.MaxSecretLen)
	}
}

func TestFromEnv_Invalid(t *testing.T) {
	t.Setenv("TREND_ARGON2_MEMORY_KIB", "not-a-number")

	if _, err := FromEnv(); err == nil {
		t.Fatalf("expected error for invalid memory setting")
	}
}

func TestFromEnv_OutOfRange(t *testing.T) {
	t.Setenv("TREND_ARGON2_ITERATIONS", "1000")

	if _, err := FromEnv(); err == nil {
		t.Fatalf("expected error for out-of-range iterations")
	}
}
