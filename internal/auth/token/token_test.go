package token

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func testManager(t *testing.T, issuer string) *Manager {
	t.Helper()

	cfg := DefaultConfig()
	cfg.Issuer = issuer
	cfg.SecretHex = strings.Repeat("ab", 32)

	m, err := NewManager(cfg)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return m
}

func TestIssueAndVerify_RoundTrip(t *testing.T) {
	t.Parallel()

	m := testManager(t, "trend")
	now := time.Now().UTC()

	text, exp, err := m.Issue("alice", now)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if !exp.After(now) {
		t.Fatalf("expiry %v not after %v", exp, now)
	}

	id, err := m.Verify(text, now.Add(time.Second))
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if id.Subject != "alice" {
		t.Fatalf("subject=%q want alice", id.Subject)
	}
	if id.ExpiresAt.Unix() != exp.Unix() {
		t.Fatalf("expiry mismatch: %v vs %v", id.ExpiresAt, exp)
	}
}

func TestVerify_ForeignSecret(t *testing.T) {
	t.Parallel()

	m := testManager(t, "trend")

	other := DefaultConfig()
	other.SecretHex = strings.Repeat("cd", 32)
	m2, err := NewManager(other)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	now := time.Now().UTC()
	text, _, err := m2.Issue("alice", now)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := m.Verify(text, now); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerify_TamperedPayload(t *testing.T) {
	t.Parallel()

	m := testManager(t, "trend")
	now := time.Now().UTC()

	text, _, err := m.Issue("alice", now)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	parts := strings.Split(text, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %q", text)
	}

	// Flip one byte of the payload segment.
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	if _, err := m.Verify(tampered, now); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerify_Garbage(t *testing.T) {
	t.Parallel()

	m := testManager(t, "trend")
	now := time.Now().UTC()

	for _, in := range []string{"", "   ", "abc", "a.b.c"} {
		if _, err := m.Verify(in, now); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("Verify(%q): expected ErrInvalidToken, got %v", in, err)
		}
	}
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	m := testManager(t, "trend")
	now := time.Now().UTC()

	text, exp, err := m.Issue("alice", now)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	// Expiration is reported exactly like tampering.
	if _, err := m.Verify(text, exp.Add(time.Minute)); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerify_IssuerMismatch(t *testing.T) {
	t.Parallel()

	// Same secret, different issuer tag: signature checks out but the
	// assertion belongs to someone else.
	m1 := testManager(t, "trend")
	m2 := testManager(t, "other")

	now := time.Now().UTC()
	text, _, err := m2.Issue("alice", now)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := m1.Verify(text, now); !errors.Is(err, ErrWrongCredentials) {
		t.Fatalf("expected ErrWrongCredentials, got %v", err)
	}
}

func TestNewManager_BadConfig(t *testing.T) {
	t.Parallel()

	cases := []Config{
		{Issuer: "trend", TTL: time.Hour, SecretHex: ""},
		{Issuer: "trend", TTL: time.Hour, SecretHex: "zz"},
		{Issuer: "trend", TTL: time.Hour, SecretHex: "abcd"}, // too short
		{Issuer: "", TTL: time.Hour, SecretHex: strings.Repeat("ab", 32)},
		{Issuer: "trend", TTL: 0, SecretHex: strings.Repeat("ab", 32)},
	}

	for i, cfg := range cases {
		if _, err := NewManager(cfg); !errors.Is(err, ErrConfig) {
			t.Fatalf("case %d: expected ErrConfig, got %v", i, err)
		}
	}
}

func TestNewEphemeralSecretHex(t *testing.T) {
	t.Parallel()

	s1, err := NewEphemeralSecretHex()
	if err != nil {
		t.Fatalf("NewEphemeralSecretHex: %v", err)
	}
	s2, err := NewEphemeralSecretHex()
	if err != nil {
		t.Fatalf("NewEphemeralSecretHex: %v", err)
	}
	if s1 == s2 {
		t.Fatalf("two ephemeral secrets must differ")
	}

	cfg := DefaultConfig()
	cfg.SecretHex = s1
	if _, err := NewManager(cfg); err != nil {
		t.Fatalf("ephemeral secret rejected: %v", err)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("TREND_TOKEN_ISSUER", "scale.example")
	t.Setenv("TREND_TOKEN_TTL", "1h")
	t.Setenv("TREND_TOKEN_SECRET_HEX", strings.Repeat("ef", 32))

	cfg, err := LoadConfigFromEnv()
	if err != nil {
		t.Fatalf("LoadConfigFromEnv: %v", err)
	}
	if cfg.Issuer != "scale.example" {
		t.Fatalf("issuer=%q", cfg.Issuer)
	}
	if cfg.TTL != time.Hour {
		t.Fatalf("ttl=%v", cfg.TTL)
	}

	t.Setenv("TREND_TOKEN_TTL", "not-a-duration")
	if _, err := LoadConfigFromEnv(); !errors.Is(err, ErrConfig) {
		t.Fatalf("expected ErrConfig, got %v", err)
	}
}
