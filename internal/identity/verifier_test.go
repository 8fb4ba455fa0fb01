package identity

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"trend/internal/security/password"
	"trend/internal/work"
)

type mapStore struct {
	hashes map[string]string
	err    error
	reads  int
}

func (m *mapStore) PasswordHash(_ context.Context, identifier string) (string, error) {
	m.reads++
	if m.err != nil {
		return "", m.err
	}
	h, ok := m.hashes[NormalizeIdentifier(identifier)]
	if !ok {
		return "", ErrNotFound
	}
	return h, nil
}

func (m *mapStore) PutCredential(_ context.Context, identifier, hash string) error {
	if m.err != nil {
		return m.err
	}
	if m.hashes == nil {
		m.hashes = map[string]string{}
	}
	m.hashes[NormalizeIdentifier(identifier)] = hash
	return nil
}

func cheapHasher() password.Config {
	cfg := password.DefaultConfig()
	cfg.Params.MemoryKiB = 8 * 1024
	cfg.Params.Iterations = 1
	return cfg
}

func newTestVerifier(t *testing.T, store Store) (*Verifier, *work.Pool) {
	t.Helper()

	pool := work.New(2)
	t.Cleanup(pool.Close)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	v, err := NewVerifier(log, store, cheapHasher(), pool)
	if err != nil {
		t.Fatalf("NewVerifier: %v", err)
	}
	return v, pool
}

func TestVerify_KnownUser(t *testing.T) {
	t.Parallel()

	hasher := cheapHasher()
	hash, err := hasher.Hash("open sesame")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}

	st := &mapStore{hashes: map[string]string{"alice": hash}}
	v, _ := newTestVerifier(t, st)

	ok, err := v.Verify(context.Background(), "alice", "open sesame")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !ok {
		t.Fatalf("expected authenticated")
	}

	ok, err = v.Verify(context.Background(), "Alice ", "open sesame")
	if err != nil || !ok {
		t.Fatalf("identifier normalization failed: ok=%v err=%v", ok, err)
	}

	ok, err = v.Verify(context.Background(), "alice", "wrong")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if ok {
		t.Fatalf("expected not authenticated")
	}
}

func TestVerify_UnknownUser(t *testing.T) {
	t.Parallel()

	st := &mapStore{}
	v, _ := newTestVerifier(t, st)

	// Unknown identifier and wrong secret must be the same observable
	// outcome: false without an error.
	ok, err := v.Verify(context.Background(), "nobody", "whatever")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if ok {
		t.Fatalf("expected not authenticated")
	}
}

func TestVerify_EmptySecret(t *testing.T) {
	t.Parallel()

	st := &mapStore{hashes: map[string]string{"alice": "$argon2id$..."}}
	v, _ := newTestVerifier(t, st)

	ok, err := v.Verify(context.Background(), "alice", "")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if ok {
		t.Fatalf("expected not authenticated")
	}
	if st.reads != 0 {
		t.Fatalf("empty secret must not touch the store, reads=%d", st.reads)
	}
}

func TestVerify_StoreError(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection refused")
	st := &mapStore{err: boom}
	v, _ := newTestVerifier(t, st)

	if _, err := v.Verify(context.Background(), "alice", "secret"); !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestVerify_CorruptStoredHash(t *testing.T) {
	t.Parallel()

	st := &mapStore{hashes: map[string]string{"alice": "garbage"}}
	v, _ := newTestVerifier(t, st)

	ok, err := v.Verify(context.Background(), "alice", "secret")
	if err != nil {
		t.Fatalf("corrupt hash must fail closed without error, got %v", err)
	}
	if ok {
		t.Fatalf("expected not authenticated")
	}
}

func TestHashSecret_RoundTrip(t *testing.T) {
	t.Parallel()

	st := &mapStore{}
	v, _ := newTestVerifier(t, st)

	hash, err := v.HashSecret(context.Background(), "a fine secret")
	if err != nil {
		t.Fatalf("HashSecret: %v", err)
	}
	if err := st.PutCredential(context.Background(), "bob", hash); err != nil {
		t.Fatalf("PutCredential: %v", err)
	}

	ok, err := v.Verify(context.Background(), "bob", "a fine secret")
	if err != nil || !ok {
		t.Fatalf("round trip failed: ok=%v err=%v", ok, err)
	}
}
