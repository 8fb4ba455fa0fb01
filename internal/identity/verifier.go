package identity

import (
	"context"
	"errors"
	"log/slog"

	"trend/internal/security/password"
	"trend/internal/work"
)

// Verifier authenticates (identifier, secret) pairs against the store.
//
// Unknown identifiers burn the same Argon2id cost against a process-fixed
// dummy hash, so a caller cannot distinguish "no such user" from "wrong
// secret" by timing. Both cases report plain not-authenticated.
type Verifier struct {
	log    *slog.Logger
	store  Store
	hasher password.Config
	pool   *work.Pool

	dummyHash string
}

// NewVerifier builds a Verifier. The dummy hash is derived once up front so
// the unknown-identifier path costs the same as a real verification.
func NewVerifier(log *slog.Logger, store Store, hasher password.Config, pool *work.Pool) (*Verifier, error) {
	if log == nil {
		log = slog.Default()
	}
	if store == nil {
		return nil, errors.New("identity: nil store")
	}

	dummy, err := hasher.Hash("dummy-secret-for-timing-only")
	if err != nil {
		return nil, err
	}

	return &Verifier{
		log:       log,
		store:     store,
		hasher:    hasher,
		pool:      pool,
		dummyHash: dummy,
	}, nil
}

// Verify reports whether secret authenticates identifier.
// Auth failure is (false, nil); an error means the check itself could not run
// (storage failure, worker dispatch failure) and must surface as internal.
func (v *Verifier) Verify(ctx context.Context, identifier, secret string) (bool, error) {
	if secret == "" {
		return false, nil
	}

	hash, err := v.store.PasswordHash(ctx, identifier)
	known := true
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return false, err
		}
		hash = v.dummyHash
		known = false
	}

	ok, err := work.Run(ctx, v.pool, func() (bool, error) {
		return v.hasher.Verify(hash, secret)
	})
	if err != nil {
		if errors.Is(err, password.ErrInvalidHash) {
			// A stored hash we cannot parse fails closed.
			v.log.Error("identity.verify.bad_stored_hash", "identifier", identifier)
			return false, nil
		}
		return false, err
	}

	return ok && known, nil
}

// HashSecret derives a storable hash for secret on the worker pool.
// Used by provisioning paths (insert-hash, bootstrap).
func (v *Verifier) HashSecret(ctx context.Context, secret string) (string, error) {
	return work.Run(ctx, v.pool, func() (string, error) {
		return v.hasher.Hash(secret)
	})
}
