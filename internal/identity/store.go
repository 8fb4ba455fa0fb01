package identity

import (
	"context"
	"strings"
	"time"
)

// Credential is one (identifier, password hash) record.
type Credential struct {
	Identifier   string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Store is the credential persistence boundary.
type Store interface {
	// PasswordHash returns the stored hash for identifier.
	// Returns ErrNotFound when the identifier is unknown.
	PasswordHash(ctx context.Context, identifier string) (string, error)

	// PutCredential inserts or replaces the credential for identifier.
	// Replacing is hash rotation; the write is atomic per identifier.
	PutCredential(ctx context.Context, identifier, passwordHash string) error
}

// NormalizeIdentifier canonicalizes an identifier for use as a lookup key.
func NormalizeIdentifier(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
