package identity

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements Store over PostgreSQL.
//
// The pgx pool is owned by the caller; this store must not close it.
// Schema/table identifiers are quoted to avoid injection via identifiers.
type PostgresStore struct {
	pool   *pgxpool.Pool
	schema string
}

// PostgresOption configures the store.
type PostgresOption func(*PostgresStore) error

var pgIdentRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// WithSchema sets the Postgres schema used by the store (default "trend").
func WithSchema(schema string) PostgresOption {
	return func(s *PostgresStore) error {
		schema = strings.TrimSpace(schema)
		if schema == "" || !pgIdentRe.MatchString(schema) {
			return fmt.Errorf("identity: invalid schema identifier")
		}
		s.schema = schema
		return nil
	}
}

// NewPostgresStore constructs a PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool, opts ...PostgresOption) (*PostgresStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("identity: nil pool")
	}

	st := &PostgresStore{
		pool:   pool,
		schema: "trend",
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(st); err != nil {
			return nil, err
		}
	}
	return st, nil
}

// EnsureSchema creates the schema and users table when they do not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx,
		`CREATE SCHEMA IF NOT EXISTS `+pgx.Identifier{s.schema}.Sanitize(),
	); err != nil {
		return fmt.Errorf("identity: create schema: %w", err)
	}

	users := s.ident("users")
	_, err := s.pool.Exec(ctx,
		`CREATE TABLE IF NOT EXISTS `+users+` (
		     identifier    TEXT PRIMARY KEY,
		     password_hash TEXT NOT NULL,
		     created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		     updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
		 )`,
	)
	if err != nil {
		return fmt.Errorf("identity: create users table: %w", err)
	}
	return nil
}

// PasswordHash returns the stored hash for identifier, or ErrNotFound.
func (s *PostgresStore) PasswordHash(ctx context.Context, identifier string) (string, error) {
	identifier = NormalizeIdentifier(identifier)
	if identifier == "" {
		return "", fmt.Errorf("%w: empty identifier", ErrInvalidInput)
	}

	users := s.ident("users")

	var hash string
	err := s.pool.QueryRow(ctx,
		`SELECT password_hash FROM `+users+` WHERE identifier = $1`,
		identifier,
	).Scan(&hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return hash, nil
}

// PutCredential inserts or replaces the credential for identifier in a
// single conflict-resolving statement.
func (s *PostgresStore) PutCredential(ctx context.Context, identifier, passwordHash string) error {
	identifier = NormalizeIdentifier(identifier)
	if identifier == "" {
		return fmt.Errorf("%w: empty identifier", ErrInvalidInput)
	}
	if strings.TrimSpace(passwordHash) == "" {
		return fmt.Errorf("%w: empty password hash", ErrInvalidInput)
	}

	users := s.ident("users")

	_, err := s.pool.Exec(ctx,
		`INSERT INTO `+users+` (identifier, password_hash)
		 VALUES ($1, $2)
		 ON CONFLICT (identifier) DO UPDATE
		    SET password_hash = EXCLUDED.password_hash,
		        updated_at    = now()`,
		identifier, passwordHash,
	)
	return err
}

func (s *PostgresStore) ident(name string) string {
	return pgx.Identifier{s.schema, name}.Sanitize()
}
