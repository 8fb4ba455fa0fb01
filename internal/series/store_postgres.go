package series

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
// The pgx pool is owned by the caller; this store must not close it.
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
			return fmt.Errorf("series: invalid schema identifier")
		}
		s.schema = schema
		return nil
	}
}

// NewPostgresStore constructs a PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool, opts ...PostgresOption) (*PostgresStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("series: nil pool")
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

// EnsureSchema creates the schema and measurements table when absent.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx,
		`CREATE SCHEMA IF NOT EXISTS `+pgx.Identifier{s.schema}.Sanitize(),
	); err != nil {
		return fmt.Errorf("series: create schema: %w", err)
	}

	measurements := s.ident("measurements")
	_, err := s.pool.Exec(ctx,
		`CREATE TABLE IF NOT EXISTS `+measurements+` (
		     date       TEXT PRIMARY KEY,
		     weight     DOUBLE PRECISION NOT NULL,
		     updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		 )`,
	)
	if err != nil {
		return fmt.Errorf("series: create measurements table: %w", err)
	}
	return nil
}

// Upsert writes or overwrites the measurement for date in a single
// conflict-resolving statement, so concurrent writers for the same date
// serialize on the unique key.
func (s *PostgresStore) Upsert(ctx context.Context, date string, weight float64) error {
	key, err := NormalizeDate(date)
	if err != nil {
		return err
	}

	measurements := s.ident("measurements")

	_, err = s.pool.Exec(ctx,
		`INSERT INTO `+measurements+` (date, weight)
		 VALUES ($1, $2)
		 ON CONFLICT (date) DO UPDATE
		    SET weight     = EXCLUDED.weight,
		        updated_at = now()`,
		key, weight,
	)
	return err
}

// Current returns the measurement with the maximum date.
func (s *PostgresStore) Current(ctx context.Context) (Measurement, error) {
	measurements := s.ident("measurements")

	var m Measurement
	err := s.pool.QueryRow(ctx,
		`SELECT date, weight FROM `+measurements+` ORDER BY date DESC LIMIT 1`,
	).Scan(&m.Date, &m.Weight)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Measurement{}, ErrNotFound
		}
		return Measurement{}, err
	}
	return m, nil
}

// All returns every measurement ascending by date.
func (s *PostgresStore) All(ctx context.Context) ([]Measurement, error) {
	measurements := s.ident("measurements")

	rows, err := s.pool.Query(ctx,
		`SELECT date, weight FROM `+measurements+` ORDER BY date ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Measurement{}
	for rows.Next() {
		var m Measurement
		if err := rows.Scan(&m.Date, &m.Weight); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PostgresStore) ident(name string) string {
	return pgx.Identifier{s.schema, name}.Sanitize()
}
