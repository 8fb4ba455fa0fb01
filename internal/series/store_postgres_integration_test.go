package series

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Integration tests are opt-in and require TREND_TEST_DATABASE_URL.

func TestPostgresStore_UpsertOverwrites(t *testing.T) {
	t.Parallel()

	pool := mustOpenTestPool(t)
	defer pool.Close()

	s := mustNewTestStore(t, pool)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := s.Upsert(ctx, "2024-01-01", 80.5); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := s.Upsert(ctx, "2024-01-01", 79.9); err != nil {
		t.Fatalf("Upsert overwrite: %v", err)
	}

	all, err := s.All(ctx)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected exactly one row, got %d", len(all))
	}
	if all[0].Date != "2024-01-01" || all[0].Weight != 79.9 {
		t.Fatalf("got %+v", all[0])
	}
}

func TestPostgresStore_CurrentAndOrdering(t *testing.T) {
	t.Parallel()

	pool := mustOpenTestPool(t)
	defer pool.Close()

	s := mustNewTestStore(t, pool)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// Insert out of order; reads must come back ascending.
	for _, m := range []Measurement{
		{Date: "2024-01-03", Weight: 78},
		{Date: "2024-01-01", Weight: 80},
		{Date: "2024-01-02", Weight: 79},
	} {
		if err := s.Upsert(ctx, m.Date, m.Weight); err != nil {
			t.Fatalf("Upsert(%s): %v", m.Date, err)
		}
	}

	all, err := s.All(ctx)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(all))
	}
	for i, want := range []string{"2024-01-01", "2024-01-02", "2024-01-03"} {
		if all[i].Date != want {
			t.Fatalf("row %d date=%q want %q", i, all[i].Date, want)
		}
	}

	cur, err := s.Current(ctx)
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if cur.Date != "2024-01-03" || cur.Weight != 78 {
		t.Fatalf("Current=%+v", cur)
	}
}

func TestPostgresStore_Empty(t *testing.T) {
	t.Parallel()

	pool := mustOpenTestPool(t)
	defer pool.Close()

	s := mustNewTestStore(t, pool)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if _, err := s.Current(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	all, err := s.All(ctx)
	if err != nil {
		t.Fatalf("All on empty store must not error, got %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("expected empty slice, got %d rows", len(all))
	}
}

func TestPostgresStore_RejectsBadDate(t *testing.T) {
	t.Parallel()

	pool := mustOpenTestPool(t)
	defer pool.Close()

	s := mustNewTestStore(t, pool)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := s.Upsert(ctx, "01/02/2024", 80); !errors.Is(err, ErrBadDate) {
		t.Fatalf("expected ErrBadDate, got %v", err)
	}
}

// ---- helpers ----

func mustOpenTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	raw := strings.TrimSpace(os.Getenv("TREND_TEST_DATABASE_URL"))
	if raw == "" {
		t.Skip("integration test skipped: TREND_TEST_DATABASE_URL is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, raw)
	if err != nil {
		t.Fatalf("connect postgres: %v", err)
	}

	c, err := pool.Acquire(ctx)
	if err != nil {
		pool.Close()
		t.Skipf("integration test skipped: Postgres unreachable: %v", err)
	}
	c.Release()

	return pool
}

func mustNewTestStore(t *testing.T, pool *pgxpool.Pool) *PostgresStore {
	t.Helper()

	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		t.Fatalf("rand: %v", err)
	}
	schema := "trend_it_" + hex.EncodeToString(b)

	s, err := NewPostgresStore(pool, WithSchema(schema))
	if err != nil {
		t.Fatalf("NewPostgresStore: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}

	t.Cleanup(func() {
		dropCtx, dropCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer dropCancel()
		_, _ = pool.Exec(dropCtx, `DROP SCHEMA IF EXISTS `+pgx.Identifier{schema}.Sanitize()+` CASCADE`)
	})

	return s
}
