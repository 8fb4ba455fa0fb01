package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"trend/internal/identity"
	"trend/internal/security/password"
	"trend/internal/work"
)

// InsertHash implements the insert-hash subcommand: it hashes a secret and
// stores the credential, replacing any previous one for the same user.
// With -print the hash goes to stdout instead and no database is touched.
func InsertHash(args []string) error {
	fs := flag.NewFlagSet("insert-hash", flag.ContinueOnError)
	user := fs.String("user", "", "credential identifier")
	secret := fs.String("secret", "", "secret to hash (falls back to TREND_BOOTSTRAP_SECRET)")
	printOnly := fs.Bool("print", false, "print the hash instead of storing it")
	if err := fs.Parse(args); err != nil {
		return err
	}

	_ = godotenv.Load()

	if *secret == "" {
		*secret = os.Getenv("TREND_BOOTSTRAP_SECRET")
	}
	if *secret == "" {
		return errors.New("insert-hash: -secret or TREND_BOOTSTRAP_SECRET is required")
	}

	hasher, err := password.FromEnv()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	workers := work.New(1)
	defer workers.Close()

	hash, err := work.Run(ctx, workers, func() (string, error) {
		return hasher.Hash(*secret)
	})
	if err != nil {
		return err
	}

	if *printOnly {
		fmt.Println(hash)
		return nil
	}

	if *user == "" {
		return errors.New("insert-hash: -user is required")
	}

	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	pool, err := NewDBPool(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	users, err := identity.NewPostgresStore(pool, identity.WithSchema(cfg.DBSchema))
	if err != nil {
		return err
	}
	if err := users.EnsureSchema(ctx); err != nil {
		return err
	}

	ident := identity.NormalizeIdentifier(*user)
	if err := users.PutCredential(ctx, ident, hash); err != nil {
		return err
	}

	fmt.Printf("credential stored for %q\n", ident)
	return nil
}
