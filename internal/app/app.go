package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"trend/internal/api"
	"trend/internal/auth/token"
	"trend/internal/identity"
	"trend/internal/security/password"
	"trend/internal/series"
	"trend/internal/work"
)

// App is the trend server runtime. It owns the database pool, the worker
// pool, and the HTTP wiring.
type App struct {
	cfg Config
	log Logger

	dbPool  *pgxpool.Pool
	workers *work.Pool

	handler *api.Handler
}

// New constructs a fully wired App instance from config and logger.
func New(ctx context.Context, cfg Config, log Logger) (*App, error) {
	if log == nil {
		log = NewLogger(cfg.LogLevel, cfg.LogFormat)
	}

	dbPool, err := NewDBPool(ctx, cfg)
	if err != nil {
		return nil, err
	}

	a, err := wire(ctx, cfg, log, dbPool)
	if err != nil {
		dbPool.Close()
		return nil, err
	}
	return a, nil
}

func wire(ctx context.Context, cfg Config, log Logger, dbPool *pgxpool.Pool) (*App, error) {
	users, err := identity.NewPostgresStore(dbPool, identity.WithSchema(cfg.DBSchema))
	if err != nil {
		return nil, err
	}
	measurements, err := series.NewPostgresStore(dbPool, series.WithSchema(cfg.DBSchema))
	if err != nil {
		return nil, err
	}
	if err := users.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	if err := measurements.EnsureSchema(ctx); err != nil {
		return nil, err
	}

	hasher, err := password.FromEnv()
	if err != nil {
		return nil, err
	}

	tcfg, err := token.LoadConfigFromEnv()
	if err != nil {
		return nil, err
	}
	if tcfg.SecretHex == "" {
		// Sessions will not survive a restart without a configured secret.
		tcfg.SecretHex, err = token.NewEphemeralSecretHex()
		if err != nil {
			return nil, err
		}
		log.Warn("token.secret.ephemeral", "hint", "set TREND_TOKEN_SECRET_HEX to keep sessions across restarts")
	}
	tokens, err := token.NewManager(tcfg)
	if err != nil {
		return nil, err
	}

	workers := work.New(cfg.Workers)

	verifier, err := identity.NewVerifier(log, users, hasher, workers)
	if err != nil {
		workers.Close()
		return nil, err
	}

	if err := bootstrapCredential(ctx, cfg, log, users, verifier); err != nil {
		workers.Close()
		return nil, err
	}

	apiCfg := api.LoadConfigFromEnv()
	handler, err := api.NewHandler(log, apiCfg, verifier, tokens, measurements, workers)
	if err != nil {
		workers.Close()
		return nil, err
	}

	return &App{
		cfg:     cfg,
		log:     log,
		dbPool:  dbPool,
		workers: workers,
		handler: handler,
	}, nil
}

// bootstrapCredential provisions the configured credential on first boot.
// An existing credential is never overwritten from env.
func bootstrapCredential(ctx context.Context, cfg Config, log Logger, users identity.Store, verifier *identity.Verifier) error {
	if cfg.BootstrapUser == "" || cfg.BootstrapSecret == "" {
		return nil
	}

	user := identity.NormalizeIdentifier(cfg.BootstrapUser)
	_, err := users.PasswordHash(ctx, user)
	if err == nil {
		return nil
	}
	if !errors.Is(err, identity.ErrNotFound) {
		return err
	}

	hash, err := verifier.HashSecret(ctx, cfg.BootstrapSecret)
	if err != nil {
		return err
	}
	if err := users.PutCredential(ctx, user, hash); err != nil {
		return err
	}

	log.Info("bootstrap.credential.created", "user", user)
	return nil
}

// Run starts the HTTP server and blocks until context cancellation or a
// fatal server error.
func (a *App) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	registerHTTP(mux, a.log, a.dbPool, a.handler)

	var h http.Handler = mux
	h = WithSecurityHeaders(h)
	h = WithMetrics(h)
	h = WithRequestLogging(h, a.log)

	srv := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           h,
		ReadHeaderTimeout: a.cfg.ReadHeaderTimeout,
		ReadTimeout:       a.cfg.ReadTimeout,
		WriteTimeout:      a.cfg.WriteTimeout,
		IdleTimeout:       a.cfg.IdleTimeout,
		MaxHeaderBytes:    a.cfg.MaxHeaderBytes,
	}

	a.log.Info("server.start", "addr", a.cfg.HTTPAddr)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		a.log.Info("server.stop", "reason", "context_done")
	case err := <-errCh:
		a.log.Error("server.fail", "err", err)
		a.close()
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := srv.Shutdown(shutdownCtx)
	a.close()
	if err != nil {
		a.log.Error("server.shutdown.fail", "err", err)
		return err
	}

	a.log.Info("server.stopped")
	return nil
}

func (a *App) close() {
	a.workers.Close()
	a.dbPool.Close()
}
