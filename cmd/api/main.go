// Copyright (c) 2026 LitMT. All rights reserved.

// Command api is the entry point for the LitMT HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Connect to the object store (MinIO).
//  6. Run database migrations (idempotent).
//  7. Wire HTTP handlers.
//  8. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/litmt/litmt/internal/api"
	"github.com/litmt/litmt/internal/catalog"
	"github.com/litmt/litmt/internal/platform/blob"
	"github.com/litmt/litmt/internal/platform/config"
	"github.com/litmt/litmt/internal/platform/constants"
	"github.com/litmt/litmt/internal/platform/migration"
	pgstore "github.com/litmt/litmt/internal/platform/postgres"
	"github.com/litmt/litmt/internal/platform/ratelimit"
	redisstore "github.com/litmt/litmt/internal/platform/redis"
	"github.com/litmt/litmt/internal/platform/sec"
	"github.com/litmt/litmt/internal/suggestion"
	"github.com/litmt/litmt/internal/users/account"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("[LitMT] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Object Store ───────────────────────────────────────────────────
	blobStore, err := blob.NewMinioStore(startupCtx, blob.Options{
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		Bucket:    cfg.S3Bucket,
		UseSSL:    cfg.S3UseSSL,
	})
	must(log, err, "connect to object store")

	// ── 6. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 7. Token Service ──────────────────────────────────────────────────
	jwtSvc, err := sec.NewTokenService(
		cfg.JWTSecret,
		cfg.JWTAlgorithm,
		constants.AuthIssuer,
		time.Duration(cfg.JWTExpiresMin)*time.Minute,
	)
	must(log, err, "initialize jwt service")

	// ── 8. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
		CheckBlobStore: func() error {
			return blobStore.Ping(context.Background())
		},
	}, log)

	// ── 9. Domain Wiring ──────────────────────────────────────────────────
	credentialThrottle := ratelimit.NewFixedWindow(rdb,
		constants.RedisPrefixCredentialThrottle,
		constants.CredentialWindowLimit,
		constants.CredentialWindow,
	)

	accountRepository := account.NewRepository(pool, log)
	accountService := account.NewService(accountRepository, jwtSvc, log)
	accountHandler := account.NewHandler(accountService, credentialThrottle)

	bookRepository := catalog.NewBookRepository(pool, log)
	translationRepository := catalog.NewTranslationRepository(pool, log)
	catalogService := catalog.NewService(bookRepository, translationRepository, blobStore, log)
	catalogHandler := catalog.NewHandler(catalogService)

	suggestionRepository := suggestion.NewRepository(pool, log)
	suggestionService := suggestion.NewService(suggestionRepository, log)
	suggestionHandler := suggestion.NewHandler(suggestionService)

	// ── 10. HTTP Server ───────────────────────────────────────────────────
	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	handlers := api.Handlers{
		Liveness:   liveness,
		Readiness:  readiness,
		Account:    accountHandler,
		Catalog:    catalogHandler,
		Suggestion: suggestionHandler,
	}

	server := api.NewServer(serverCtx, cfg, log, jwtSvc, handlers)

	// ── 11. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
