package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/learnenglishzero/backend/internal/auth"
	"github.com/learnenglishzero/backend/internal/config"
	"github.com/learnenglishzero/backend/internal/items"
	"github.com/learnenglishzero/backend/internal/logger"
	"github.com/learnenglishzero/backend/internal/server"
	"github.com/learnenglishzero/backend/internal/store"
	"github.com/learnenglishzero/backend/internal/supabase"
)

var _ auth.EventRecorder = (*store.EventStore)(nil)

func main() {
	cfg := config.Get()
	if err := logger.Init(cfg.LogLevel, cfg.LogFormat); err != nil {
		fmt.Fprintf(os.Stderr, "logger init: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting "+cfg.AppName, zap.Stringer("config", cfg))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dialCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	// ── Supabase ─────────────────────────────────────────────
	backend := supabase.FromConfig(cfg)
	checks := map[string]server.Checker{
		"supabase": backend.Health,
	}

	// ── PostgreSQL ───────────────────────────────────────────
	if cfg.DatabaseURL != "" {
		pool, err := store.NewPostgresPool(dialCtx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("postgres", zap.Error(err))
		}
		defer pool.Close()
		checks["postgres"] = store.NewPostgresStore(pool).Ping
	}

	// ── Redis ────────────────────────────────────────────────
	var verifiers auth.VerifierStore = auth.NewMemoryVerifierStore()
	if cfg.RedisAddr != "" {
		rdb, err := store.NewRedisClient(dialCtx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			logger.Fatal("redis", zap.Error(err))
		}
		defer rdb.Close()
		verifiers = auth.NewRedisVerifierStore(rdb)
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	} else {
		logger.Warn("REDIS_ADDR not set, PKCE verifiers are kept in process memory")
	}

	// ── MongoDB ──────────────────────────────────────────────
	var events auth.EventRecorder = auth.NopRecorder{}
	if cfg.MongoURI != "" {
		mc, err := store.NewMongoClient(dialCtx, cfg.MongoURI)
		if err != nil {
			logger.Fatal("mongo", zap.Error(err))
		}
		defer func() {
			discCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = mc.Disconnect(discCtx)
		}()
		es := store.NewEventStore(mc.Database(cfg.MongoDB))
		if err := es.EnsureIndexes(dialCtx); err != nil {
			logger.Warn("auth event indexes", zap.Error(err))
		}
		events = es
	}

	// ── Handlers ─────────────────────────────────────────────
	authHandler := auth.NewHandler(backend, verifiers, events, cfg.FrontendURL, cfg.Debug)
	itemsHandler := items.NewHandler()

	router := server.NewRouter(server.Deps{
		Auth:           authHandler,
		Items:          itemsHandler,
		Checks:         checks,
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         logger.L().WithOptions(zap.AddCallerSkip(-1)),
	})

	if err := server.Run(ctx, ":"+cfg.Port, router); err != nil {
		logger.Error("server stopped", zap.Error(err))
		return
	}
	logger.Info("server stopped")
}
