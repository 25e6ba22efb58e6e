package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/church-member-library/admin-gateway/internal/api"
	"github.com/church-member-library/admin-gateway/internal/core/ports"
	"github.com/church-member-library/admin-gateway/internal/core/service"
	"github.com/church-member-library/admin-gateway/internal/infrastructure/config"
	mongodb "github.com/church-member-library/admin-gateway/internal/infrastructure/db/mongo"
	redisdb "github.com/church-member-library/admin-gateway/internal/infrastructure/db/redis"
	"github.com/church-member-library/admin-gateway/internal/infrastructure/queue"
	"github.com/church-member-library/admin-gateway/internal/infrastructure/registry"
	"github.com/church-member-library/admin-gateway/pkg/logger"
)

const shutdownGrace = 10 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: !cfg.Production(),
	})

	if cfg.Session.Secret == "" {
		log.Fatal().Msg("SESSION_SECRET must be set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Infrastructure ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	// --- Services ---
	auditService := service.NewAuditService(mongodb.NewAuditRepository(db), log)
	auditDispatcher := queue.NewDispatcher(0, auditService, log)
	auditDispatcher.Start(ctx)

	statsService := service.NewStatsService(redisdb.NewStatsCache(rdb), log)

	clientFactory := func(binding ports.SessionBinding) ports.RegistryClient {
		return registry.NewClient(cfg.Registry.BaseURL, cfg.Registry.Timeout, binding, log)
	}
	sessions := service.NewSessionRegistry(
		cfg.Session.Secret,
		cfg.Session.CookieName,
		cfg.Session.TTL,
		cfg.Production(),
		clientFactory,
		log,
	)
	sessions.StartSweeper(ctx)

	// --- HTTP server ---
	e := api.NewRouter(api.Dependencies{
		Sessions:  sessions,
		Stats:     statsService,
		Audit:     auditService,
		AuditSink: auditDispatcher,
		Mongo:     db,
		Redis:     rdb,
		Log:       log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("registry", cfg.Registry.BaseURL).Msg("admin gateway listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
