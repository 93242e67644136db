package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/groupmod/backend/internal/config"
	"github.com/groupmod/backend/internal/db"
	"github.com/groupmod/backend/internal/events"
	"github.com/groupmod/backend/internal/repositories"
	"github.com/groupmod/backend/internal/roblox"
	"github.com/groupmod/backend/internal/services"
	"github.com/groupmod/backend/migrations"
	"go.uber.org/zap"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	cfg.Validate(log)

	if len(cfg.SyncGroupIDs) == 0 {
		log.Fatal("SYNC_GROUP_IDS is empty, nothing to sync")
	}
	if cfg.SyncInterval <= 0 {
		log.Fatal("SYNC_INTERVAL_SECONDS must be positive")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool, migrations.FS, log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	transport := roblox.NewHTTPTransport(cfg.HTTPTimeout, log)
	tokens := roblox.NewCachedTokenProvider(
		roblox.NewHTTPTokenProvider(transport, cfg.AuthAPIURL, cfg.WebURL, log),
		rdb, cfg.CSRFTokenTTL, log,
	)
	client := roblox.NewClient(cfg.GroupsAPIURL, transport, tokens, log)
	session := roblox.Session{Cookie: cfg.RobloxCookie}

	publisher := events.NewRedisPublisher(rdb, log)
	syncService := services.NewAuditSyncService(client, repositories.NewAuditArchiveRepo(pool), publisher, log)

	log.Info("worker started",
		zap.Int64s("group_ids", cfg.SyncGroupIDs),
		zap.Duration("interval", cfg.SyncInterval),
	)

	ticker := time.NewTicker(cfg.SyncInterval)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	syncService.SyncAll(ctx, session, cfg.SyncGroupIDs)

	for {
		select {
		case <-ticker.C:
			syncService.SyncAll(ctx, session, cfg.SyncGroupIDs)
		case <-sigCh:
			log.Info("shutting down worker")
			cancel()
			return
		case <-ctx.Done():
			return
		}
	}
}
