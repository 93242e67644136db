package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/groupmod/backend/internal/config"
	"github.com/groupmod/backend/internal/db"
	"github.com/groupmod/backend/internal/events"
	apphttp "github.com/groupmod/backend/internal/http"
	"github.com/groupmod/backend/internal/http/handlers"
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool, migrations.FS, log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	// Redis
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	// Groups API client
	transport := roblox.NewHTTPTransport(cfg.HTTPTimeout, log)
	tokens := roblox.NewCachedTokenProvider(
		roblox.NewHTTPTokenProvider(transport, cfg.AuthAPIURL, cfg.WebURL, log),
		rdb, cfg.CSRFTokenTTL, log,
	)
	client := roblox.NewClient(cfg.GroupsAPIURL, transport, tokens, log)
	session := roblox.Session{Cookie: cfg.RobloxCookie}

	// Repositories
	archiveRepo := repositories.NewAuditArchiveRepo(pool)
	moderationRepo := repositories.NewModerationRepo(pool)

	// Events
	publisher := events.NewRedisPublisher(rdb, log)
	subscriber := events.NewRedisSubscriber(rdb, log)

	// Services
	moderationService := services.NewModerationService(client, moderationRepo, archiveRepo, publisher, tokens, log)

	// Handlers
	auditHandler := handlers.NewAuditHandler(moderationService, session, log)
	banHandler := handlers.NewBanHandler(moderationService, session, log)
	wsHub := handlers.NewWSHub(cfg, subscriber, log)

	if err := wsHub.Start(ctx); err != nil {
		log.Fatal("failed to start websocket hub", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	apphttp.SetupRouter(app, cfg, log, rdb, auditHandler, banHandler, wsHub)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")
		cancel()
		_ = app.Shutdown()
	}()

	addr := fmt.Sprintf(":%s", cfg.APIPort)
	log.Info("starting API server", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
