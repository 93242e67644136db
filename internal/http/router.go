package http

import (
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/groupmod/backend/internal/config"
	"github.com/groupmod/backend/internal/http/handlers"
	"github.com/groupmod/backend/internal/middleware"
	"github.com/groupmod/backend/internal/rbac"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func SetupRouter(
	app *fiber.App,
	cfg *config.Config,
	log *zap.Logger,
	rdb *redis.Client,
	auditHandler *handlers.AuditHandler,
	banHandler *handlers.BanHandler,
	wsHub *handlers.WSHub,
) {
	// Global middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.LoggerMiddleware(log))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api/v1")

	// Meta (public, no auth required)
	metaHandler := handlers.NewMetaHandler()
	api.Get("/meta/action-types", metaHandler.GetActionTypes)
	api.Get("/meta/sort-orders", metaHandler.GetSortOrders)

	// Protected endpoints
	protected := api.Group("", middleware.AuthMiddleware(cfg, log))
	protected.Use(middleware.RateLimitMiddleware(rdb, cfg.RateLimitPerMin, time.Minute))

	// Audit log
	protected.Get("/groups/:groupId/audit-log",
		middleware.RequirePermission(cfg, rbac.PermViewAuditLog), auditHandler.GetAuditLog)
	protected.Get("/groups/:groupId/audit-log/archive",
		middleware.RequirePermission(cfg, rbac.PermViewArchive), auditHandler.ListArchive)
	protected.Get("/groups/:groupId/moderation-actions",
		middleware.RequirePermission(cfg, rbac.PermViewActions), banHandler.ListActions)

	// Bans (admin only)
	bans := protected.Group("/groups/:groupId/bans", middleware.RequirePermission(cfg, rbac.PermManageBans))
	bans.Post("/:userId", banHandler.Ban)
	bans.Delete("/:userId", banHandler.Unban)

	// WebSocket
	app.Use("/ws", handlers.WSUpgradeMiddleware())
	app.Get("/ws", websocket.New(wsHub.HandleWS))
}
