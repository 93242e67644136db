package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/groupmod/backend/internal/config"
	"github.com/groupmod/backend/internal/db"
	"github.com/groupmod/backend/internal/events"
	"github.com/groupmod/backend/internal/notify"
	"go.uber.org/zap"
)

// Notify bridge: forwards moderation and audit events from Redis to a chat
// webhook.

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	if cfg.NotifyWebhookURL == "" {
		log.Fatal("NOTIFY_WEBHOOK_URL is not set")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	subscriber := events.NewRedisSubscriber(rdb, log)
	forwarder := notify.NewWebhookForwarder(cfg.NotifyWebhookURL, log)

	if err := subscriber.Subscribe(ctx, forwarder.Handle(ctx), events.StreamModeration, events.StreamAudit); err != nil {
		log.Fatal("failed to subscribe", zap.Error(err))
	}

	log.Info("notify-bridge started")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutting down notify-bridge")
	cancel()
}
