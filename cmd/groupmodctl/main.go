package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/groupmod/backend/internal/cli"
	"github.com/groupmod/backend/internal/config"
	"github.com/groupmod/backend/internal/roblox"
	"go.uber.org/zap"
)

func main() {
	log, _ := zap.NewProduction(zap.IncreaseLevel(zap.WarnLevel))
	defer log.Sync()

	cfg := config.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	transport := roblox.NewHTTPTransport(cfg.HTTPTimeout, log)
	tokens := roblox.NewHTTPTokenProvider(transport, cfg.AuthAPIURL, cfg.WebURL, log)
	client := roblox.NewClient(cfg.GroupsAPIURL, transport, tokens, log)

	if err := cli.NewRootCmd(cfg, client).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		cancel()
		os.Exit(1)
	}
}
