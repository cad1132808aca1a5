package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/virtops/proxmox-client/internal/cli"
	"github.com/virtops/proxmox-client/internal/metrics"
	"github.com/virtops/proxmox-client/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := cli.Load()

	logger.Init("pvectl", cfg.Env, cfg.LogLevel)
	defer logger.Sync()

	if cfg.MetricsAddr != "" {
		metrics.StartServer(cfg.MetricsAddr)
	}

	if err := cli.Run(ctx, logger.L(), cfg, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "pvectl:", err)
		logger.Sync()
		os.Exit(1)
	}
}
