package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/fra-atlas/atlas/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config load failed: ", err)
	}

	logger := cfg.Log.Logger()
	logger.Info(
		"atlas starting",
		"version", cfg.Version,
		"env", cfg.Env(),
		"persistence", cfg.Persistence,
	)

	srv, err := NewServer(cfg)
	if err != nil {
		logger.Error("server init failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		logger.Error("server stopped with error", "error", err)
		os.Exit(1)
	}

	logger.Info("atlas stopped")
}
