package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"

	"coin_auction/internal/application"
	"coin_auction/internal/config"
	"coin_auction/pkg/logx"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log := slog.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level:      slog.LevelDebug,
		TimeFormat: time.RFC3339,
	}))
	slog.SetDefault(log)

	cfg, err := config.Load()
	if err != nil {
		log.Error("config.Load", logx.Error(err))
		os.Exit(1)
	}

	if err := application.Run(ctx, cfg); err != nil {
		log.Error("application.Run", logx.Error(err))
		os.Exit(1)
	}

	log.Info("application finished")
}
