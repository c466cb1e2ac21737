package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/markdave123-py/resumeapp/internal/app"
	"github.com/markdave123-py/resumeapp/internal/config"
	"github.com/markdave123-py/resumeapp/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("config")
	}
	logger.Init(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	worker, err := app.NewWorker(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("startup failed")
	}
	defer worker.Close()

	logger.Info().Str("env", cfg.AppEnv).Msg("resumeapp ingestion worker is running")
	if err := worker.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("worker stopped with error")
		return
	}
	logger.Info().Msg("worker stopped")
}
