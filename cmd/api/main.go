package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

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

	application, err := app.NewApp(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("startup failed")
	}
	defer application.Close()

	errCh := make(chan error, 1)
	go func() { errCh <- application.Server.Start() }()
	logger.Info().Str("env", cfg.AppEnv).Msg("resumeapp API is running")

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error().Err(err).Msg("server error")
			application.Close()
			os.Exit(1)
		}
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := application.Server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
