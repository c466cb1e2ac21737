package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/markdave123-py/resumeapp/internal/api/handlers"
	"github.com/markdave123-py/resumeapp/internal/config"
	"github.com/markdave123-py/resumeapp/internal/core"
	"github.com/markdave123-py/resumeapp/internal/core/events"
	ingestor "github.com/markdave123-py/resumeapp/internal/core/ingestion_engine"
	"github.com/markdave123-py/resumeapp/internal/core/llm"
	"github.com/markdave123-py/resumeapp/internal/logger"
)

// Worker consumes storage notifications and runs resume ingestion.
type Worker struct {
	DBClient    core.UserStore
	Ingestor    ingestor.Ingestor
	Source      events.Source
	concurrency int
	metricsSrv  *http.Server
}

func NewWorker(ctx context.Context, cfg *config.Config) (*Worker, error) {
	appCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	dbClient, objClient, err := openBackends(appCtx, cfg)
	if err != nil {
		return nil, err
	}

	model, err := llm.New(appCtx, cfg)
	if err != nil {
		_ = dbClient.Close()
		return nil, fmt.Errorf("couldn't initialize the language model: %w", err)
	}
	logger.Info().Str("provider", model.Name()).Msg("language model ready")

	ingCfg := ingestor.DefaultIngestConfig()
	ingCfg.Generate.MaxTokens = int32(cfg.LLMMaxTokens)
	ing := ingestor.NewResumeIngestor(
		dbClient,
		objClient,
		ingestor.NewPDFExtractor(),
		ingestor.NewFieldExtractor(model, ingCfg.Generate),
		ingCfg,
	)

	src, err := events.New(appCtx, cfg)
	if err != nil {
		_ = dbClient.Close()
		return nil, err
	}
	logger.Info().Str("source", src.Name()).Int("concurrency", cfg.WorkerConcurrency).Msg("event source ready")

	return &Worker{
		DBClient:    dbClient,
		Ingestor:    ing,
		Source:      src,
		concurrency: cfg.WorkerConcurrency,
		metricsSrv:  newMetricsServer(cfg.MetricsPort),
	}, nil
}

func newMetricsServer(port string) *http.Server {
	if port == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", handlers.Health)
	return &http.Server{Addr: ":" + port, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
}

// Run consumes until ctx is cancelled or a consumer loop fails.
func (w *Worker) Run(ctx context.Context) error {
	if w.metricsSrv != nil {
		go func() {
			logger.Info().Str("addr", w.metricsSrv.Addr).Msg("metrics server listening")
			if err := w.metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error().Err(err).Msg("metrics server stopped")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = w.metricsSrv.Shutdown(shutdownCtx)
		}()
	}

	return events.RunWorkers(ctx, w.Source, w.Ingestor.HandleNotification, w.concurrency)
}

func (w *Worker) Close() {
	if w.Source != nil {
		_ = w.Source.Close()
	}
	if w.DBClient != nil {
		_ = w.DBClient.Close()
	}
}
