package app

import (
	"context"
	"time"

	"github.com/markdave123-py/resumeapp/internal/config"
	"github.com/markdave123-py/resumeapp/internal/core"
	db "github.com/markdave123-py/resumeapp/internal/core/database"
	objectclient "github.com/markdave123-py/resumeapp/internal/core/object-client"
	"github.com/markdave123-py/resumeapp/internal/logger"
	"github.com/markdave123-py/resumeapp/internal/services"
)

// App holds the dependencies of the HTTP API process.
type App struct {
	DBClient     core.UserStore
	ObjectClient core.ObjectClient
	Server       *Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	appCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	dbClient, objClient, err := openBackends(appCtx, cfg)
	if err != nil {
		return nil, err
	}

	users := services.NewUserService(dbClient)
	resumes := services.NewResumeService(dbClient, objClient, cfg.BucketName)
	server := NewServer(cfg, users, resumes)

	return &App{DBClient: dbClient, ObjectClient: objClient, Server: server}, nil
}

// openBackends connects the database and the object store shared by the
// API and the worker.
func openBackends(ctx context.Context, cfg *config.Config) (*db.DatabaseClient, core.ObjectClient, error) {
	dbClient, err := db.NewDatabaseClient(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	logger.Info().Str("driver", cfg.DBDriver).Msg("database initialized and ready")

	objClient, err := objectclient.New(ctx, cfg)
	if err != nil {
		_ = dbClient.Close()
		return nil, nil, err
	}
	logger.Info().Str("backend", cfg.StorageBackend).Str("bucket", cfg.BucketName).Msg("object client initialized and ready")

	return dbClient, objClient, nil
}

func (a *App) Close() {
	if a.DBClient != nil {
		_ = a.DBClient.Close()
	}
}
