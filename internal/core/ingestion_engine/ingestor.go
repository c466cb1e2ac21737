package ingestion_engine

import (
	"context"

	"github.com/markdave123-py/resumeapp/internal/models"
)

type Ingestor interface {
	Ingest(ctx context.Context, bucket, key string) (*models.UserRecord, error)
	HandleNotification(ctx context.Context, body []byte) error
}
