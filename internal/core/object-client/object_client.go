package objectclient

import (
	"context"
	"fmt"

	cfg "github.com/markdave123-py/resumeapp/internal/config"
	"github.com/markdave123-py/resumeapp/internal/core"
)

// New returns the object store selected by STORAGE_BACKEND.
func New(ctx context.Context, cfg *cfg.Config) (core.ObjectClient, error) {
	switch cfg.StorageBackend {
	case "", "s3":
		c, err := NewS3Client(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return c, nil
	case "minio":
		c, err := NewMinioClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.StorageBackend)
	}
}
