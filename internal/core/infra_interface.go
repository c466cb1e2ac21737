package core

import (
	"context"
	"io"

	"github.com/markdave123-py/resumeapp/internal/models"
)

// UserStore defines all persistence operations the services and the ingestor need.
// It abstracts Postgres/MySQL so higher layers never depend on a specific DB.
type UserStore interface {
	UpsertUser(ctx context.Context, user *models.UserRecord) error
	ListUsers(ctx context.Context) ([]models.UserSummary, error)
	FindUsersBySkill(ctx context.Context, skill string) ([]models.UserSummary, error)

	// GetUserSkills returns ErrNotFound when no row has userID.
	GetUserSkills(ctx context.Context, userID string) (string, error)
	// GetResumeObjectKey returns ErrNotFound when no row has userID.
	GetResumeObjectKey(ctx context.Context, userID string) (string, error)

	Ping(ctx context.Context) error
	Close() error
}

// ObjectClient defines interactions with S3 or any object storage.
// Failures are reported as ErrObjectNotFound or ErrStoreUnavailable.
type ObjectClient interface {
	UploadFile(ctx context.Context, bucket, key string, data io.Reader, contentType, acl string) (url string, err error)
	GetFile(ctx context.Context, bucket, key string) ([]byte, error)
}
