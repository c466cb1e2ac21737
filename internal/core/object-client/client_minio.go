package objectclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	cfg "github.com/markdave123-py/resumeapp/internal/config"
	"github.com/markdave123-py/resumeapp/internal/core"
	"github.com/markdave123-py/resumeapp/internal/logger"
)

// MinioClient serves the same contract as S3Client against a MinIO deployment.
type MinioClient struct {
	client   *minio.Client
	endpoint string
	secure   bool
}

var _ core.ObjectClient = (*MinioClient)(nil)

func NewMinioClient(ctx context.Context, cfg *cfg.Config) (*MinioClient, error) {
	if cfg.MinioEndpoint == "" {
		return nil, fmt.Errorf("MINIO_ENDPOINT not set")
	}

	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AwsAccessKey, cfg.AwsSecretKey, ""),
		Secure: cfg.MinioUseSSL,
		Region: cfg.AwsRegion,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	m := &MinioClient{client: client, endpoint: cfg.MinioEndpoint, secure: cfg.MinioUseSSL}
	if err := m.ensureBucketExists(ctx, cfg.BucketName, cfg.AwsRegion); err != nil {
		return nil, err
	}

	logger.Info().Str("endpoint", cfg.MinioEndpoint).Str("bucket", cfg.BucketName).Msg("MinIO client ready")
	return m, nil
}

func (m *MinioClient) ensureBucketExists(ctx context.Context, bucket, region string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	exists, err := m.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w: %w", bucket, core.ErrStoreUnavailable, err)
	}
	if exists {
		return nil
	}
	if err := m.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region}); err != nil {
		return fmt.Errorf("create bucket %s: %w: %w", bucket, core.ErrStoreUnavailable, err)
	}
	logger.Info().Str("bucket", bucket).Msg("created bucket")
	return nil
}

func (m *MinioClient) UploadFile(ctx context.Context, bucket, key string, data io.Reader, contentType, acl string) (string, error) {
	ctxUpload, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	opts := minio.PutObjectOptions{ContentType: contentType}
	if acl != "" {
		opts.UserMetadata = map[string]string{"x-amz-acl": acl}
	}

	if _, err := m.client.PutObject(ctxUpload, bucket, key, data, objectSize(data), opts); err != nil {
		return "", fmt.Errorf("minio upload %s/%s: %w: %w", bucket, key, core.ErrStoreUnavailable, err)
	}

	scheme := "http"
	if m.secure {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, m.endpoint, bucket, key), nil
}

func (m *MinioClient) GetFile(ctx context.Context, bucket, key string) ([]byte, error) {
	ctxGet, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	obj, err := m.client.GetObject(ctxGet, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, mapMinioError(bucket, key, err)
	}
	defer obj.Close()

	body, err := io.ReadAll(obj)
	if err != nil {
		return nil, mapMinioError(bucket, key, err)
	}
	return body, nil
}

func mapMinioError(bucket, key string, err error) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket":
		return fmt.Errorf("minio get %s/%s: %w", bucket, key, core.ErrObjectNotFound)
	}
	if strings.Contains(err.Error(), "key does not exist") {
		return fmt.Errorf("minio get %s/%s: %w", bucket, key, core.ErrObjectNotFound)
	}
	return fmt.Errorf("minio get %s/%s: %w: %w", bucket, key, core.ErrStoreUnavailable, err)
}

// objectSize reports the length of readers that know it, or -1.
func objectSize(r io.Reader) int64 {
	switch v := r.(type) {
	case *bytes.Reader:
		return int64(v.Len())
	case *bytes.Buffer:
		return int64(v.Len())
	case *strings.Reader:
		return int64(v.Len())
	case *os.File:
		if fi, err := v.Stat(); err == nil {
			return fi.Size()
		}
	}
	return -1
}
