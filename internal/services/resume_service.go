package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/markdave123-py/resumeapp/internal/core"
	"github.com/markdave123-py/resumeapp/internal/logger"
	"github.com/markdave123-py/resumeapp/internal/models"
)

const (
	resumeContentType = "application/pdf"
	resumeACL         = "public-read"
)

type ResumeService struct {
	db      core.UserStore
	storage core.ObjectClient
	bucket  string
	tempDir string
	newKey  func() string
}

func NewResumeService(db core.UserStore, storage core.ObjectClient, bucket string) *ResumeService {
	return &ResumeService{db: db, storage: storage, bucket: bucket, newKey: objectKey}
}

// objectKey names a new upload; the key carries no user information.
func objectKey() string {
	return uuid.NewString() + ".pdf"
}

// Upload decodes the base64 payload, stages it in a temp file and stores it
// under a fresh key. Ingestion is triggered by the store's notification.
func (s *ResumeService) Upload(ctx context.Context, req models.UploadRequest) (*models.UploadResponse, error) {
	if req.Filename == "" {
		return nil, core.Validationf("event has a body but no filename")
	}
	if req.Data == "" {
		return nil, core.Validationf("event has a body but no data")
	}

	data, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		return nil, core.Validationf("data is not valid base64: %v", err)
	}

	tmp, err := os.CreateTemp(s.tempDir, "resume-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("stage upload: %w", err)
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()

	if _, err := tmp.Write(data); err != nil {
		return nil, fmt.Errorf("stage upload: %w", err)
	}
	if _, err := tmp.Seek(0, 0); err != nil {
		return nil, fmt.Errorf("stage upload: %w", err)
	}

	key := s.newKey()
	if _, err := s.storage.UploadFile(ctx, s.bucket, key, tmp, resumeContentType, resumeACL); err != nil {
		return nil, err
	}

	logger.Ctx(ctx).Info().
		Str("filename", req.Filename).
		Str("key", key).
		Int("bytes", len(data)).
		Msg("resume uploaded")
	return &models.UploadResponse{Message: "Resume uploaded successfully", Key: key}, nil
}

// Download looks up the user's resume object and returns it base64-encoded.
func (s *ResumeService) Download(ctx context.Context, userID string) (*models.ResumeDownload, error) {
	if userID == "" {
		return nil, core.Validationf("requires userid parameter")
	}
	key, err := s.db.GetResumeObjectKey(ctx, userID)
	if err != nil {
		return nil, err
	}
	data, err := s.storage.GetFile(ctx, s.bucket, key)
	if err != nil {
		return nil, err
	}
	return &models.ResumeDownload{
		Filename:    key,
		FileContent: base64.StdEncoding.EncodeToString(data),
	}, nil
}
