package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/markdave123-py/resumeapp/internal/core"
	"github.com/markdave123-py/resumeapp/internal/models"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) UpsertUser(ctx context.Context, u *models.UserRecord) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockStore) ListUsers(ctx context.Context) ([]models.UserSummary, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]models.UserSummary)
	return users, args.Error(1)
}

func (m *mockStore) FindUsersBySkill(ctx context.Context, skill string) ([]models.UserSummary, error) {
	args := m.Called(ctx, skill)
	users, _ := args.Get(0).([]models.UserSummary)
	return users, args.Error(1)
}

func (m *mockStore) GetUserSkills(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *mockStore) GetResumeObjectKey(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *mockStore) Ping(context.Context) error { return nil }
func (m *mockStore) Close() error               { return nil }

type upload struct {
	bucket, key, contentType, acl string
	body                          []byte
	stagedPath                    string
}

type memStorage struct {
	objects map[string][]byte
	uploads []upload
	err     error
}

func (s *memStorage) UploadFile(_ context.Context, bucket, key string, data io.Reader, contentType, acl string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	body, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}
	u := upload{bucket: bucket, key: key, contentType: contentType, acl: acl, body: body}
	if f, ok := data.(*os.File); ok {
		u.stagedPath = f.Name()
	}
	s.uploads = append(s.uploads, u)
	return "https://" + bucket + "/" + key, nil
}

func (s *memStorage) GetFile(_ context.Context, bucket, key string) ([]byte, error) {
	b, ok := s.objects[key]
	if !ok {
		return nil, fmt.Errorf("get %s/%s: %w", bucket, key, core.ErrObjectNotFound)
	}
	return b, nil
}

func TestUserService_List(t *testing.T) {
	store := &mockStore{}
	store.On("ListUsers", mock.Anything).Return(nil, nil).Once()

	users, err := NewUserService(store).List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
}

func TestUserService_FindBySkill(t *testing.T) {
	ada := models.UserSummary{UserID: "u1", FirstName: "Ada", Skills: "Python, SQL"}
	store := &mockStore{}
	store.On("FindUsersBySkill", mock.Anything, "python").Return([]models.UserSummary{}, nil)
	store.On("FindUsersBySkill", mock.Anything, "sql").Return([]models.UserSummary{ada}, nil)
	store.On("FindUsersBySkill", mock.Anything, "go").Return(nil, core.ErrPersistence)
	store.On("FindUsersBySkill", mock.Anything, " ").Return([]models.UserSummary{ada}, nil)
	svc := NewUserService(store)

	_, err := svc.FindBySkill(context.Background(), "python")
	assert.ErrorIs(t, err, core.ErrNotFound)

	users, err := svc.FindBySkill(context.Background(), "sql")
	require.NoError(t, err)
	assert.Equal(t, []models.UserSummary{ada}, users)

	_, err = svc.FindBySkill(context.Background(), "go")
	assert.ErrorIs(t, err, core.ErrBackendUnavailable)
	assert.NotErrorIs(t, err, core.ErrNotFound)

	// A blank skill is matched like any other pattern.
	users, err = svc.FindBySkill(context.Background(), " ")
	require.NoError(t, err)
	assert.Equal(t, []models.UserSummary{ada}, users)

	_, err = svc.FindBySkill(context.Background(), "")
	assert.ErrorIs(t, err, core.ErrValidation)
}

func TestUserService_Skills(t *testing.T) {
	store := &mockStore{}
	store.On("GetUserSkills", mock.Anything, "u1").Return("Go, SQL,  ,Docker", nil)
	store.On("GetUserSkills", mock.Anything, "u2").Return("", nil)
	store.On("GetUserSkills", mock.Anything, "u3").Return("", fmt.Errorf("user u3: %w", core.ErrNotFound))
	svc := NewUserService(store)

	skills, err := svc.Skills(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "SQL", "Docker"}, skills)

	_, err = svc.Skills(context.Background(), "u2")
	assert.ErrorIs(t, err, core.ErrNotFound)

	_, err = svc.Skills(context.Background(), "u3")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestResumeService_Upload(t *testing.T) {
	storage := &memStorage{}
	svc := NewResumeService(&mockStore{}, storage, "resumes")
	svc.tempDir = t.TempDir()
	svc.newKey = func() string { return "fixed.pdf" }

	pdf := []byte("%PDF-1.4 fake")
	resp, err := svc.Upload(context.Background(), models.UploadRequest{
		Filename: "jane.pdf",
		Data:     base64.StdEncoding.EncodeToString(pdf),
	})
	require.NoError(t, err)
	assert.Equal(t, &models.UploadResponse{Message: "Resume uploaded successfully", Key: "fixed.pdf"}, resp)

	require.Len(t, storage.uploads, 1)
	got := storage.uploads[0]
	assert.Equal(t, "resumes", got.bucket)
	assert.Equal(t, "fixed.pdf", got.key)
	assert.Equal(t, "application/pdf", got.contentType)
	assert.Equal(t, "public-read", got.acl)
	assert.Equal(t, pdf, got.body)

	assert.Equal(t, svc.tempDir, filepath.Dir(got.stagedPath))
	assert.NoFileExists(t, got.stagedPath)
}

func TestResumeService_UploadKeys(t *testing.T) {
	assert.Regexp(t, `^[0-9a-f-]{36}\.pdf$`, objectKey())
	assert.NotEqual(t, objectKey(), objectKey())
}

func TestResumeService_UploadErrors(t *testing.T) {
	storage := &memStorage{}
	svc := NewResumeService(&mockStore{}, storage, "resumes")
	svc.tempDir = t.TempDir()

	bad := []models.UploadRequest{
		{Data: "AAAA"},
		{Filename: "x.pdf"},
		{Filename: "x.pdf", Data: "not base64!"},
	}
	for _, req := range bad {
		_, err := svc.Upload(context.Background(), req)
		assert.ErrorIs(t, err, core.ErrValidation)
	}
	assert.Empty(t, storage.uploads)

	storage.err = fmt.Errorf("put: %w", core.ErrStoreUnavailable)
	_, err := svc.Upload(context.Background(), models.UploadRequest{Filename: "x.pdf", Data: "AAAA"})
	assert.ErrorIs(t, err, core.ErrStoreUnavailable)

	entries, err := os.ReadDir(svc.tempDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestResumeService_Download(t *testing.T) {
	store := &mockStore{}
	store.On("GetResumeObjectKey", mock.Anything, "u1").Return("k1.pdf", nil)
	store.On("GetResumeObjectKey", mock.Anything, "u2").Return("gone.pdf", nil)
	store.On("GetResumeObjectKey", mock.Anything, "u3").Return("", fmt.Errorf("resume for user u3: %w", core.ErrNotFound))
	storage := &memStorage{objects: map[string][]byte{"k1.pdf": []byte("pdf bytes")}}
	svc := NewResumeService(store, storage, "resumes")

	got, err := svc.Download(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "k1.pdf", got.Filename)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("pdf bytes")), got.FileContent)

	_, err = svc.Download(context.Background(), "u2")
	assert.True(t, errors.Is(err, core.ErrObjectNotFound))

	_, err = svc.Download(context.Background(), "u3")
	assert.ErrorIs(t, err, core.ErrNotFound)
}
