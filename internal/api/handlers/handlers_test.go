package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markdave123-py/resumeapp/internal/core"
	"github.com/markdave123-py/resumeapp/internal/models"
)

type fakeUsers struct {
	users   []models.UserSummary
	bySkill map[string][]models.UserSummary
	skills  map[string][]string
	err     error
}

func (f *fakeUsers) List(context.Context) ([]models.UserSummary, error) {
	return f.users, f.err
}

func (f *fakeUsers) FindBySkill(_ context.Context, skill string) ([]models.UserSummary, error) {
	if f.err != nil {
		return nil, f.err
	}
	users, ok := f.bySkill[skill]
	if !ok {
		return nil, fmt.Errorf("no users with skill %q: %w", skill, core.ErrNotFound)
	}
	return users, nil
}

func (f *fakeUsers) Skills(_ context.Context, userID string) ([]string, error) {
	skills, ok := f.skills[userID]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", userID, core.ErrNotFound)
	}
	return skills, nil
}

type fakeResumes struct {
	got      models.UploadRequest
	uploads  int
	download *models.ResumeDownload
	err      error
}

func (f *fakeResumes) Upload(_ context.Context, req models.UploadRequest) (*models.UploadResponse, error) {
	f.uploads++
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.UploadResponse{Message: "Resume uploaded successfully", Key: "k.pdf"}, nil
}

func (f *fakeResumes) Download(_ context.Context, userID string) (*models.ResumeDownload, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.download == nil {
		return nil, fmt.Errorf("resume for user %s: %w", userID, core.ErrNotFound)
	}
	return f.download, nil
}

func newRouter(users UserQueries, resumes ResumeFiles) http.Handler {
	uh := NewUserHandler(users)
	rh := NewResumeHandler(resumes)
	r := chi.NewRouter()
	r.Get("/healthz", Health)
	r.Get("/users", uh.ListUsers)
	r.Get("/skill/{name}/users", uh.UsersBySkill)
	r.Get("/skills/{userid}", uh.UserSkills)
	r.Post("/resume/upload", rh.UploadResume)
	r.Get("/resume/{userid}", rh.DownloadResume)
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestUsersBySkill_NoMatchIs404(t *testing.T) {
	h := newRouter(&fakeUsers{bySkill: map[string][]models.UserSummary{}}, &fakeResumes{})

	rec := do(t, h, http.MethodGet, "/skill/python/users", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var msg string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msg))
	assert.Contains(t, msg, "python")
}

func TestUserRoutes(t *testing.T) {
	ada := models.UserSummary{UserID: "u1", FirstName: "Ada", LastName: "Lovelace", Email: "ada@x.com", Skills: "Math, Python"}
	users := &fakeUsers{
		users:   []models.UserSummary{ada},
		bySkill: map[string][]models.UserSummary{"python": {ada}},
		skills:  map[string][]string{"u1": {"Math", "Python"}},
	}
	h := newRouter(users, &fakeResumes{})

	rec := do(t, h, http.MethodGet, "/users", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `[{"userid":"u1","firstname":"Ada","lastname":"Lovelace","email":"ada@x.com","skills":"Math, Python"}]`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/skill/python/users", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/skills/u1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `["Math","Python"]`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/skills/nobody", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBackendFailureIs500(t *testing.T) {
	users := &fakeUsers{err: fmt.Errorf("list users: %w: %w", core.ErrPersistence, fmt.Errorf("connection refused"))}
	h := newRouter(users, &fakeResumes{})

	rec := do(t, h, http.MethodGet, "/users", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var msg string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msg))
	assert.Contains(t, msg, "connection refused")
}

func TestUploadResume(t *testing.T) {
	resumes := &fakeResumes{}
	h := newRouter(&fakeUsers{}, resumes)

	rec := do(t, h, http.MethodPost, "/resume/upload", `{"filename":"jane.pdf","data":"JVBERi0xLjQ="}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Resume uploaded successfully","key":"k.pdf"}`, rec.Body.String())
	assert.Equal(t, models.UploadRequest{Filename: "jane.pdf", Data: "JVBERi0xLjQ="}, resumes.got)
}

func TestUploadResume_ValidationIs500(t *testing.T) {
	resumes := &fakeResumes{}
	h := newRouter(&fakeUsers{}, resumes)

	tests := map[string]string{
		"no filename": `{"data":"JVBERi0xLjQ="}`,
		"no data":     `{"filename":"jane.pdf"}`,
		"not json":    `filename=jane.pdf`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/resume/upload", body)
			assert.Equal(t, http.StatusInternalServerError, rec.Code)

			var msg string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msg))
			assert.Contains(t, msg, core.ErrValidation.Error())
		})
	}
	assert.Zero(t, resumes.uploads)
}

func TestDownloadResume(t *testing.T) {
	resumes := &fakeResumes{download: &models.ResumeDownload{Filename: "k.pdf", FileContent: "JVBERi0xLjQ="}}
	h := newRouter(&fakeUsers{}, resumes)

	rec := do(t, h, http.MethodGet, "/resume/u1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"filename":"k.pdf","file_content":"JVBERi0xLjQ="}`, rec.Body.String())

	resumes.download = nil
	rec = do(t, h, http.MethodGet, "/resume/u1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealth(t *testing.T) {
	rec := do(t, newRouter(&fakeUsers{}, &fakeResumes{}), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
