package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/markdave123-py/resumeapp/internal/core"
	"github.com/markdave123-py/resumeapp/internal/models"
)

// maxUploadBody bounds the JSON body; base64 inflates the PDF by a third.
const maxUploadBody = 16 << 20

type ResumeFiles interface {
	Upload(ctx context.Context, req models.UploadRequest) (*models.UploadResponse, error)
	Download(ctx context.Context, userID string) (*models.ResumeDownload, error)
}

type ResumeHandler struct {
	resumes  ResumeFiles
	validate *validator.Validate
}

func NewResumeHandler(resumes ResumeFiles) *ResumeHandler {
	return &ResumeHandler{resumes: resumes, validate: validator.New(validator.WithRequiredStructEnabled())}
}

// UploadResume handles POST /resume/upload with body {"filename", "data"}.
func (h *ResumeHandler) UploadResume(w http.ResponseWriter, r *http.Request) {
	var req models.UploadRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxUploadBody)).Decode(&req); err != nil {
		writeError(w, r, core.Validationf("invalid body: %v", err))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, r, core.Validationf("%s", describeValidation(err)))
		return
	}

	resp, err := h.resumes.Upload(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// DownloadResume handles GET /resume/{userid}.
func (h *ResumeHandler) DownloadResume(w http.ResponseWriter, r *http.Request) {
	resume, err := h.resumes.Download(r.Context(), chi.URLParam(r, "userid"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resume)
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, "body has no "+strings.ToLower(fe.Field()))
	}
	return strings.Join(msgs, "; ")
}
