package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/markdave123-py/resumeapp/internal/models"
)

// UserQueries is the read side used by UserHandler.
type UserQueries interface {
	List(ctx context.Context) ([]models.UserSummary, error)
	FindBySkill(ctx context.Context, skill string) ([]models.UserSummary, error)
	Skills(ctx context.Context, userID string) ([]string, error)
}

type UserHandler struct {
	users UserQueries
}

func NewUserHandler(users UserQueries) *UserHandler {
	return &UserHandler{users: users}
}

// ListUsers handles GET /users.
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// UsersBySkill handles GET /skill/{name}/users.
func (h *UserHandler) UsersBySkill(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.FindBySkill(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// UserSkills handles GET /skills/{userid}.
func (h *UserHandler) UserSkills(w http.ResponseWriter, r *http.Request) {
	skills, err := h.users.Skills(r.Context(), chi.URLParam(r, "userid"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, skills)
}
