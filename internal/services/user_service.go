package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/markdave123-py/resumeapp/internal/core"
	"github.com/markdave123-py/resumeapp/internal/models"
)

type UserService struct {
	db core.UserStore
}

func NewUserService(db core.UserStore) *UserService {
	return &UserService{db: db}
}

func (s *UserService) List(ctx context.Context) ([]models.UserSummary, error) {
	users, err := s.db.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []models.UserSummary{}
	}
	return users, nil
}

// FindBySkill returns ErrNotFound when no user lists the skill. Only the
// empty string is rejected; whitespace is a valid pattern.
func (s *UserService) FindBySkill(ctx context.Context, skill string) ([]models.UserSummary, error) {
	if skill == "" {
		return nil, core.Validationf("requires skill_name parameter")
	}
	users, err := s.db.FindUsersBySkill(ctx, skill)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("no users with skill %q: %w", skill, core.ErrNotFound)
	}
	return users, nil
}

// Skills returns the user's skills as a list. An unknown user and a user
// without skills are both ErrNotFound.
func (s *UserService) Skills(ctx context.Context, userID string) ([]string, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, core.Validationf("requires userid parameter")
	}
	raw, err := s.db.GetUserSkills(ctx, userID)
	if err != nil {
		return nil, err
	}
	skills := models.SplitSkills(raw)
	if len(skills) == 0 {
		return nil, fmt.Errorf("no skills for user %s: %w", userID, core.ErrNotFound)
	}
	return skills, nil
}
