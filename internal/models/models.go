package models

import (
	"strings"
)

// DefaultEmail is stored when the resume yields no email address.
const DefaultEmail = "unknown@example.com"

// UserRecord is one row of the users table, produced by a resume ingestion run.
type UserRecord struct {
	UserID          string `db:"userid" json:"userid"`
	FirstName       string `db:"firstname" json:"firstname"`
	LastName        string `db:"lastname" json:"lastname"`
	Email           string `db:"email" json:"email"`
	Skills          string `db:"skills" json:"skills"`
	ResumeText      string `db:"resume_text" json:"-"`
	ResumeObjectKey string `db:"resume_file" json:"resume_file"`
}

// UserSummary is what the list and search endpoints return.
type UserSummary struct {
	UserID    string `db:"userid" json:"userid"`
	FirstName string `db:"firstname" json:"firstname"`
	LastName  string `db:"lastname" json:"lastname"`
	Email     string `db:"email" json:"email"`
	Skills    string `db:"skills" json:"skills"`
}

// ResumeFields are the structured values the language model extracts from resume text.
type ResumeFields struct {
	FullName string
	Email    string
	Skills   string
}

// UploadRequest is the body of POST /resume/upload.
type UploadRequest struct {
	Filename string `json:"filename" validate:"required"`
	Data     string `json:"data" validate:"required"`
}

type UploadResponse struct {
	Message string `json:"message"`
	Key     string `json:"key"`
}

// ResumeDownload is the body of GET /resume/{userid}.
type ResumeDownload struct {
	Filename    string `json:"filename"`
	FileContent string `json:"file_content"`
}

// SplitName returns the first whitespace token as the first name and the
// last token as the last name when there are at least two tokens.
func SplitName(fullName string) (first, last string) {
	parts := strings.Fields(fullName)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	default:
		return parts[0], parts[len(parts)-1]
	}
}

// JoinSkills renders a skill list the way it is stored in the skills column.
func JoinSkills(skills []string) string {
	return strings.Join(skills, ", ")
}

// SplitSkills breaks a stored skills value back into individual skills.
func SplitSkills(skills string) []string {
	out := []string{}
	for _, s := range strings.Split(skills, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// NewUserRecord assembles a row from extracted fields.
func NewUserRecord(userID string, fields ResumeFields, resumeText, objectKey string) *UserRecord {
	first, last := SplitName(fields.FullName)
	email := fields.Email
	if strings.TrimSpace(email) == "" {
		email = DefaultEmail
	}
	return &UserRecord{
		UserID:          userID,
		FirstName:       first,
		LastName:        last,
		Email:           email,
		Skills:          fields.Skills,
		ResumeText:      resumeText,
		ResumeObjectKey: objectKey,
	}
}
