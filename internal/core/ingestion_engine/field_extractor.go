package ingestion_engine

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/markdave123-py/resumeapp/internal/core"
	"github.com/markdave123-py/resumeapp/internal/models"
)

const fieldPromptTemplate = `You are an expert recruiter. Extract the following details from this resume text:
- Full Name
- Email (if available)
- List of skills (comma-separated)
Resume Text:
%s

Provide the output in JSON format with keys: 'fullname', 'email', 'skills'.`

// FieldExtractor asks a language model for fullname, email and skills.
type FieldExtractor struct {
	llm  core.LLMProvider
	opts core.GenerateOptions
}

func NewFieldExtractor(llm core.LLMProvider, opts core.GenerateOptions) *FieldExtractor {
	return &FieldExtractor{llm: llm, opts: opts}
}

func BuildPrompt(resumeText string) string {
	return fmt.Sprintf(fieldPromptTemplate, resumeText)
}

// Extract invokes the model once. Model failures wrap core.ErrModelUnavailable;
// unusable completions wrap ErrModelResponseInvalid or ErrModelSchemaViolation.
func (f *FieldExtractor) Extract(ctx context.Context, resumeText string) (models.ResumeFields, error) {
	completion, err := f.llm.Generate(ctx, "", BuildPrompt(resumeText), f.opts)
	if err != nil {
		return models.ResumeFields{}, fmt.Errorf("field extraction: %w: %w", core.ErrModelUnavailable, err)
	}
	return ParseFields(completion)
}

// StripFences returns the body of the first markdown code fence in s, without
// the fence markers or language tag. Text without a fence is returned trimmed.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	start := strings.Index(s, "```")
	if start < 0 {
		return s
	}

	rest := s[start+3:]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 && isFenceTag(strings.TrimSpace(rest[:nl])) {
		rest = rest[nl+1:]
	} else if nl < 0 {
		rest = strings.TrimLeftFunc(rest, isTagRune)
	}

	if end := strings.Index(rest, "```"); end >= 0 {
		rest = rest[:end]
	}
	return strings.TrimSpace(rest)
}

func isFenceTag(s string) bool {
	for _, r := range s {
		if !isTagRune(r) {
			return false
		}
	}
	return true
}

func isTagRune(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_' || r == '+'
}

// ParseFields strips fences and applies the field schema:
// fullname and email are strings, skills is a string or a list of strings.
// Missing or null values take their defaults.
func ParseFields(completion string) (models.ResumeFields, error) {
	body := StripFences(completion)

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return models.ResumeFields{}, fmt.Errorf("%w: %v", ErrModelResponseInvalid, err)
	}
	if raw == nil {
		return models.ResumeFields{}, fmt.Errorf("%w: got null", ErrModelResponseInvalid)
	}

	var out models.ResumeFields
	var err error

	if out.FullName, err = optionalString(raw, "fullname"); err != nil {
		return models.ResumeFields{}, err
	}
	if out.Email, err = optionalString(raw, "email"); err != nil {
		return models.ResumeFields{}, err
	}
	if strings.TrimSpace(out.Email) == "" {
		out.Email = models.DefaultEmail
	}
	if out.Skills, err = skillsValue(raw); err != nil {
		return models.ResumeFields{}, err
	}
	return out, nil
}

func optionalString(raw map[string]json.RawMessage, key string) (string, error) {
	v, ok := raw[key]
	if !ok || isNull(v) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return "", fmt.Errorf("%w: %s must be a string, got %s", ErrModelSchemaViolation, key, string(v))
	}
	return s, nil
}

func skillsValue(raw map[string]json.RawMessage) (string, error) {
	v, ok := raw["skills"]
	if !ok || isNull(v) {
		return "", nil
	}

	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s, nil
	}

	var list []json.RawMessage
	if err := json.Unmarshal(v, &list); err != nil {
		return "", fmt.Errorf("%w: skills must be a string or a list, got %s", ErrModelSchemaViolation, string(v))
	}
	skills := make([]string, 0, len(list))
	for _, item := range list {
		var s string
		if err := json.Unmarshal(item, &s); err != nil {
			return "", fmt.Errorf("%w: skills entries must be strings, got %s", ErrModelSchemaViolation, string(item))
		}
		skills = append(skills, s)
	}
	return models.JoinSkills(skills), nil
}

func isNull(v json.RawMessage) bool {
	return strings.TrimSpace(string(v)) == "null"
}
