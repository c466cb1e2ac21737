package client

import (
	"bufio"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/markdave123-py/resumeapp/internal/logger"
	"github.com/markdave123-py/resumeapp/internal/models"
)

// Shell runs the client commands and prints their results.
type Shell struct {
	api       *Client
	in        *bufio.Scanner
	out       io.Writer
	outputDir string
}

func NewShell(api *Client, in io.Reader, out io.Writer, outputDir string) *Shell {
	if outputDir == "" {
		outputDir = "."
	}
	return &Shell{api: api, in: bufio.NewScanner(in), out: out, outputDir: outputDir}
}

func (s *Shell) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.out, format, args...)
}

// readLine returns the next trimmed input line and false at end of input.
func (s *Shell) readLine() (string, bool) {
	line, ok := s.rawLine()
	return strings.TrimSpace(line), ok
}

func (s *Shell) rawLine() (string, bool) {
	if !s.in.Scan() {
		return "", false
	}
	return s.in.Text(), true
}

// menuChoice parses a menu entry. Only plain digits count, so signs and
// surrounding spaces give -1.
func menuChoice(line string) int {
	if line == "" {
		return -1
	}
	for _, r := range line {
		if !unicode.IsDigit(r) {
			return -1
		}
	}
	n, err := strconv.Atoi(line)
	if err != nil {
		return -1
	}
	return n
}

// prompt shows the menu and returns the chosen command, -1 for input that is
// blank or not a number, and 0 at end of input.
func (s *Shell) prompt() int {
	s.printf("\n>> Enter a command:\n")
	s.printf("   0 => end\n")
	s.printf("   1 => list all users\n")
	s.printf("   2 => find users by skill\n")
	s.printf("   3 => list skills of a user\n")
	s.printf("   4 => upload resume\n")
	s.printf("   5 => download resume\n")

	line, ok := s.rawLine()
	if !ok {
		return 0
	}
	return menuChoice(line)
}

// Run is the interactive menu loop.
func (s *Shell) Run(ctx context.Context) {
	s.printf("** Welcome to Resume Management Client **\n")
	for cmd := s.prompt(); cmd != 0; cmd = s.prompt() {
		if ctx.Err() != nil {
			break
		}
		switch cmd {
		case 1:
			s.ListUsers(ctx)
		case 2:
			s.printf("Enter the skill>\n")
			skill, _ := s.readLine()
			s.FindBySkill(ctx, skill)
		case 3:
			s.printf("Enter user ID>\n")
			id, _ := s.readLine()
			s.ListSkills(ctx, id)
		case 4:
			s.printf("Enter resume filename>\n")
			name, _ := s.readLine()
			s.Upload(ctx, name)
		case 5:
			s.printf("Enter user ID>\n")
			id, _ := s.readLine()
			s.Download(ctx, id)
		default:
			s.printf("** Unknown command, try again...\n")
		}
	}
	s.printf("\n** done **\n")
}

// report prints a failed call. It returns the HTTP status, or 0 for a
// transport error.
func (s *Shell) report(err error) int {
	var se *StatusError
	if !errors.As(err, &se) {
		logger.Error().Err(err).Msg("request failed")
		s.printf("**ERROR: %v\n", err)
		return 0
	}
	if se.StatusCode != http.StatusNotFound {
		s.printf("Failed with status code: %d\n", se.StatusCode)
		s.printf("url: %s\n", se.URL)
		if se.StatusCode == http.StatusInternalServerError {
			s.printf("Error message: %s\n", se.Message)
		}
	}
	return se.StatusCode
}

func (s *Shell) printUsers(title string, users []models.UserSummary) {
	s.printf("\n--- %s ---\n", title)
	for _, u := range users {
		s.printf("  ID: %s\n", u.UserID)
		s.printf("  Full name: %s\n", strings.TrimSpace(u.FirstName+" "+u.LastName))
		s.printf("  Email: %s\n", u.Email)
		s.printf("  Skills: %s\n", u.Skills)
		s.printf("%s\n", strings.Repeat("-", 20))
	}
}

func (s *Shell) ListUsers(ctx context.Context) {
	users, err := s.api.Users(ctx)
	if err != nil {
		s.report(err)
		return
	}
	s.printUsers("USER LIST", users)
}

func (s *Shell) FindBySkill(ctx context.Context, skill string) {
	if skill == "" {
		s.printf("Skill name cannot be empty\n")
		return
	}
	users, err := s.api.UsersBySkill(ctx, skill)
	if err != nil {
		if s.report(err) == http.StatusNotFound {
			s.printf("No users found with skill '%s'\n", skill)
		}
		return
	}
	s.printUsers("MATCHING USER LIST", users)
}

func (s *Shell) ListSkills(ctx context.Context, userID string) {
	if userID == "" {
		s.printf("User ID cannot be empty\n")
		return
	}
	skills, err := s.api.Skills(ctx, userID)
	if err != nil {
		if s.report(err) == http.StatusNotFound {
			s.printf("User with ID '%s' not found or has no skills\n", userID)
		}
		return
	}
	if len(skills) == 0 {
		s.printf("User with ID '%s' has no skills\n", userID)
		return
	}
	s.printf("\n--- SKILLS FOR USER ID: %s ---\n", userID)
	s.printf("%s\n", strings.Join(skills, ", "))
}

func (s *Shell) Upload(ctx context.Context, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		s.printf("Resume file '%s' does not exist...\n", path)
		return
	}
	resp, err := s.api.Upload(ctx, filepath.Base(path), data)
	if err != nil {
		if s.report(err) == http.StatusNotFound {
			s.printf("Status 404\n")
		}
		return
	}
	s.printf("Resume '%s' successfully uploaded!\n", path)
	s.printf("Response: %s (key %s)\n", resp.Message, resp.Key)
}

// Download saves the resume as downloaded_<filename> in the output directory.
func (s *Shell) Download(ctx context.Context, userID string) {
	if userID == "" {
		s.printf("User ID cannot be empty\n")
		return
	}
	resume, err := s.api.Download(ctx, userID)
	if err != nil {
		if s.report(err) == http.StatusNotFound {
			s.printf("No resume found for user '%s'\n", userID)
		}
		return
	}
	if resume.FileContent == "" {
		s.printf("Error: No resume data in response\n")
		return
	}

	filename := filepath.Base(resume.Filename)
	if resume.Filename == "" {
		filename = fmt.Sprintf("resume_user_%s.pdf", userID)
	}
	data, err := base64.StdEncoding.DecodeString(resume.FileContent)
	if err != nil {
		s.printf("Error decoding or saving resume data: %v\n", err)
		return
	}
	target := filepath.Join(s.outputDir, "downloaded_"+filename)
	if err := os.WriteFile(target, data, 0o644); err != nil {
		s.printf("Error decoding or saving resume data: %v\n", err)
		return
	}
	s.printf("Resume successfully downloaded and saved as '%s'\n", target)
}
