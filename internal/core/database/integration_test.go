//go:build integration

package db

import (
	"context"
	"fmt"
	"os/exec"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/markdave123-py/resumeapp/internal/config"
	"github.com/markdave123-py/resumeapp/internal/models"
)

func skipIfNoDocker(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if exec.CommandContext(ctx, "docker", "info").Run() != nil {
		t.Skip("Skipping test: Docker not available")
	}
}

func startPostgres(t *testing.T) string {
	t.Helper()
	skipIfNoDocker(t)
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "resume",
			"POSTGRES_PASSWORD": "resume",
			"POSTGRES_DB":       "resumeapp",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(90 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	return fmt.Sprintf("postgres://resume:resume@%s:%s/resumeapp?sslmode=disable", host, port.Port())
}

func TestPostgresRoundTrip(t *testing.T) {
	dsn := startPostgres(t)
	ctx := context.Background()

	cfg := &config.Config{DBDriver: "pgx", DatabaseURL: dsn, DBMaxOpenConns: 4}
	client, err := NewDatabaseClient(ctx, cfg)
	require.NoError(t, err)
	defer client.Close()

	// A second client must find the schema already in place.
	again, err := NewDatabaseClient(ctx, cfg)
	require.NoError(t, err)
	require.NoError(t, again.Close())

	fields := models.ResumeFields{FullName: "Jane Q. Public", Skills: "SQL, Go"}
	first := models.NewUserRecord(uuid.NewString(), fields, "Jane Q. Public\n", "same.pdf")
	second := models.NewUserRecord(uuid.NewString(), fields, "Jane Q. Public\n", "same.pdf")
	require.NoError(t, client.UpsertUser(ctx, first))
	require.NoError(t, client.UpsertUser(ctx, second))

	users, err := client.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	found, err := client.FindUsersBySkill(ctx, "sql")
	require.NoError(t, err)
	assert.Len(t, found, 2)

	first.Skills = "Rust"
	require.NoError(t, client.UpsertUser(ctx, first))
	skills, err := client.GetUserSkills(ctx, first.UserID)
	require.NoError(t, err)
	assert.Equal(t, "Rust", skills)

	key, err := client.GetResumeObjectKey(ctx, second.UserID)
	require.NoError(t, err)
	assert.Equal(t, "same.pdf", key)
}
