package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/markdave123-py/resumeapp/internal/config"
	"github.com/markdave123-py/resumeapp/internal/core"
	"github.com/markdave123-py/resumeapp/internal/logger"
	"github.com/markdave123-py/resumeapp/internal/models"
)

type DatabaseClient struct {
	db      *sql.DB
	dialect dialect
}

var _ core.UserStore = (*DatabaseClient)(nil)

func NewDatabaseClient(ctx context.Context, cfg *config.Config) (*DatabaseClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database client configuration is nil")
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}
	d, err := lookupDialect(cfg.DBDriver)
	if err != nil {
		return nil, err
	}

	dsn := cfg.DatabaseURL
	if d.driver == "pgx" && cfg.SslCertPath != "" {
		if dsn, err = withRootCert(dsn, cfg.SslCertPath); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxOpenConns / 2)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(10 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if !cfg.SkipDBBootstrap {
		if err := EnsureBootstrapped(ctx, db, d); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("bootstrap: %w", err)
		}
	}

	logger.Info().Str("driver", d.driver).Msg("database connected")
	return &DatabaseClient{db: db, dialect: d}, nil
}

// NewWithDB wraps an already opened handle. Used by tests and tooling.
func NewWithDB(db *sql.DB, driver string) (*DatabaseClient, error) {
	d, err := lookupDialect(driver)
	if err != nil {
		return nil, err
	}
	return &DatabaseClient{db: db, dialect: d}, nil
}

// withRootCert appends verify-ca SSL params to a postgres URL.
func withRootCert(dsn, certPath string) (string, error) {
	if _, err := os.Stat(certPath); err != nil {
		return "", fmt.Errorf("ssl cert not accessible at %q: %w", certPath, err)
	}
	u, err := url.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("invalid DATABASE_URL: %w", err)
	}
	q := u.Query()
	q.Set("sslmode", "verify-ca")
	q.Set("sslrootcert", certPath)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c *DatabaseClient) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

func (c *DatabaseClient) Ping(ctx context.Context) error {
	if err := c.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping: %w: %w", core.ErrPersistence, err)
	}
	return nil
}

// UpsertUser inserts the row, or on a userid collision refreshes skills and resume_text only.
func (c *DatabaseClient) UpsertUser(ctx context.Context, u *models.UserRecord) error {
	if u == nil {
		return errors.New("nil user")
	}
	q := c.dialect.rebind(`
		INSERT INTO users (userid, firstname, lastname, email, skills, resume_text, resume_file)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`) + c.dialect.upsertSuffix

	_, err := c.db.ExecContext(ctx, q,
		u.UserID, u.FirstName, u.LastName, u.Email, u.Skills, u.ResumeText, u.ResumeObjectKey)
	if err != nil {
		return fmt.Errorf("upsert user %s: %w: %w", u.UserID, core.ErrPersistence, err)
	}
	return nil
}

func (c *DatabaseClient) ListUsers(ctx context.Context) ([]models.UserSummary, error) {
	const q = `
		SELECT userid, firstname, lastname, email, skills
		FROM users
		ORDER BY userid ASC
	`
	rows, err := c.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list users: %w: %w", core.ErrPersistence, err)
	}
	return scanSummaries(rows)
}

// FindUsersBySkill matches skill as a case-insensitive substring of the skills column.
func (c *DatabaseClient) FindUsersBySkill(ctx context.Context, skill string) ([]models.UserSummary, error) {
	q := c.dialect.rebind(`
		SELECT DISTINCT userid, firstname, lastname, email, skills
		FROM users
		WHERE LOWER(skills) LIKE LOWER(?)
		ORDER BY userid ASC
	`)
	rows, err := c.db.QueryContext(ctx, q, "%"+skill+"%")
	if err != nil {
		return nil, fmt.Errorf("find users by skill: %w: %w", core.ErrPersistence, err)
	}
	return scanSummaries(rows)
}

func (c *DatabaseClient) GetUserSkills(ctx context.Context, userID string) (string, error) {
	q := c.dialect.rebind(`SELECT skills FROM users WHERE userid = ?`)

	var skills sql.NullString
	err := c.db.QueryRowContext(ctx, q, userID).Scan(&skills)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("user %s: %w", userID, core.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("get skills: %w: %w", core.ErrPersistence, err)
	}
	return skills.String, nil
}

func (c *DatabaseClient) GetResumeObjectKey(ctx context.Context, userID string) (string, error) {
	q := c.dialect.rebind(`SELECT resume_file FROM users WHERE userid = ?`)

	var key sql.NullString
	err := c.db.QueryRowContext(ctx, q, userID).Scan(&key)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !key.Valid) {
		return "", fmt.Errorf("resume for user %s: %w", userID, core.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("get resume key: %w: %w", core.ErrPersistence, err)
	}
	return key.String, nil
}

func scanSummaries(rows *sql.Rows) ([]models.UserSummary, error) {
	defer rows.Close()

	out := []models.UserSummary{}
	for rows.Next() {
		var (
			u      models.UserSummary
			skills sql.NullString
		)
		if err := rows.Scan(&u.UserID, &u.FirstName, &u.LastName, &u.Email, &skills); err != nil {
			return nil, fmt.Errorf("scan user: %w: %w", core.ErrPersistence, err)
		}
		u.Skills = skills.String
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w: %w", core.ErrPersistence, err)
	}
	return out, nil
}
