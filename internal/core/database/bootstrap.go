package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"
	"time"

	"github.com/markdave123-py/resumeapp/internal/logger"
)

//go:embed scripts/*.sql
var bootstrapFS embed.FS

// EnsureBootstrapped creates the schema unless the meta table already records version 1.
func EnsureBootstrapped(ctx context.Context, db *sql.DB, d dialect) error {
	ctxBoot, cancel := context.WithTimeout(ctx, 3*time.Minute)
	defer cancel()

	var exists bool
	if err := db.QueryRowContext(ctxBoot, d.metaExists).Scan(&exists); err != nil {
		return fmt.Errorf("meta table check failed: %w", err)
	}
	if !exists {
		return runBootstrap(ctxBoot, db, d)
	}

	var hasVersion bool
	if err := db.QueryRowContext(ctxBoot, `SELECT EXISTS (SELECT 1 FROM resumeapp_meta WHERE version = 1)`).Scan(&hasVersion); err != nil {
		return fmt.Errorf("meta version check failed: %w", err)
	}
	if !hasVersion {
		return runBootstrap(ctxBoot, db, d)
	}

	logger.Debug().Str("driver", d.driver).Msg("schema already bootstrapped")
	return nil
}

func runBootstrap(ctx context.Context, db *sql.DB, d dialect) error {
	sqlBytes, err := bootstrapFS.ReadFile(d.bootstrapSQL)
	if err != nil {
		return fmt.Errorf("read %s: %w", d.bootstrapSQL, err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	for _, stmt := range splitStatements(string(sqlBytes)) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("exec bootstrap: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit bootstrap: %w", err)
	}

	logger.Info().Str("driver", d.driver).Msg("database schema bootstrapped")
	return nil
}

// splitStatements breaks a script on semicolons. The bootstrap scripts contain
// no semicolons inside literals.
func splitStatements(script string) []string {
	var out []string
	for _, s := range strings.Split(script, ";") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
