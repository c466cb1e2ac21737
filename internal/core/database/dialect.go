package db

import (
	"fmt"
	"strconv"
	"strings"
)

// dialect holds the SQL that differs between the supported drivers.
type dialect struct {
	driver       string
	bootstrapSQL string
	metaExists   string
	upsertSuffix string
	numbered     bool // $1 style placeholders
}

var dialects = map[string]dialect{
	"pgx": {
		driver:       "pgx",
		bootstrapSQL: "scripts/initdb_postgres.sql",
		metaExists: `SELECT EXISTS (
			SELECT 1 FROM information_schema.tables
			WHERE table_schema = current_schema() AND table_name = 'resumeapp_meta'
		)`,
		upsertSuffix: `ON CONFLICT (userid) DO UPDATE SET skills = EXCLUDED.skills, resume_text = EXCLUDED.resume_text`,
		numbered:     true,
	},
	"mysql": {
		driver:       "mysql",
		bootstrapSQL: "scripts/initdb_mysql.sql",
		metaExists: `SELECT EXISTS (
			SELECT 1 FROM information_schema.tables
			WHERE table_schema = DATABASE() AND table_name = 'resumeapp_meta'
		)`,
		upsertSuffix: `ON DUPLICATE KEY UPDATE skills = VALUES(skills), resume_text = VALUES(resume_text)`,
	},
}

func lookupDialect(driver string) (dialect, error) {
	d, ok := dialects[driver]
	if !ok {
		return dialect{}, fmt.Errorf("unsupported database driver %q", driver)
	}
	return d, nil
}

// rebind rewrites ? placeholders for drivers that use numbered ones.
func (d dialect) rebind(q string) string {
	if !d.numbered {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
