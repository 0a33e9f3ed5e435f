package dbpkg

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const upSuffix = ".up.sql"

// Migrate applies every pending *.up.sql file in dir in lexical order.
//
// Applied versions are recorded in schema_migrations so reruns are no-ops.
func Migrate(ctx context.Context, db *sql.DB, dir string) ([]string, error) {
	const ddl = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version TEXT PRIMARY KEY,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return nil, fmt.Errorf("ensure schema_migrations table: %w", err)
	}

	files, err := upMigrations(dir)
	if err != nil {
		return nil, err
	}

	var applied []string

	for _, file := range files {
		var count int

		const isApplied = `SELECT COUNT(1) FROM schema_migrations WHERE version = $1`
		if err := db.QueryRowContext(ctx, isApplied, file).Scan(&count); err != nil {
			return applied, fmt.Errorf("check migration %q status: %w", file, err)
		}

		if count > 0 {
			continue
		}

		if err := apply(ctx, db, dir, file); err != nil {
			return applied, err
		}

		applied = append(applied, file)
	}

	return applied, nil
}

func apply(ctx context.Context, db *sql.DB, dir, file string) error {
	stmt, err := os.ReadFile(filepath.Join(dir, file))
	if err != nil {
		return fmt.Errorf("read migration %q: %w", file, err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for migration %q: %w", file, err)
	}
	defer Rollback(tx) //nolint:errcheck

	if _, err := tx.ExecContext(ctx, string(stmt)); err != nil {
		return fmt.Errorf("execute migration %q: %w", file, err)
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations(version) VALUES ($1)`, file); err != nil {
		return fmt.Errorf("record migration %q: %w", file, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %q: %w", file, err)
	}

	return nil
}

func upMigrations(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations directory %q: %w", dir, err)
	}

	files := make([]string, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		if strings.HasSuffix(strings.ToLower(entry.Name()), upSuffix) {
			files = append(files, entry.Name())
		}
	}

	sort.Strings(files)

	return files, nil
}
