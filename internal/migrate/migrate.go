package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
)

//go:embed sql
var embedded embed.FS

// Apply runs the bundled migrations for dialect ("mysql" or "sqlite3").
func Apply(ctx context.Context, db *sql.DB, dialect string) error {
	sub, err := fs.Sub(embedded, path.Join("sql", dialect))
	if err != nil {
		return err
	}
	return ApplyFS(ctx, db, dialect, sub)
}

// ApplyDir runs the .sql files of an on-disk directory.
func ApplyDir(ctx context.Context, db *sql.DB, dialect string, dir string) error {
	return ApplyFS(ctx, db, dialect, os.DirFS(dir))
}

// ApplyFS runs every not yet applied .sql file at the root of fsys, in name
// order, and records it in schema_migrations.
func ApplyFS(ctx context.Context, db *sql.DB, dialect string, fsys fs.FS) error {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return err
	}

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(strings.ToLower(name), ".sql") {
			files = append(files, name)
		}
	}

	sort.Strings(files)

	if err := ensureSchemaMigrations(ctx, db, dialect); err != nil {
		return err
	}

	for _, name := range files {
		applied, err := isApplied(ctx, db, name)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		sqlBytes, err := fs.ReadFile(fsys, name)
		if err != nil {
			return err
		}

		if _, err := db.ExecContext(ctx, string(sqlBytes)); err != nil {
			return fmt.Errorf("migration %s failed: %w", name, err)
		}

		if err := markApplied(ctx, db, name); err != nil {
			return err
		}
	}

	return nil
}

func ensureSchemaMigrations(ctx context.Context, db *sql.DB, dialect string) error {
	ddl := `
CREATE TABLE IF NOT EXISTS schema_migrations (
  name VARCHAR(255) NOT NULL,
  applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
  PRIMARY KEY (name)
)`
	if dialect == "mysql" {
		ddl += " ENGINE=InnoDB"
	}

	_, err := db.ExecContext(ctx, ddl)
	return err
}

func isApplied(ctx context.Context, db *sql.DB, name string) (bool, error) {
	var v string
	err := db.QueryRowContext(ctx, `SELECT name FROM schema_migrations WHERE name = ?`, name).Scan(&v)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func markApplied(ctx context.Context, db *sql.DB, name string) error {
	_, err := db.ExecContext(ctx, `INSERT INTO schema_migrations (name) VALUES (?)`, name)
	return err
}
