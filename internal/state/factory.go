package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ETAnderson/catalogsync/internal/db"
	"github.com/ETAnderson/catalogsync/internal/migrate"
)

const (
	BackendSQLite = "sqlite"
	BackendMySQL  = "mysql"
	BackendPebble = "pebble"
	BackendMemory = "memory"
)

type FactoryConfig struct {
	Backend  string
	MySQLDSN string
	Path     string // sqlite file or pebble directory

	// MigrationsDir replaces the bundled migrations for the SQL backends.
	MigrationsDir string
}

// NewStore opens the configured backend and, for SQL backends, applies the
// migrations.
func NewStore(ctx context.Context, cfg FactoryConfig) (Store, error) {
	backend := strings.ToLower(strings.TrimSpace(cfg.Backend))
	if backend == "" {
		backend = BackendSQLite
	}

	switch backend {
	case BackendMemory:
		return NewMemoryStore(), nil

	case BackendSQLite:
		if strings.TrimSpace(cfg.Path) == "" {
			return nil, errors.New("CACHE_PATH is required when CACHE_BACKEND=sqlite")
		}
		if err := ensureParentDir(cfg.Path); err != nil {
			return nil, err
		}

		sqlDB, err := openSQL(ctx, db.Config{Driver: db.DriverSQLite, DSN: cfg.Path}, cfg.MigrationsDir)
		if err != nil {
			return nil, err
		}
		return NewSQLiteStore(sqlDB), nil

	case BackendMySQL:
		if strings.TrimSpace(cfg.MySQLDSN) == "" {
			return nil, errors.New("DB_DSN is required when CACHE_BACKEND=mysql")
		}

		sqlDB, err := openSQL(ctx, db.Config{Driver: db.DriverMySQL, DSN: cfg.MySQLDSN}, cfg.MigrationsDir)
		if err != nil {
			return nil, err
		}
		return NewMySQLStore(sqlDB), nil

	case BackendPebble:
		if strings.TrimSpace(cfg.Path) == "" {
			return nil, errors.New("CACHE_PATH is required when CACHE_BACKEND=pebble")
		}

		ps, err := NewPebbleStore(cfg.Path)
		if err != nil {
			return nil, err
		}
		return ps, nil

	default:
		return nil, fmt.Errorf("unknown CACHE_BACKEND %q (use sqlite, mysql, pebble or memory)", cfg.Backend)
	}
}

func openSQL(ctx context.Context, cfg db.Config, migrationsDir string) (*sql.DB, error) {
	sqlDB, err := db.Open(cfg)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping %s: %w", cfg.Driver, err)
	}

	apply := func() error { return migrate.Apply(ctx, sqlDB, cfg.Driver) }
	if dir := strings.TrimSpace(migrationsDir); dir != "" {
		apply = func() error { return migrate.ApplyDir(ctx, sqlDB, cfg.Driver, dir) }
	}
	if err := apply(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("migrate %s: %w", cfg.Driver, err)
	}

	return sqlDB, nil
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
