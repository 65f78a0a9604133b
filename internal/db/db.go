package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite3"
)

type Config struct {
	Driver string
	DSN    string // mysql DSN, or the sqlite file path
}

func Open(cfg Config) (*sql.DB, error) {
	switch cfg.Driver {
	case DriverMySQL, "":
		return openMySQL(cfg.DSN)
	case DriverSQLite:
		return openSQLite(cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown sql driver %q", cfg.Driver)
	}
}

func openMySQL(dsn string) (*sql.DB, error) {
	// Cached timestamps are scanned into time.Time.
	mc, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse mysql dsn: %w", err)
	}
	mc.ParseTime = true
	mc.Loc = time.UTC

	db, err := sql.Open(DriverMySQL, mc.FormatDSN())
	if err != nil {
		return nil, err
	}

	// Conservative defaults (tune later)
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(20)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

// SQLiteDSN turns a file path into a DSN with WAL and a busy timeout.
func SQLiteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path
	}
	return path + "?_journal_mode=WAL&_busy_timeout=5000"
}

func openSQLite(path string) (*sql.DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	db, err := sql.Open(DriverSQLite, SQLiteDSN(path))
	if err != nil {
		return nil, err
	}

	// Single writer.
	db.SetMaxOpenConns(1)

	return db, nil
}

func Ping(ctx context.Context, db *sql.DB) error {
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return db.PingContext(c)
}
