package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Options configures Open.
type Options struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// Open connects to the configured database and verifies the connection.
func Open(ctx context.Context, opts Options) (*sql.DB, error) {
	var driverName string
	switch opts.Driver {
	case DriverSQLite, "sqlite3":
		driverName = "sqlite3"
	case DriverPostgres:
		driverName = "postgres"
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}

	db, err := sql.Open(driverName, opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", opts.Driver, err)
	}

	if driverName == "sqlite3" {
		// every connection to :memory: is a separate database
		db.SetMaxOpenConns(1)
	} else {
		if opts.MaxOpenConns > 0 {
			db.SetMaxOpenConns(opts.MaxOpenConns)
		}
		if opts.ConnMaxLifetime > 0 {
			db.SetConnMaxLifetime(opts.ConnMaxLifetime)
		}
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", opts.Driver, err)
	}
	return db, nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS catalog_runs (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		record_count INTEGER NOT NULL,
		seed BIGINT NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS catalog_records (
		id TEXT PRIMARY KEY,
		run_id TEXT NOT NULL REFERENCES catalog_runs(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		website TEXT NOT NULL,
		generation TEXT NOT NULL,
		generation_short TEXT NOT NULL,
		generation_num INTEGER NOT NULL,
		data_modeling TEXT,
		no_code_interface TEXT,
		native_connectors INTEGER,
		quadrant_x DOUBLE PRECISION NOT NULL,
		quadrant_y DOUBLE PRECISION NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_catalog_records_run ON catalog_records(run_id, position)`,
	`CREATE TABLE IF NOT EXISTS catalog_record_tags (
		record_id TEXT NOT NULL REFERENCES catalog_records(id) ON DELETE CASCADE,
		field TEXT NOT NULL,
		position INTEGER NOT NULL,
		value TEXT NOT NULL,
		PRIMARY KEY (record_id, field, position)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_catalog_record_tags_value ON catalog_record_tags(field, value)`,
}

// Migrate creates the catalog tables if they do not exist.
func Migrate(ctx context.Context, db DB) error {
	for i, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
	}
	return nil
}
