//-------------------------------------------------------------------------
//
// Smart Store Warehouse
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package sqlite implements the file-based warehouse target.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	// Registers the "sqlite" database/sql driver.
	_ "modernc.org/sqlite"

	"github.com/LFoster03/smart-store-07/internal/logging"
	"github.com/LFoster03/smart-store-07/internal/warehouse"
)

// Target stores the warehouse in a single SQLite database file.
type Target struct{}

// New creates the SQLite target.
func New() *Target {
	return &Target{}
}

// Name implements warehouse.Target.
func (t *Target) Name() string {
	return "sqlite"
}

// Description implements warehouse.Target.
func (t *Target) Description() string {
	return "SQLite database file, recreated on every build"
}

// Prepare creates the warehouse directory and removes any previous
// database file.
func (t *Target) Prepare(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create warehouse directory: %w", err)
	}
	err := os.Remove(path)
	switch {
	case err == nil:
		logging.Info().Str("path", path).Msg("Removed previous database file")
	case !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("failed to remove old database %s: %w", path, err)
	}
	return nil
}

// DSN returns the driver DSN for path with foreign key checking set.
func DSN(path string, enforceForeignKeys bool) string {
	fk := 0
	if enforceForeignKeys {
		fk = 1
	}
	return fmt.Sprintf("%s?_pragma=foreign_keys(%d)", path, fk)
}

var uriEscaper = strings.NewReplacer("%", "%25", "?", "%3f", "#", "%23")

// ReadOnlyDSN returns a URI DSN that opens path with mode=ro.
func ReadOnlyDSN(path string) string {
	return fmt.Sprintf("file:%s?mode=ro&_pragma=foreign_keys(0)", uriEscaper.Replace(path))
}

// Connect opens (or creates) the database file.
func (t *Target) Connect(ctx context.Context, path string, opts warehouse.Options) (warehouse.Conn, error) {
	if opts.ReadOnly {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("warehouse database not found: %w", err)
		}
	} else if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create warehouse directory: %w", err)
	}

	dsn := DSN(path, opts.EnforceForeignKeys)
	if opts.ReadOnly {
		dsn = ReadOnlyDSN(path)
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	logging.Info().
		Str("path", path).
		Bool("foreign_keys", opts.EnforceForeignKeys).
		Bool("read_only", opts.ReadOnly).
		Msg("Opened SQLite warehouse")

	return warehouse.NewSQLConn(db, warehouse.SQLite), nil
}

func init() {
	warehouse.Register(New())
}
