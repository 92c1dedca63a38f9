//-------------------------------------------------------------------------
//
// Smart Store Warehouse
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package mysql implements the MySQL / MariaDB warehouse target.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/LFoster03/smart-store-07/internal/logging"
	"github.com/LFoster03/smart-store-07/internal/warehouse"
)

// Target loads the warehouse into a MySQL database.
type Target struct{}

// New creates the MySQL target.
func New() *Target {
	return &Target{}
}

// Name implements warehouse.Target.
func (t *Target) Name() string {
	return "mysql"
}

// Description implements warehouse.Target.
func (t *Target) Description() string {
	return "MySQL / MariaDB database; foreign key checks follow enforce_foreign_keys"
}

// Prepare implements warehouse.Target.
func (t *Target) Prepare(string) error {
	return nil
}

// Config parses dsn (user:pass@tcp(host:port)/db) and applies the
// session settings a build needs.
func Config(dsn string, opts warehouse.Options) (*mysql.Config, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}
	cfg.ParseTime = true
	if cfg.Params == nil {
		cfg.Params = make(map[string]string)
	}
	// Unknown params are sent as SET statements on every new connection.
	if opts.EnforceForeignKeys {
		cfg.Params["foreign_key_checks"] = "1"
	} else {
		cfg.Params["foreign_key_checks"] = "0"
	}
	if opts.ReadOnly {
		cfg.Params["transaction_read_only"] = "1"
	}
	return cfg, nil
}

// Connect implements warehouse.Target.
func (t *Target) Connect(ctx context.Context, dsn string, opts warehouse.Options) (warehouse.Conn, error) {
	cfg, err := Config(dsn, opts)
	if err != nil {
		return nil, err
	}

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connector: %w", err)
	}
	db := sql.OpenDB(connector)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logging.Info().
		Str("addr", cfg.Addr).
		Str("database", cfg.DBName).
		Bool("foreign_keys", opts.EnforceForeignKeys).
		Msg("Connected to database")

	return warehouse.NewSQLConn(db, warehouse.MySQL), nil
}

func init() {
	warehouse.Register(New())
}
