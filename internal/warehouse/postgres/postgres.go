//-------------------------------------------------------------------------
//
// Smart Store Warehouse
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/LFoster03/smart-store-07/internal/logging"
	"github.com/LFoster03/smart-store-07/internal/warehouse"
)

// Target loads the warehouse into a PostgreSQL database.
type Target struct{}

// New creates the PostgreSQL target.
func New() *Target {
	return &Target{}
}

// Name implements warehouse.Target.
func (t *Target) Name() string {
	return "postgres"
}

// Description implements warehouse.Target.
func (t *Target) Description() string {
	return "PostgreSQL database, bulk loaded with COPY; foreign keys always enforced"
}

// Prepare implements warehouse.Target. Tables are dropped by the build
// itself, so there is nothing to do up front.
func (t *Target) Prepare(string) error {
	return nil
}

// Connect implements warehouse.Target.
func (t *Target) Connect(ctx context.Context, connString string, opts warehouse.Options) (warehouse.Conn, error) {
	pool, err := Connect(ctx, connString, opts.ReadOnly)
	if err != nil {
		return nil, err
	}
	if !opts.EnforceForeignKeys && !opts.ReadOnly {
		logging.Debug().Msg("PostgreSQL enforces foreign keys regardless of enforce_foreign_keys")
	}
	return &Conn{pool: pool}, nil
}

// Conn is a warehouse connection backed by a pgx pool.
type Conn struct {
	pool *pgxpool.Pool
}

// NewConn wraps an existing pool.
func NewConn(pool *pgxpool.Pool) *Conn {
	return &Conn{pool: pool}
}

// Dialect implements warehouse.Conn.
func (c *Conn) Dialect() *warehouse.Dialect {
	return warehouse.Postgres
}

// Exec implements warehouse.Conn.
func (c *Conn) Exec(ctx context.Context, query string, args ...any) error {
	_, err := c.pool.Exec(ctx, query, args...)
	return err
}

// Load implements warehouse.Conn with COPY FROM, one batch per call.
func (c *Conn) Load(ctx context.Context, t *warehouse.Table, rows [][]any, batchSize int, progress func(int64)) (int64, error) {
	if batchSize < 1 {
		batchSize = 1
	}

	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var loaded int64
	for start := 0; start < len(rows); start += batchSize {
		end := min(start+batchSize, len(rows))
		n, err := tx.CopyFrom(ctx, pgx.Identifier{t.Name}, t.ColumnNames(), pgx.CopyFromRows(rows[start:end]))
		if err != nil {
			return 0, fmt.Errorf("failed to copy rows %d-%d into %s: %w", start+1, end, t.Name, err)
		}
		loaded += n
		if progress != nil {
			progress(n)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit %s: %w", t.Name, err)
	}
	return loaded, nil
}

// QueryInt implements warehouse.Conn.
func (c *Conn) QueryInt(ctx context.Context, query string) (int64, error) {
	var n int64
	if err := c.pool.QueryRow(ctx, query).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// QueryPairs implements warehouse.Conn.
func (c *Conn) QueryPairs(ctx context.Context, query string) (map[string]string, error) {
	rows, err := c.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pairs := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		pairs[key] = value
	}
	return pairs, rows.Err()
}

// Close implements warehouse.Conn.
func (c *Conn) Close() error {
	c.pool.Close()
	return nil
}

func init() {
	warehouse.Register(New())
}
