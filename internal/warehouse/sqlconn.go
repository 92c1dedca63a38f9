//-------------------------------------------------------------------------
//
// Smart Store Warehouse
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package warehouse

import (
	"context"
	"database/sql"
	"fmt"
)

// SQLConn adapts a database/sql handle to Conn.
type SQLConn struct {
	db      *sql.DB
	dialect *Dialect
}

// NewSQLConn wraps db. The pool is capped at one connection so that
// session settings apply to every statement of the run.
func NewSQLConn(db *sql.DB, dialect *Dialect) *SQLConn {
	db.SetMaxOpenConns(1)
	return &SQLConn{db: db, dialect: dialect}
}

// DB returns the underlying handle.
func (c *SQLConn) DB() *sql.DB {
	return c.db
}

// Dialect implements Conn.
func (c *SQLConn) Dialect() *Dialect {
	return c.dialect
}

// Exec implements Conn.
func (c *SQLConn) Exec(ctx context.Context, query string, args ...any) error {
	_, err := c.db.ExecContext(ctx, query, args...)
	return err
}

// Load implements Conn using multi-row INSERT statements. Batches larger
// than the dialect's parameter limit allows are split.
func (c *SQLConn) Load(ctx context.Context, t *Table, rows [][]any, batchSize int, progress func(int64)) (int64, error) {
	batchSize = c.dialect.RowsPerStatement(t, batchSize)

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var loaded int64
	fullBatchSQL := ""
	for start := 0; start < len(rows); start += batchSize {
		end := min(start+batchSize, len(rows))
		batch := rows[start:end]

		query := fullBatchSQL
		if len(batch) != batchSize || query == "" {
			query = c.dialect.InsertSQL(t, len(batch))
			if len(batch) == batchSize {
				fullBatchSQL = query
			}
		}

		args := make([]any, 0, len(batch)*len(t.Columns))
		for _, row := range batch {
			args = append(args, row...)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return 0, fmt.Errorf("failed to insert rows %d-%d into %s: %w", start+1, end, t.Name, err)
		}
		loaded += int64(len(batch))
		if progress != nil {
			progress(int64(len(batch)))
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit %s: %w", t.Name, err)
	}
	return loaded, nil
}

// QueryInt implements Conn.
func (c *SQLConn) QueryInt(ctx context.Context, query string) (int64, error) {
	var n int64
	if err := c.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// QueryPairs implements Conn.
func (c *SQLConn) QueryPairs(ctx context.Context, query string) (map[string]string, error) {
	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pairs := make(map[string]string)
	for rows.Next() {
		var key, value sql.NullString
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		pairs[key.String] = value.String
	}
	return pairs, rows.Err()
}

// Close implements Conn.
func (c *SQLConn) Close() error {
	return c.db.Close()
}
