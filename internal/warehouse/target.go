//-------------------------------------------------------------------------
//
// Smart Store Warehouse
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package warehouse builds the star-schema warehouse from prepared CSVs.
// Backends register themselves as Targets; the Builder drives any of them.
package warehouse

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Options configures a target connection.
type Options struct {
	// EnforceForeignKeys turns on foreign key checking where the backend
	// allows it to be switched.
	EnforceForeignKeys bool

	// ReadOnly opens an existing warehouse without modifying it.
	ReadOnly bool
}

// Conn is an open warehouse connection.
type Conn interface {
	// Dialect returns the SQL dialect of the backend.
	Dialect() *Dialect

	// Exec runs a statement that returns no rows.
	Exec(ctx context.Context, query string, args ...any) error

	// Load inserts rows into t inside one transaction, reporting each
	// committed batch to progress. Nothing is kept if any batch fails.
	Load(ctx context.Context, t *Table, rows [][]any, batchSize int, progress func(rows int64)) (int64, error)

	// QueryInt runs a query returning a single integer.
	QueryInt(ctx context.Context, query string) (int64, error)

	// QueryPairs runs a two-column string query and returns it as a map.
	QueryPairs(ctx context.Context, query string) (map[string]string, error)

	// Close releases the connection.
	Close() error
}

// Target is a warehouse backend.
type Target interface {
	// Name returns the registry name.
	Name() string

	// Description returns a human-readable description.
	Description() string

	// Prepare readies the destination before a build, e.g. removing an
	// old database file. Errors are reported but not fatal.
	Prepare(dsn string) error

	// Connect opens the warehouse.
	Connect(ctx context.Context, dsn string, opts Options) (Conn, error)
}

var (
	registry = make(map[string]Target)
	mu       sync.RWMutex
)

// Register adds a target to the registry.
func Register(t Target) {
	mu.Lock()
	defer mu.Unlock()
	registry[t.Name()] = t
}

// Get retrieves a target by name.
func Get(name string) (Target, error) {
	mu.RLock()
	defer mu.RUnlock()

	t, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown warehouse target: %s", name)
	}
	return t, nil
}

// List returns all registered target names, sorted.
func List() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns all registered targets, sorted by name.
func All() []Target {
	names := List()

	mu.RLock()
	defer mu.RUnlock()

	targets := make([]Target, 0, len(names))
	for _, name := range names {
		targets = append(targets, registry[name])
	}
	return targets
}
