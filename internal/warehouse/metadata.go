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
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/LFoster03/smart-store-07/pkg/version"
)

// Metadata keys written after every build.
const (
	MetaRunID   = "run_id"
	MetaVersion = "version"
	MetaTarget  = "target"
	MetaBuiltAt = "built_at"

	// metaBuildPrefix is followed by a version.Fields key.
	metaBuildPrefix = "build."

	// metaRowsPrefix is followed by a table name.
	metaRowsPrefix = "rows."
)

// RowsKey returns the metadata key holding a table's loaded row count.
func RowsKey(table string) string {
	return metaRowsPrefix + table
}

// SaveMetadata records the build in the metadata table.
func SaveMetadata(ctx context.Context, conn Conn, runID, target string, builtAt time.Time, loaded map[string]int64) error {
	metadata := map[string]string{
		MetaRunID:   runID,
		MetaVersion: version.Short(),
		MetaTarget:  target,
		MetaBuiltAt: builtAt.UTC().Format(time.RFC3339),
	}
	for k, v := range version.Fields() {
		if k == "version" {
			continue
		}
		metadata[metaBuildPrefix+k] = v
	}
	for table, n := range loaded {
		metadata[RowsKey(table)] = strconv.FormatInt(n, 10)
	}

	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([][]any, len(keys))
	for i, k := range keys {
		rows[i] = []any{k, metadata[k]}
	}
	if _, err := conn.Load(ctx, Metadata, rows, len(rows), nil); err != nil {
		return fmt.Errorf("failed to save metadata: %w", err)
	}
	return nil
}

// GetAllMetadata reads the metadata table as a map.
func GetAllMetadata(ctx context.Context, conn Conn) (map[string]string, error) {
	return conn.QueryPairs(ctx, "SELECT meta_key, meta_value FROM "+Metadata.Name)
}

// CountRows returns the row count of every star-schema table.
func CountRows(ctx context.Context, conn Conn) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, t := range []*Table{DimCustomers, DimProducts, FactSales} {
		n, err := conn.QueryInt(ctx, conn.Dialect().CountSQL(t))
		if err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", t.Name, err)
		}
		counts[t.Name] = n
	}
	return counts, nil
}
