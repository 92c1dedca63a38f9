//-------------------------------------------------------------------------
//
// Smart Store Warehouse
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package table provides the in-memory tabular frame the pipeline stages
// pass around: a header plus string cells, read from and written to CSV.
package table

import (
	"fmt"
	"strings"
)

// nullTokens are cell values read as missing, matching the conventional
// spreadsheet / dataframe null markers.
var nullTokens = map[string]struct{}{
	"#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {},
	"N/A": {}, "NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {},
	"nan": {}, "null": {},
}

// IsMissing reports whether a cell value counts as null.
func IsMissing(v string) bool {
	v = strings.TrimSpace(v)
	if v == "" {
		return true
	}
	_, ok := nullTokens[v]
	return ok
}

// Table is a named set of rows sharing one header.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// New creates an empty table with the given header.
func New(name string, columns ...string) *Table {
	return &Table{
		Name:    name,
		Columns: append([]string(nil), columns...),
	}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Append adds a row. The row must match the header width.
func (t *Table) Append(row ...string) error {
	if len(row) != len(t.Columns) {
		return fmt.Errorf("table %s: row has %d fields, header has %d", t.Name, len(row), len(t.Columns))
	}
	t.Rows = append(t.Rows, row)
	return nil
}

// ColumnIndex returns the position of a column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the header contains name.
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// Column returns a copy of one column's values.
func (t *Table) Column(name string) ([]string, bool) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil, false
	}
	values := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row[idx]
	}
	return values, true
}

// SetColumn replaces a column in place, or appends it when absent.
func (t *Table) SetColumn(name string, values []string) error {
	if len(values) != len(t.Rows) {
		return fmt.Errorf("table %s: column %s has %d values, table has %d rows",
			t.Name, name, len(values), len(t.Rows))
	}
	idx := t.ColumnIndex(name)
	if idx < 0 {
		t.Columns = append(t.Columns, name)
		for i := range t.Rows {
			t.Rows[i] = append(t.Rows[i], values[i])
		}
		return nil
	}
	for i := range t.Rows {
		t.Rows[i][idx] = values[i]
	}
	return nil
}

// NormalizeColumnName trims, lowercases and replaces spaces with underscores.
func NormalizeColumnName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ToLower(name)
	return strings.ReplaceAll(name, " ", "_")
}

// NormalizeColumns applies NormalizeColumnName to the header.
func (t *Table) NormalizeColumns() {
	for i, c := range t.Columns {
		t.Columns[i] = NormalizeColumnName(c)
	}
}

// filter keeps rows for which keep returns true and reports how many were dropped.
func (t *Table) filter(keep func(row []string) bool) int {
	kept := t.Rows[:0]
	for _, row := range t.Rows {
		if keep(row) {
			kept = append(kept, row)
		}
	}
	dropped := len(t.Rows) - len(kept)
	// Clear the tail so dropped rows can be collected.
	for i := len(kept); i < len(t.Rows); i++ {
		t.Rows[i] = nil
	}
	t.Rows = kept
	return dropped
}

// DropDuplicates removes rows identical in every column to an earlier row.
// Order is preserved and the first occurrence wins.
func (t *Table) DropDuplicates() int {
	seen := make(map[string]struct{}, len(t.Rows))
	return t.filter(func(row []string) bool {
		key := strings.Join(row, "\x1f")
		if _, dup := seen[key]; dup {
			return false
		}
		seen[key] = struct{}{}
		return true
	})
}

// DropMissing removes rows where any of the given columns is missing.
func (t *Table) DropMissing(columns ...string) (int, error) {
	idx, err := t.indexes(columns)
	if err != nil {
		return 0, err
	}
	return t.filter(func(row []string) bool {
		for _, i := range idx {
			if IsMissing(row[i]) {
				return false
			}
		}
		return true
	}), nil
}

// DropDuplicateKeys keeps only the first row for each value of column.
// Values are compared after trimming surrounding whitespace.
func (t *Table) DropDuplicateKeys(column string) (int, error) {
	idx, err := t.indexes([]string{column})
	if err != nil {
		return 0, err
	}
	seen := make(map[string]struct{}, len(t.Rows))
	return t.filter(func(row []string) bool {
		key := strings.TrimSpace(row[idx[0]])
		if _, dup := seen[key]; dup {
			return false
		}
		seen[key] = struct{}{}
		return true
	}), nil
}

func (t *Table) indexes(columns []string) ([]int, error) {
	idx := make([]int, len(columns))
	for i, c := range columns {
		idx[i] = t.ColumnIndex(c)
		if idx[i] < 0 {
			return nil, fmt.Errorf("table %s: no column %q", t.Name, c)
		}
	}
	return idx, nil
}
