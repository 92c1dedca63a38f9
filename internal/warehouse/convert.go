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
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/LFoster03/smart-store-07/internal/table"
)

// ConvertCell turns a prepared CSV cell into a value for a column of type
// ct. Missing cells are nil. ok is false when a present value could not
// be converted; the returned value is then nil.
func ConvertCell(ct ColumnType, raw string) (value any, ok bool) {
	if table.IsMissing(raw) {
		return nil, true
	}
	s := strings.TrimSpace(raw)

	switch ct {
	case Integer:
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, true
		}
		// Whole decimals such as "23.0" come from float-typed exports.
		d, err := decimal.NewFromString(s)
		if err != nil || !d.IsInteger() {
			return nil, false
		}
		return d.IntPart(), true
	case Real:
		d, err := decimal.NewFromString(s)
		if err != nil {
			return nil, false
		}
		return d.InexactFloat64(), true
	default:
		return raw, true
	}
}

// LoadResult counts what happened to one table's rows.
type LoadResult struct {
	Table    string
	Read     int64
	Loaded   int64
	Rejected int64

	// Nulled counts present values that could not be converted.
	Nulled int64
}

// BuildRows maps the prepared table src onto the columns of t. Columns
// are matched by name; extra source columns are ignored and absent ones
// load as NULL. Rows whose primary key is missing or not convertible are
// rejected, so every row is rejected when src has no key column.
func BuildRows(t *Table, src *table.Table) ([][]any, LoadResult) {
	res := LoadResult{Table: t.Name, Read: int64(src.Len())}

	positions := make([]int, len(t.Columns))
	for i, c := range t.Columns {
		positions[i] = -1
		for j, name := range src.Columns {
			if table.NormalizeColumnName(name) == c.Name {
				positions[i] = j
				break
			}
		}
	}
	pk := t.PrimaryKey()
	if pk >= 0 && positions[pk] < 0 {
		res.Rejected = res.Read
		return nil, res
	}

	rows := make([][]any, 0, src.Len())
	for _, record := range src.Rows {
		row := make([]any, len(t.Columns))
		rejected := false
		for i, c := range t.Columns {
			if positions[i] < 0 {
				continue
			}
			v, ok := ConvertCell(c.Type, record[positions[i]])
			if i == pk && (!ok || v == nil) {
				rejected = true
				break
			}
			if !ok {
				res.Nulled++
			}
			row[i] = v
		}
		if rejected {
			res.Rejected++
			continue
		}
		rows = append(rows, row)
	}
	return rows, res
}

// MissingColumns lists schema columns absent from src.
func MissingColumns(t *Table, src *table.Table) []string {
	var missing []string
	for _, c := range t.Columns {
		if !hasColumn(src, c.Name) {
			missing = append(missing, c.Name)
		}
	}
	return missing
}

// hasColumn reports whether src has column after name normalization.
func hasColumn(src *table.Table, column string) bool {
	for _, name := range src.Columns {
		if table.NormalizeColumnName(name) == column {
			return true
		}
	}
	return false
}

// String summarizes the result for logs.
func (r LoadResult) String() string {
	return fmt.Sprintf("%s: read=%d loaded=%d rejected=%d nulled=%d",
		r.Table, r.Read, r.Loaded, r.Rejected, r.Nulled)
}
