//-------------------------------------------------------------------------
//
// Smart Store Warehouse
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package prepare

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/LFoster03/smart-store-07/internal/table"
)

// Output layouts for parsed dates.
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
)

// ParseDate parses a date cell in any of the common layouts, reading
// ambiguous numeric dates month-first. Missing or unparseable values
// return ok == false.
func ParseDate(value string) (t time.Time, ok bool) {
	if table.IsMissing(value) {
		return time.Time{}, false
	}
	t, err := dateparse.ParseIn(strings.TrimSpace(value), time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatDate renders t as a date, or a date and time when t carries a
// time of day.
func FormatDate(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format(DateLayout)
	}
	return t.Format(DateTimeLayout)
}

// parsedColumn holds one date column after coercion. Valid[i] is false
// where the cell is null.
type parsedColumn struct {
	Times []time.Time
	Valid []bool
}

// parseDateColumn rewrites a date column in canonical form. Unparseable
// values become empty cells; the number of non-missing values that had
// to be coerced is returned.
func parseDateColumn(t *table.Table, column string) (*parsedColumn, int, error) {
	values, ok := t.Column(column)
	if !ok {
		return nil, 0, nil
	}

	parsed := &parsedColumn{
		Times: make([]time.Time, len(values)),
		Valid: make([]bool, len(values)),
	}
	coerced := 0
	for i, v := range values {
		ts, ok := ParseDate(v)
		if !ok {
			if !table.IsMissing(v) {
				coerced++
			}
			values[i] = ""
			continue
		}
		parsed.Times[i] = ts
		parsed.Valid[i] = true
		values[i] = FormatDate(ts)
	}
	if err := t.SetColumn(column, values); err != nil {
		return nil, 0, err
	}
	return parsed, coerced, nil
}
