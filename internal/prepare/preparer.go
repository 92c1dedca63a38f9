//-------------------------------------------------------------------------
//
// Smart Store Warehouse
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package prepare turns the raw customer, product and sales extracts into
// cleaned, enriched CSV files ready for loading.
package prepare

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/LFoster03/smart-store-07/internal/logging"
	"github.com/LFoster03/smart-store-07/internal/table"
)

// ReportFile is the name of the cleaning report in the prepared directory.
const ReportFile = "prepare_report.yaml"

// Options configures a Preparer.
type Options struct {
	RawDir      string
	PreparedDir string

	// Reference is the date ages are computed against.
	Reference time.Time
}

// Preparer runs the cleaning stage over every dataset.
type Preparer struct {
	opts Options
	log  zerolog.Logger
}

// New creates a Preparer. A zero Reference means the current time.
func New(opts Options) *Preparer {
	if opts.Reference.IsZero() {
		opts.Reference = time.Now()
	}
	return &Preparer{
		opts: opts,
		log:  logging.Stage("prepare"),
	}
}

// Run cleans all datasets, writes the prepared CSVs and the report.
// Any file I/O failure stops the run.
func (p *Preparer) Run(ctx context.Context) (*Report, error) {
	if err := os.MkdirAll(p.opts.PreparedDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create prepared directory: %w", err)
	}

	report := &Report{
		GeneratedAt:   time.Now().UTC(),
		ReferenceDate: p.opts.Reference.Format(DateLayout),
	}

	for _, ds := range Datasets() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tr, err := p.prepareFile(ds)
		if err != nil {
			return nil, err
		}
		report.Tables = append(report.Tables, tr)
	}

	reportPath := filepath.Join(p.opts.PreparedDir, ReportFile)
	if err := report.WriteFile(reportPath); err != nil {
		return nil, err
	}
	p.log.Info().Str("path", reportPath).Msg("Cleaning complete")
	return report, nil
}

func (p *Preparer) prepareFile(ds Dataset) (TableReport, error) {
	src := filepath.Join(p.opts.RawDir, ds.RawFile)
	dst := filepath.Join(p.opts.PreparedDir, ds.PreparedFile)

	t, err := table.ReadCSV(src)
	if err != nil {
		return TableReport{}, err
	}
	t.Name = ds.Name

	tr, err := Clean(ds, t, p.opts.Reference)
	if err != nil {
		return TableReport{}, fmt.Errorf("failed to clean %s: %w", src, err)
	}
	tr.Source = src
	tr.Output = dst

	if err := t.WriteCSV(dst); err != nil {
		return TableReport{}, err
	}

	p.log.Info().
		Str("table", ds.Name).
		Int("rows_read", tr.RowsRead).
		Int("duplicates_dropped", tr.DuplicatesDropped).
		Int("missing_dropped", tr.MissingDropped).
		Int("duplicate_keys_dropped", tr.DuplicateKeysDropped).
		Int("dates_coerced", tr.DatesCoerced).
		Int("rows_written", tr.RowsWritten).
		Str("output", dst).
		Msg("Prepared table")
	return tr, nil
}

// Clean applies the cleaning rules for ds to t in place: normalize
// column names, drop exact duplicates, drop rows missing required
// values, keep the first row per key, coerce dates, then derive fields.
func Clean(ds Dataset, t *table.Table, ref time.Time) (TableReport, error) {
	tr := TableReport{Table: ds.Name, RowsRead: t.Len()}

	t.NormalizeColumns()
	tr.DuplicatesDropped = t.DropDuplicates()

	dropped, err := t.DropMissing(ds.Required...)
	if err != nil {
		return tr, err
	}
	tr.MissingDropped = dropped

	dropped, err = t.DropDuplicateKeys(ds.Key)
	if err != nil {
		return tr, err
	}
	tr.DuplicateKeysDropped = dropped

	dates := make(map[string]*parsedColumn, len(ds.DateColumns))
	for _, col := range ds.DateColumns {
		parsed, coerced, err := parseDateColumn(t, col)
		if err != nil {
			return tr, err
		}
		if parsed != nil {
			dates[col] = parsed
		}
		tr.DatesCoerced += coerced
	}

	if ds.derive != nil {
		if err := ds.derive(t, dates, ref); err != nil {
			return tr, err
		}
	}

	tr.RowsWritten = t.Len()
	return tr, nil
}
