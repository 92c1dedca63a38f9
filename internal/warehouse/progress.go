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
	"github.com/rs/zerolog"
)

// BatchConfig configures batched loading.
type BatchConfig struct {
	// BatchSize is the number of rows per insert batch.
	BatchSize int

	// ProgressInterval is how often to log progress (in rows).
	ProgressInterval int64
}

// DefaultBatchConfig returns default batch configuration.
func DefaultBatchConfig() BatchConfig {
	return BatchConfig{
		BatchSize:        500,
		ProgressInterval: 10000,
	}
}

// ProgressReporter tracks and logs load progress for one table.
type ProgressReporter struct {
	log              zerolog.Logger
	tableName        string
	totalRows        int64
	currentRow       int64
	progressInterval int64
}

// NewProgressReporter creates a progress reporter.
func NewProgressReporter(log zerolog.Logger, tableName string, totalRows, interval int64) *ProgressReporter {
	if interval < 1 {
		interval = DefaultBatchConfig().ProgressInterval
	}
	return &ProgressReporter{
		log:              log,
		tableName:        tableName,
		totalRows:        totalRows,
		progressInterval: interval,
	}
}

// Update records inserted rows and logs when an interval is crossed.
func (p *ProgressReporter) Update(rowsInserted int64) {
	oldRow := p.currentRow
	p.currentRow += rowsInserted

	if p.currentRow/p.progressInterval > oldRow/p.progressInterval {
		pct := 100.0
		if p.totalRows > 0 {
			pct = float64(p.currentRow) / float64(p.totalRows) * 100
		}
		p.log.Info().
			Str("table", p.tableName).
			Int64("rows", p.currentRow).
			Int64("total", p.totalRows).
			Float64("percent", pct).
			Msg("Loading rows")
	}
}

// Rows returns the rows reported so far.
func (p *ProgressReporter) Rows() int64 {
	return p.currentRow
}

// Done logs completion.
func (p *ProgressReporter) Done() {
	p.log.Info().
		Str("table", p.tableName).
		Int64("rows", p.currentRow).
		Msg("Table loaded")
}
