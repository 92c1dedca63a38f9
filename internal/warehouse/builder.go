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
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/looplab/fsm"
	"github.com/rs/zerolog"

	"github.com/LFoster03/smart-store-07/internal/logging"
	"github.com/LFoster03/smart-store-07/internal/table"
)

// Build states.
const (
	StateNotStarted       = "not_started"
	StateTablesCreated    = "tables_created"
	StateDimensionsLoaded = "dimensions_loaded"
	StateFactsLoaded      = "facts_loaded"
	StateIndexed          = "indexed"
	StateDone             = "done"
)

// Build steps. The last five are also the state machine's events.
const (
	StepPrepareTarget  = "prepare_target"
	StepConnect        = "connect"
	StepCreateTables   = "create_tables"
	StepLoadDimensions = "load_dimensions"
	StepLoadFacts      = "load_facts"
	StepCreateIndexes  = "create_indexes"
	StepRecordMetadata = "record_metadata"
)

// BuildOptions configures a Builder.
type BuildOptions struct {
	// PreparedDir holds the cleaned CSV files.
	PreparedDir string

	// DSN is the database file (sqlite) or connection string.
	DSN string

	EnforceForeignKeys bool
	Batch              BatchConfig
}

// Builder runs one warehouse build against a target.
type Builder struct {
	target  Target
	opts    BuildOptions
	log     zerolog.Logger
	machine *fsm.FSM
	runID   string

	conn   Conn
	loaded map[string]int64
}

type buildStep struct {
	name string
	run  func(ctx context.Context) ([]LoadResult, error)
}

// NewBuilder creates a builder for target.
func NewBuilder(target Target, opts BuildOptions) *Builder {
	if opts.Batch.BatchSize < 1 {
		opts.Batch.BatchSize = DefaultBatchConfig().BatchSize
	}
	if opts.Batch.ProgressInterval < 1 {
		opts.Batch.ProgressInterval = DefaultBatchConfig().ProgressInterval
	}

	b := &Builder{
		target: target,
		opts:   opts,
		runID:  uuid.NewString(),
		loaded: make(map[string]int64),
	}
	b.log = logging.Stage("build").With().
		Str("target", target.Name()).
		Str("run_id", b.runID).
		Logger()

	b.machine = fsm.NewFSM(
		StateNotStarted,
		fsm.Events{
			{Name: StepCreateTables, Src: []string{StateNotStarted}, Dst: StateTablesCreated},
			{Name: StepLoadDimensions, Src: []string{StateTablesCreated}, Dst: StateDimensionsLoaded},
			{Name: StepLoadFacts, Src: []string{StateDimensionsLoaded}, Dst: StateFactsLoaded},
			{Name: StepCreateIndexes, Src: []string{StateFactsLoaded}, Dst: StateIndexed},
			{Name: StepRecordMetadata, Src: []string{StateIndexed}, Dst: StateDone},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				b.log.Debug().
					Str("from", e.Src).
					Str("to", e.Dst).
					Str("event", e.Event).
					Msg("Build state changed")
			},
		},
	)
	return b
}

// RunID identifies this build in logs and metadata.
func (b *Builder) RunID() string {
	return b.runID
}

// State returns the current build state.
func (b *Builder) State() string {
	return b.machine.Current()
}

// Build creates and loads the warehouse. Only a connection failure stops
// the build early; every other step runs even when an earlier one failed,
// and the returned error joins all step failures.
func (b *Builder) Build(ctx context.Context) (*BuildReport, error) {
	report := &BuildReport{
		RunID:     b.runID,
		Target:    b.target.Name(),
		StartedAt: time.Now().UTC(),
	}
	defer func() {
		report.FinalState = b.State()
		report.Duration = time.Since(report.StartedAt)
	}()

	b.log.Info().Msg("Starting warehouse build")

	prep := b.runStep(ctx, StepPrepareTarget, func(context.Context) ([]LoadResult, error) {
		return nil, b.target.Prepare(b.opts.DSN)
	})
	if prep.Err != nil {
		prep.Status = StatusWarning
	}
	report.Steps = append(report.Steps, prep)

	var conn Conn
	connect := b.runStep(ctx, StepConnect, func(ctx context.Context) ([]LoadResult, error) {
		var err error
		conn, err = b.target.Connect(ctx, b.opts.DSN, Options{EnforceForeignKeys: b.opts.EnforceForeignKeys})
		return nil, err
	})
	report.Steps = append(report.Steps, connect)
	if connect.Err != nil {
		return report, fmt.Errorf("failed to open %s warehouse: %w", b.target.Name(), connect.Err)
	}
	b.conn = conn
	defer func() {
		if err := conn.Close(); err != nil {
			b.log.Warn().Err(err).Msg("Failed to close warehouse connection")
		}
		b.conn = nil
	}()

	steps := []buildStep{
		{StepCreateTables, b.createTables},
		{StepLoadDimensions, func(ctx context.Context) ([]LoadResult, error) { return b.loadTables(ctx, Dimensions()) }},
		{StepLoadFacts, func(ctx context.Context) ([]LoadResult, error) { return b.loadTables(ctx, []*Table{FactSales}) }},
		{StepCreateIndexes, b.createIndexes},
		{StepRecordMetadata, b.recordMetadata},
	}
	for _, s := range steps {
		report.Steps = append(report.Steps, b.runStep(ctx, s.name, s.run))
		if err := b.machine.Event(context.WithoutCancel(ctx), s.name); err != nil {
			b.log.Error().Err(err).Str("event", s.name).Msg("Invalid build state transition")
		}
	}

	if err := report.Err(); err != nil {
		b.log.Error().Int("failed_steps", len(report.Failed())).Msg("Warehouse build finished with errors")
		return report, err
	}
	b.log.Info().Msg("Warehouse build complete")
	return report, nil
}

func (b *Builder) runStep(ctx context.Context, name string, run func(context.Context) ([]LoadResult, error)) StepResult {
	start := time.Now()
	tables, err := run(ctx)
	res := StepResult{
		Name:     name,
		Status:   StatusOK,
		Duration: time.Since(start),
		Tables:   tables,
		Err:      err,
	}
	if err != nil {
		res.Status = StatusFailed
		b.log.Error().Err(err).Str("step", name).Dur("duration", res.Duration).Msg("Build step failed")
	} else {
		b.log.Info().Str("step", name).Dur("duration", res.Duration).Msg("Build step complete")
	}
	return res
}

func (b *Builder) createTables(ctx context.Context) ([]LoadResult, error) {
	d := b.conn.Dialect()
	tables := Tables()

	for i := len(tables) - 1; i >= 0; i-- {
		if err := b.conn.Exec(ctx, d.DropTableSQL(tables[i])); err != nil {
			return nil, fmt.Errorf("failed to drop %s: %w", tables[i].Name, err)
		}
	}
	for _, t := range tables {
		if err := b.conn.Exec(ctx, d.CreateTableSQL(t)); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", t.Name, err)
		}
		b.log.Debug().Str("table", t.Name).Msg("Created table")
	}
	return nil, nil
}

func (b *Builder) loadTables(ctx context.Context, tables []*Table) ([]LoadResult, error) {
	var (
		results []LoadResult
		errs    []error
	)
	for _, t := range tables {
		res, err := b.loadTable(ctx, t)
		results = append(results, res)
		if err != nil {
			b.log.Error().Err(err).Str("table", t.Name).Msg("Table load failed")
			errs = append(errs, err)
		}
	}
	return results, errors.Join(errs...)
}

func (b *Builder) loadTable(ctx context.Context, t *Table) (LoadResult, error) {
	path := filepath.Join(b.opts.PreparedDir, t.Source)
	src, err := table.ReadCSV(path)
	if err != nil {
		return LoadResult{Table: t.Name}, err
	}

	if pk := t.PrimaryKey(); pk >= 0 && !hasColumn(src, t.Columns[pk].Name) {
		return LoadResult{Table: t.Name, Read: int64(src.Len()), Rejected: int64(src.Len())},
			fmt.Errorf("prepared file %s has no %s key column", path, t.Columns[pk].Name)
	}

	if missing := MissingColumns(t, src); len(missing) > 0 {
		b.log.Warn().Str("table", t.Name).Strs("columns", missing).Msg("Prepared file lacks columns, loading NULL")
	}

	rows, res := BuildRows(t, src)
	if res.Rejected > 0 {
		b.log.Warn().Str("table", t.Name).Int64("rejected", res.Rejected).Msg("Rejected rows without a usable key")
	}
	if res.Nulled > 0 {
		b.log.Warn().Str("table", t.Name).Int64("values", res.Nulled).Msg("Unconvertible values loaded as NULL")
	}

	progress := NewProgressReporter(b.log, t.Name, int64(len(rows)), b.opts.Batch.ProgressInterval)
	n, err := b.conn.Load(ctx, t, rows, b.opts.Batch.BatchSize, progress.Update)
	if err != nil {
		return res, fmt.Errorf("failed to load %s: %w", t.Name, err)
	}
	res.Loaded = n
	b.loaded[t.Name] = n
	progress.Done()
	return res, nil
}

func (b *Builder) createIndexes(ctx context.Context) ([]LoadResult, error) {
	var errs []error
	for _, idx := range FactIndexes {
		if err := b.conn.Exec(ctx, b.conn.Dialect().CreateIndexSQL(idx)); err != nil {
			errs = append(errs, fmt.Errorf("failed to create index %s: %w", idx.Name, err))
			continue
		}
		b.log.Debug().Str("index", idx.Name).Msg("Created index")
	}
	return nil, errors.Join(errs...)
}

func (b *Builder) recordMetadata(ctx context.Context) ([]LoadResult, error) {
	return nil, SaveMetadata(ctx, b.conn, b.runID, b.target.Name(), time.Now(), b.loaded)
}
