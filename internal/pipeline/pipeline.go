//-------------------------------------------------------------------------
//
// Smart Store Warehouse
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package pipeline runs the prepare and build stages in one process.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/LFoster03/smart-store-07/internal/config"
	"github.com/LFoster03/smart-store-07/internal/logging"
	"github.com/LFoster03/smart-store-07/internal/prepare"
	"github.com/LFoster03/smart-store-07/internal/warehouse"
)

// Options configures a full run.
type Options struct {
	Prepare prepare.Options
	Target  warehouse.Target
	Build   warehouse.BuildOptions
}

// Result holds the reports of the stages that ran.
type Result struct {
	Prepare  *prepare.Report
	Build    *warehouse.BuildReport
	Duration time.Duration
}

// PrepareOptions derives preparer options from cfg.
func PrepareOptions(cfg *config.Config) (prepare.Options, error) {
	ref, err := cfg.ReferenceTime()
	if err != nil {
		return prepare.Options{}, err
	}
	return prepare.Options{
		RawDir:      cfg.RawDir(),
		PreparedDir: cfg.PreparedDir(),
		Reference:   ref,
	}, nil
}

// BuildOptions derives the target and builder options from cfg.
func BuildOptions(cfg *config.Config) (warehouse.Target, warehouse.BuildOptions, error) {
	target, err := warehouse.Get(cfg.Warehouse.Target)
	if err != nil {
		return nil, warehouse.BuildOptions{}, err
	}
	batch := warehouse.DefaultBatchConfig()
	if cfg.Warehouse.BatchSize > 0 {
		batch.BatchSize = cfg.Warehouse.BatchSize
	}
	return target, warehouse.BuildOptions{
		PreparedDir:        cfg.PreparedDir(),
		DSN:                cfg.WarehouseDSN(),
		EnforceForeignKeys: cfg.Warehouse.EnforceForeignKeys,
		Batch:              batch,
	}, nil
}

// FromConfig derives the options of a full run from cfg.
func FromConfig(cfg *config.Config) (Options, error) {
	prep, err := PrepareOptions(cfg)
	if err != nil {
		return Options{}, err
	}
	target, build, err := BuildOptions(cfg)
	if err != nil {
		return Options{}, err
	}
	return Options{Prepare: prep, Target: target, Build: build}, nil
}

// Run prepares the raw extracts and then builds the warehouse from them.
// A prepare failure skips the build.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Target == nil {
		return nil, fmt.Errorf("no warehouse target selected")
	}
	start := time.Now()
	res := &Result{}
	defer func() { res.Duration = time.Since(start) }()

	logging.Info().
		Str("raw_dir", opts.Prepare.RawDir).
		Str("prepared_dir", opts.Prepare.PreparedDir).
		Str("target", opts.Target.Name()).
		Msg("Starting pipeline")

	report, err := prepare.New(opts.Prepare).Run(ctx)
	if err != nil {
		return res, fmt.Errorf("prepare failed: %w", err)
	}
	res.Prepare = report

	if err := ctx.Err(); err != nil {
		return res, err
	}

	build, err := warehouse.NewBuilder(opts.Target, opts.Build).Build(ctx)
	res.Build = build
	if err != nil {
		return res, fmt.Errorf("build failed: %w", err)
	}

	logging.Info().Msg("Pipeline complete")
	return res, nil
}
