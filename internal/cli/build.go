//-------------------------------------------------------------------------
//
// Smart Store Warehouse
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package cli

import (
	"github.com/spf13/cobra"

	"github.com/LFoster03/smart-store-07/internal/logging"
	"github.com/LFoster03/smart-store-07/internal/pipeline"
	"github.com/LFoster03/smart-store-07/internal/warehouse"
)

var (
	buildEnforceForeignKeys bool
	buildBatchSize          int
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Create and load the warehouse from the prepared CSVs",
	Long: `Drop and recreate dim_customers, dim_products and fact_sales on the
selected target, load them from the prepared CSVs, create the fact table
indexes and record build metadata.

Every step runs even when an earlier one fails; the command exits
non-zero if any step failed. Only a connection failure stops the build.

Example:
  smart-store build
  smart-store build --target postgres --connection "postgres://etl@localhost/dw"
  smart-store build --target mysql --connection "etl:secret@tcp(localhost:3306)/dw"`,
	RunE: runBuild,
}

func init() {
	addBuildFlags(buildCmd)
}

func addBuildFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&buildEnforceForeignKeys, "enforce-foreign-keys", false,
		"check foreign keys while loading (sqlite, mysql)")
	cmd.Flags().IntVar(&buildBatchSize, "batch-size", 0,
		"rows per insert batch")
}

func applyBuildFlags(cmd *cobra.Command) error {
	if cmd.Flags().Changed("enforce-foreign-keys") {
		cfg.Warehouse.EnforceForeignKeys = buildEnforceForeignKeys
	}
	if buildBatchSize > 0 {
		cfg.Warehouse.BatchSize = buildBatchSize
	}
	return cfg.ValidateBuild()
}

func runBuild(cmd *cobra.Command, args []string) error {
	if err := applyBuildFlags(cmd); err != nil {
		return err
	}

	t, opts, err := pipeline.BuildOptions(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	report, err := warehouse.NewBuilder(t, opts).Build(ctx)
	if report != nil {
		printBuildReport(cmd.OutOrStdout(), report)
	}
	if err != nil {
		return err
	}

	logging.Info().
		Str("target", t.Name()).
		Str("dsn", redact(t.Name(), opts.DSN)).
		Msg("Warehouse ready")
	return nil
}
