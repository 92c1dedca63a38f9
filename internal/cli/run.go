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

	"github.com/LFoster03/smart-store-07/internal/pipeline"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Prepare the raw extracts and build the warehouse",
	Long: `Run prepare followed by build in one process. A prepare failure
skips the build.

Example:
  smart-store run --reference-date 2024-06-14`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&prepareReferenceDate, "reference-date", "",
		"date ages are computed against (YYYY-MM-DD, default: today)")
	addBuildFlags(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	if err := applyPrepareFlags(); err != nil {
		return err
	}
	if err := applyBuildFlags(cmd); err != nil {
		return err
	}

	opts, err := pipeline.FromConfig(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	res, err := pipeline.Run(ctx, opts)
	if res != nil {
		if res.Prepare != nil {
			printPrepareReport(cmd.OutOrStdout(), res.Prepare)
		}
		if res.Build != nil {
			printBuildReport(cmd.OutOrStdout(), res.Build)
		}
	}
	return err
}
