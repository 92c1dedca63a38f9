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
	"github.com/LFoster03/smart-store-07/internal/prepare"
)

var prepareReferenceDate string

var prepareCmd = &cobra.Command{
	Use:   "prepare",
	Short: "Clean the raw CSV extracts into prepared CSVs",
	Long: `Read customers_data.csv, products_data.csv and sales_data.csv from the
raw directory, normalize column names, drop duplicate and incomplete rows,
parse dates, derive age, age group and sale period fields, and write
cleaned_*.csv plus prepare_report.yaml to the prepared directory.

Example:
  smart-store prepare --root /srv/smart-store --reference-date 2024-06-14`,
	RunE: runPrepare,
}

func init() {
	prepareCmd.Flags().StringVar(&prepareReferenceDate, "reference-date", "",
		"date ages are computed against (YYYY-MM-DD, default: today)")
}

func applyPrepareFlags() error {
	if prepareReferenceDate != "" {
		cfg.Prepare.ReferenceDate = prepareReferenceDate
	}
	return cfg.ValidatePrepare()
}

func runPrepare(cmd *cobra.Command, args []string) error {
	if err := applyPrepareFlags(); err != nil {
		return err
	}

	opts, err := pipeline.PrepareOptions(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	report, err := prepare.New(opts).Run(ctx)
	if err != nil {
		return err
	}

	printPrepareReport(cmd.OutOrStdout(), report)
	return nil
}
