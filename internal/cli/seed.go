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

	"github.com/LFoster03/smart-store-07/internal/datagen"
)

var (
	seedCustomers     int
	seedProducts      int
	seedSales         int
	seedDuplicateRate float64
	seedMissingRate   float64
	seedBadDateRate   float64
	seedSeed          uint64
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Generate synthetic raw CSV extracts",
	Long: `Write customers_data.csv, products_data.csv and sales_data.csv to the
raw directory, including a configurable share of duplicate rows, rows
without identifiers and unparseable dates. Existing files are replaced.

Example:
  smart-store seed --customers 500 --sales 10000 --seed 42`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().IntVar(&seedCustomers, "customers", 0,
		"number of unique customers")
	seedCmd.Flags().IntVar(&seedProducts, "products", 0,
		"number of unique products")
	seedCmd.Flags().IntVar(&seedSales, "sales", 0,
		"number of unique sales transactions")
	seedCmd.Flags().Float64Var(&seedDuplicateRate, "duplicate-rate", -1,
		"fraction of rows repeated as exact duplicates")
	seedCmd.Flags().Float64Var(&seedMissingRate, "missing-rate", -1,
		"fraction of rows repeated without their identifier")
	seedCmd.Flags().Float64Var(&seedBadDateRate, "bad-date-rate", -1,
		"fraction of date cells replaced with garbage")
	seedCmd.Flags().Uint64Var(&seedSeed, "seed", 0,
		"random seed for reproducible output (0 = random)")
}

func runSeed(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if seedCustomers > 0 {
		cfg.Seed.Customers = seedCustomers
	}
	if seedProducts > 0 {
		cfg.Seed.Products = seedProducts
	}
	if seedSales > 0 {
		cfg.Seed.Sales = seedSales
	}
	if seedDuplicateRate >= 0 {
		cfg.Seed.DuplicateRate = seedDuplicateRate
	}
	if seedMissingRate >= 0 {
		cfg.Seed.MissingRate = seedMissingRate
	}
	if seedBadDateRate >= 0 {
		cfg.Seed.BadDateRate = seedBadDateRate
	}
	if seedSeed > 0 {
		cfg.Seed.Seed = seedSeed
	}

	if err := cfg.ValidateSeed(); err != nil {
		return err
	}

	gen := datagen.NewRawGenerator(datagen.RawOptions{
		Customers:     cfg.Seed.Customers,
		Products:      cfg.Seed.Products,
		Sales:         cfg.Seed.Sales,
		DuplicateRate: cfg.Seed.DuplicateRate,
		MissingRate:   cfg.Seed.MissingRate,
		BadDateRate:   cfg.Seed.BadDateRate,
		Seed:          cfg.Seed.Seed,
	})

	summaries, err := gen.WriteAll(cfg.RawDir())
	if err != nil {
		return err
	}

	printSeedSummary(cmd.OutOrStdout(), cfg.RawDir(), summaries)
	return nil
}
