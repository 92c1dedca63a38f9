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
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/LFoster03/smart-store-07/internal/logging"
	"github.com/LFoster03/smart-store-07/internal/prepare"
	"github.com/LFoster03/smart-store-07/internal/warehouse"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show warehouse row counts and build metadata",
	Long: `Open an existing warehouse read-only and report the row counts of
dim_customers, dim_products and fact_sales together with the metadata
recorded by the last build. The last prepare report is shown when present.`,
	RunE: runInspect,
}

func runInspect(cmd *cobra.Command, args []string) error {
	if err := cfg.ValidateBuild(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	reportPath := filepath.Join(cfg.PreparedDir(), prepare.ReportFile)
	report, err := prepare.ReadReport(reportPath)
	switch {
	case err == nil:
		printPrepareReport(out, report)
	case errors.Is(err, fs.ErrNotExist):
		logging.Debug().Str("path", reportPath).Msg("No prepare report found")
	default:
		logging.Warn().Err(err).Str("path", reportPath).Msg("Failed to read prepare report")
	}

	t, err := warehouse.Get(cfg.Warehouse.Target)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	dsn := cfg.WarehouseDSN()
	conn, err := t.Connect(ctx, dsn, warehouse.Options{ReadOnly: true})
	if err != nil {
		return fmt.Errorf("failed to open %s warehouse %s: %w", t.Name(), redact(t.Name(), dsn), err)
	}
	defer conn.Close()

	counts, err := warehouse.CountRows(ctx, conn)
	if err != nil {
		return fmt.Errorf("warehouse has not been built; run 'smart-store build' first: %w", err)
	}

	meta, err := warehouse.GetAllMetadata(ctx, conn)
	if err != nil {
		logging.Warn().Err(err).Msg("Failed to read build metadata")
	}

	printInspection(out, counts, meta)
	return nil
}

// redact hides the password of a server connection string.
func redact(target, dsn string) string {
	if target == "sqlite" {
		return dsn
	}
	at := strings.LastIndex(dsn, "@")
	if at < 0 {
		return dsn
	}
	creds := dsn[:at]
	if i := strings.LastIndex(creds, ":"); i >= 0 && !strings.HasPrefix(creds[i:], "://") {
		return creds[:i] + ":****" + dsn[at:]
	}
	return dsn
}
