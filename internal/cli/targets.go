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

	"github.com/LFoster03/smart-store-07/internal/warehouse"
)

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "List available warehouse targets",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		table := newTable(out, "Target", "Description")
		for _, t := range warehouse.All() {
			name := t.Name()
			if cfg != nil && name == cfg.Warehouse.Target {
				name += " *"
			}
			table.Append([]string{name, t.Description()})
		}
		table.Render()
		cmd.Println()
		cmd.Println("* selected by the current configuration")
	},
}
