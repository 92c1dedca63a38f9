//-------------------------------------------------------------------------
//
// Smart Store Warehouse
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package main is the entry point for smart-store.
package main

import (
	"fmt"
	"os"

	"github.com/LFoster03/smart-store-07/internal/cli"

	// Register warehouse targets
	_ "github.com/LFoster03/smart-store-07/internal/warehouse/mysql"
	_ "github.com/LFoster03/smart-store-07/internal/warehouse/postgres"
	_ "github.com/LFoster03/smart-store-07/internal/warehouse/sqlite"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
