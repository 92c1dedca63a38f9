//-------------------------------------------------------------------------
//
// Smart Store Warehouse
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package cli implements the command-line interface for smart-store.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/LFoster03/smart-store-07/internal/config"
	"github.com/LFoster03/smart-store-07/internal/logging"
	"github.com/LFoster03/smart-store-07/pkg/version"
)

var (
	// Global flags
	cfgFile    string
	root       string
	logLevel   string
	logFormat  string
	target     string
	connection string
	noColor    bool

	// Global config
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "smart-store",
		Short: "Build the smart store sales warehouse from raw CSV extracts",
		Long: `smart-store cleans raw customer, product and sales CSV extracts and
loads them into a star-schema warehouse (dim_customers, dim_products,
fact_sales) on SQLite, PostgreSQL or MySQL.

Data flows one way under the project root:
  data/raw       -> customers_data.csv, products_data.csv, sales_data.csv
  data/prepared  -> cleaned_*.csv and prepare_report.yaml
  data/dw        -> smart_store.db (sqlite target)`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./smart-store.yaml)")
	rootCmd.PersistentFlags().StringVar(&root, "root", "",
		"project root the data directories are resolved against")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"log format (console, json)")
	rootCmd.PersistentFlags().StringVar(&target, "target", "",
		"warehouse target (sqlite, postgres, mysql)")
	rootCmd.PersistentFlags().StringVar(&connection, "connection", "",
		"connection string for server targets")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false,
		"disable colored summaries")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(prepareCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(targetsCmd)
}

func initConfig() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	// Override with CLI flags
	if root != "" {
		cfg.Root = root
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if logFormat != "" {
		cfg.LogFormat = logFormat
	}
	if target != "" {
		cfg.Warehouse.Target = target
	}
	if connection != "" {
		cfg.Warehouse.Connection = connection
	}

	pretty, err := logging.ParseFormat(cfg.LogFormat)
	if err != nil {
		return err
	}

	// Reinitialize logger with config
	logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Pretty: pretty,
	})

	return nil
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigChan:
			logging.Info().
				Str("signal", sig.String()).
				Msg("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan)
		cancel()
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(version.Info())
	},
}
