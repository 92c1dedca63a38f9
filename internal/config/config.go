//-------------------------------------------------------------------------
//
// Smart Store Warehouse
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package config handles configuration management for smart-store.
// Configuration is loaded from config files and CLI flags (no environment variables).
// CLI flags take precedence over config file values.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// ReferenceDateLayout is the layout of prepare.reference_date.
const ReferenceDateLayout = "2006-01-02"

// Config holds all configuration for smart-store.
type Config struct {
	// Root is the project root; relative paths below are resolved against it.
	Root string `mapstructure:"root"`

	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`

	// LogFormat selects console (default) or json log output.
	LogFormat string `mapstructure:"log_format"`

	// Paths holds the raw / prepared / warehouse directory layout.
	Paths PathsConfig `mapstructure:"paths"`

	// Prepare holds configuration for the prepare stage.
	Prepare PrepareConfig `mapstructure:"prepare"`

	// Warehouse holds configuration for the build stage.
	Warehouse WarehouseConfig `mapstructure:"warehouse"`

	// Seed holds configuration for the synthetic raw data generator.
	Seed SeedConfig `mapstructure:"seed"`
}

// PathsConfig describes the data directory layout under the project root.
type PathsConfig struct {
	RawDir       string `mapstructure:"raw_dir" validate:"required"`
	PreparedDir  string `mapstructure:"prepared_dir" validate:"required"`
	WarehouseDir string `mapstructure:"warehouse_dir" validate:"required"`
}

// PrepareConfig holds configuration for the cleaning stage.
type PrepareConfig struct {
	// ReferenceDate pins "today" for age derivation (YYYY-MM-DD).
	// Empty means the current date.
	ReferenceDate string `mapstructure:"reference_date" validate:"omitempty,datetime=2006-01-02"`
}

// WarehouseConfig holds configuration for the warehouse build.
type WarehouseConfig struct {
	// Target selects the warehouse backend: sqlite, postgres or mysql.
	Target string `mapstructure:"target" validate:"required,oneof=sqlite postgres mysql"`

	// DatabaseFile is the SQLite file name inside the warehouse directory.
	DatabaseFile string `mapstructure:"database_file" validate:"required_if=Target sqlite"`

	// Connection is the connection string for server targets.
	Connection string `mapstructure:"connection" validate:"required_unless=Target sqlite"`

	// EnforceForeignKeys turns on foreign key checking during load where
	// the target allows it to be switched (sqlite, mysql).
	EnforceForeignKeys bool `mapstructure:"enforce_foreign_keys"`

	// BatchSize is the number of rows per insert batch.
	BatchSize int `mapstructure:"batch_size" validate:"min=1"`
}

// SeedConfig holds configuration for synthetic raw data generation.
type SeedConfig struct {
	Customers int `mapstructure:"customers" validate:"min=1"`
	Products  int `mapstructure:"products" validate:"min=1"`
	Sales     int `mapstructure:"sales" validate:"min=0"`

	// DuplicateRate is the fraction of rows re-emitted as exact duplicates.
	DuplicateRate float64 `mapstructure:"duplicate_rate" validate:"gte=0,lte=1"`

	// MissingRate is the fraction of rows emitted without their identifier.
	MissingRate float64 `mapstructure:"missing_rate" validate:"gte=0,lte=1"`

	// BadDateRate is the fraction of date cells replaced with garbage.
	BadDateRate float64 `mapstructure:"bad_date_rate" validate:"gte=0,lte=1"`

	// Seed makes generation reproducible; 0 picks a random seed.
	Seed uint64 `mapstructure:"seed"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Root:      ".",
		LogLevel:  "info",
		LogFormat: "console",
		Paths: PathsConfig{
			RawDir:       filepath.Join("data", "raw"),
			PreparedDir:  filepath.Join("data", "prepared"),
			WarehouseDir: filepath.Join("data", "dw"),
		},
		Warehouse: WarehouseConfig{
			Target:       "sqlite",
			DatabaseFile: "smart_store.db",
			BatchSize:    500,
		},
		Seed: SeedConfig{
			Customers:     200,
			Products:      50,
			Sales:         2000,
			DuplicateRate: 0.02,
			MissingRate:   0.01,
			BadDateRate:   0.01,
		},
	}
}

// Load reads configuration from config files.
// Config file locations (in order of precedence):
// 1. Path specified by configFile parameter
// 2. ./smart-store.yaml
// 3. ~/.config/smart-store/config.yaml
func Load(configFile string) (*Config, error) {
	v := viper.New()

	// Set config name and type
	v.SetConfigName("smart-store")
	v.SetConfigType("yaml")

	// Add config paths
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "smart-store"))
	}

	// Use specific config file if provided
	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Start with defaults
	cfg := DefaultConfig()

	// Unmarshal config file values
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their config file key rather than the Go name.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// checkStruct runs tag validation on one config section and flattens the
// result into a single error keyed by config file names.
func checkStruct(section string, s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Namespace()
		if i := strings.IndexByte(field, '.'); i >= 0 {
			field = field[i+1:]
		}
		field = section + "." + field
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s=%s", field, fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s", field, fe.Tag()))
		}
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

// Validate checks the settings every command needs.
func (c *Config) Validate() error {
	if c.Root == "" {
		return fmt.Errorf("project root is required")
	}
	if err := validate.Var(c.LogLevel, "omitempty,oneof=trace debug info warn error"); err != nil {
		return fmt.Errorf("invalid configuration: log_level %q is not one of trace, debug, info, warn, error", c.LogLevel)
	}
	if err := validate.Var(c.LogFormat, "omitempty,oneof=console json"); err != nil {
		return fmt.Errorf("invalid configuration: log_format %q is not one of console, json", c.LogFormat)
	}
	return checkStruct("paths", c.Paths)
}

// ValidatePrepare checks configuration required for the prepare command.
func (c *Config) ValidatePrepare() error {
	if err := c.Validate(); err != nil {
		return err
	}
	return checkStruct("prepare", c.Prepare)
}

// ValidateBuild checks configuration required for the build command.
func (c *Config) ValidateBuild() error {
	if err := c.Validate(); err != nil {
		return err
	}
	return checkStruct("warehouse", c.Warehouse)
}

// ValidateSeed checks configuration required for the seed command.
func (c *Config) ValidateSeed() error {
	if err := c.Validate(); err != nil {
		return err
	}
	return checkStruct("seed", c.Seed)
}

// resolve joins p onto the project root unless p is already absolute.
func (c *Config) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Root, p)
}

// RawDir returns the resolved raw input directory.
func (c *Config) RawDir() string {
	return c.resolve(c.Paths.RawDir)
}

// PreparedDir returns the resolved prepared output directory.
func (c *Config) PreparedDir() string {
	return c.resolve(c.Paths.PreparedDir)
}

// WarehouseDir returns the resolved warehouse directory.
func (c *Config) WarehouseDir() string {
	return c.resolve(c.Paths.WarehouseDir)
}

// WarehouseDSN returns what the selected target connects to: the database
// file path for sqlite, the connection string otherwise.
func (c *Config) WarehouseDSN() string {
	if c.Warehouse.Target == "sqlite" {
		return filepath.Join(c.WarehouseDir(), c.Warehouse.DatabaseFile)
	}
	return c.Warehouse.Connection
}

// ReferenceTime returns the date ages are computed against.
func (c *Config) ReferenceTime() (time.Time, error) {
	if c.Prepare.ReferenceDate == "" {
		return time.Now(), nil
	}
	t, err := time.Parse(ReferenceDateLayout, c.Prepare.ReferenceDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid reference_date %q: %w", c.Prepare.ReferenceDate, err)
	}
	return t, nil
}
