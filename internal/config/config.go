//-------------------------------------------------------------------------
//
// SuperMart ETL
//
// Copyright (c) 2025 - 2026, EAN TechRetail Solutions
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package config handles configuration management for supermart-etl.
// Configuration is loaded from config files and CLI flags (no environment
// variables). CLI flags take precedence over config file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all configuration for supermart-etl.
type Config struct {
	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`

	// Inputs holds the input file locations.
	Inputs InputConfig `mapstructure:"inputs"`

	// Output holds the output directory configuration.
	Output OutputConfig `mapstructure:"output"`

	// Warehouse holds the optional PostgreSQL sink configuration.
	Warehouse WarehouseConfig `mapstructure:"warehouse"`

	// Init holds configuration for the init subcommand.
	Init InitConfig `mapstructure:"init"`
}

// InputConfig holds the input source locations.
type InputConfig struct {
	// Dir is the directory containing the input files.
	Dir string `mapstructure:"dir"`

	// Transactions is the raw sales file name.
	Transactions string `mapstructure:"transactions"`

	// Products is the product catalog file name.
	Products string `mapstructure:"products"`

	// Stores is the store catalog file name.
	Stores string `mapstructure:"stores"`
}

// OutputConfig holds output artifact configuration.
type OutputConfig struct {
	// Dir is the directory where all artifacts are written.
	Dir string `mapstructure:"dir"`
}

// WarehouseConfig holds the optional PostgreSQL warehouse sink.
type WarehouseConfig struct {
	// Connection is the PostgreSQL connection string. Empty disables the sink.
	Connection string `mapstructure:"connection"`
}

// InitConfig holds configuration for sample data generation.
type InitConfig struct {
	// Rows is the number of raw transaction rows to generate.
	Rows int `mapstructure:"rows"`

	// Products is the number of catalog products to generate.
	Products int `mapstructure:"products"`

	// Stores is the number of catalog stores to generate.
	Stores int `mapstructure:"stores"`

	// Seed makes generation reproducible when non-zero.
	Seed uint64 `mapstructure:"seed"`

	// DuplicateRate is the fraction of rows repeated with an existing order id.
	DuplicateRate float64 `mapstructure:"duplicate_rate"`

	// MissingCustomerRate is the fraction of rows with an empty customer id.
	MissingCustomerRate float64 `mapstructure:"missing_customer_rate"`

	// BadDateRate is the fraction of rows with an unparseable date.
	BadDateRate float64 `mapstructure:"bad_date_rate"`

	// OrphanRate is the fraction of rows referencing a product or store
	// that does not exist in the catalogs.
	OrphanRate float64 `mapstructure:"orphan_rate"`
}

// DefaultConfig returns a Config with default values.
// The defaults reproduce the fixed paths of the original batch job:
// input CSVs in the working directory, artifacts under ./salida.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Inputs: InputConfig{
			Dir:          ".",
			Transactions: "ventas_crudas.csv",
			Products:     "productos.csv",
			Stores:       "tiendas.csv",
		},
		Output: OutputConfig{
			Dir: "salida",
		},
		Init: InitConfig{
			Rows:                500,
			Products:            40,
			Stores:              12,
			DuplicateRate:       0.04,
			MissingCustomerRate: 0.06,
			BadDateRate:         0.03,
			OrphanRate:          0.05,
		},
	}
}

// Load reads configuration from config files.
// Config file locations (in order of precedence):
// 1. Path specified by configFile parameter
// 2. ./supermart-etl.yaml
// 3. ~/.config/supermart-etl/config.yaml
func Load(configFile string) (*Config, error) {
	v := viper.New()

	// Set config name and type
	v.SetConfigName("supermart-etl")
	v.SetConfigType("yaml")

	// Add config paths
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "supermart-etl"))
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

// TransactionsPath returns the full path to the raw sales file.
func (c *Config) TransactionsPath() string {
	return filepath.Join(c.Inputs.Dir, c.Inputs.Transactions)
}

// ProductsPath returns the full path to the product catalog file.
func (c *Config) ProductsPath() string {
	return filepath.Join(c.Inputs.Dir, c.Inputs.Products)
}

// StoresPath returns the full path to the store catalog file.
func (c *Config) StoresPath() string {
	return filepath.Join(c.Inputs.Dir, c.Inputs.Stores)
}

// ValidateRun checks configuration required for the run command.
func (c *Config) ValidateRun() error {
	if c.Inputs.Dir == "" {
		return fmt.Errorf("input directory is required")
	}
	if c.Inputs.Transactions == "" || c.Inputs.Products == "" || c.Inputs.Stores == "" {
		return fmt.Errorf("all three input file names are required")
	}
	if c.Output.Dir == "" {
		return fmt.Errorf("output directory is required")
	}
	return nil
}

// ValidateInit checks configuration required for the init command.
func (c *Config) ValidateInit() error {
	if c.Inputs.Dir == "" {
		return fmt.Errorf("input directory is required")
	}
	if c.Init.Rows < 1 {
		return fmt.Errorf("rows must be at least 1")
	}
	if c.Init.Products < 1 {
		return fmt.Errorf("products must be at least 1")
	}
	if c.Init.Stores < 1 {
		return fmt.Errorf("stores must be at least 1")
	}
	for _, r := range []struct {
		name  string
		value float64
	}{
		{"duplicate_rate", c.Init.DuplicateRate},
		{"missing_customer_rate", c.Init.MissingCustomerRate},
		{"bad_date_rate", c.Init.BadDateRate},
		{"orphan_rate", c.Init.OrphanRate},
	} {
		if r.value < 0 || r.value > 1 {
			return fmt.Errorf("%s must be between 0 and 1", r.name)
		}
	}
	return nil
}
