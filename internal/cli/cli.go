//-------------------------------------------------------------------------
//
// SuperMart ETL
//
// Copyright (c) 2025 - 2026, EAN TechRetail Solutions
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package cli implements the command-line interface for supermart-etl.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/eantechretail/supermart-etl/internal/config"
	"github.com/eantechretail/supermart-etl/internal/logging"
	"github.com/eantechretail/supermart-etl/pkg/version"
)

var (
	// Global flags
	cfgFile  string
	logLevel string

	// Global config
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "supermart-etl",
		Short: "Batch ETL pipeline for SuperMart Colombia sales data",
		Long: `supermart-etl is a batch pipeline that ingests the raw SuperMart
sales file plus the product and store catalogs, cleans and enriches the
transactions, and produces the transformed dataset, the aggregated sales
mart, headline metrics, charts, and a text report.

The pipeline is a single sequential pass: sources that fail to load are
reported and replaced with empty tables rather than aborting the batch.`,
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
		"config file (default: ./supermart-etl.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error)")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(sourcesCmd)
}

func initConfig() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	// Override with CLI flags
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	// Reinitialize logger with config
	logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})

	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(version.Info())
	},
}

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List the expected input files and their schemas",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println("Expected input files (CSV, UTF-8, header row required):")
		cmd.Println()
		cmd.Println("  ventas_crudas.csv - raw sales lines")
		cmd.Println("    order_id, producto_id, cantidad, precio_unitario,")
		cmd.Println("    cliente_id, tienda_id, fecha")
		cmd.Println()
		cmd.Println("  productos.csv - product catalog")
		cmd.Println("    producto_id (key), categoria, plus descriptive columns")
		cmd.Println()
		cmd.Println("  tiendas.csv - store catalog")
		cmd.Println("    tienda_id (key), ciudad, region, plus descriptive columns")
		cmd.Println()
		cmd.Println("Dates accept YYYY-MM-DD or DD-MM-YYYY; anything else is kept")
		cmd.Println("as an invalid date and counted in the quality report.")
	},
}
