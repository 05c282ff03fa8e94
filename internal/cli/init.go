package cli

import (
	"github.com/spf13/cobra"

	"github.com/eantechretail/supermart-etl/internal/datagen"
	"github.com/eantechretail/supermart-etl/internal/logging"
)

var (
	initRows     int
	initSeed     uint64
	initInputDir string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate sample input files for the pipeline",
	Long: `Generate a realistic set of input files: the raw sales file plus the
product and store catalogs. The generated sales deliberately include
duplicate order ids, missing customer ids, unparseable dates, both accepted
date layouts, and references to products and stores missing from the
catalogs, so a generated dataset exercises every pipeline path.

Example:
  supermart-etl init --rows 1000
  supermart-etl init --rows 1000 --seed 42 --input-dir ./datos`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().IntVar(&initRows, "rows", 0,
		"number of raw sales rows to generate")
	initCmd.Flags().Uint64Var(&initSeed, "seed", 0,
		"random seed for reproducible data (0 = random)")
	initCmd.Flags().StringVar(&initInputDir, "input-dir", "",
		"directory to write the input files to (default: current directory)")
}

func runInit(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if initRows > 0 {
		cfg.Init.Rows = initRows
	}
	if initSeed > 0 {
		cfg.Init.Seed = initSeed
	}
	if initInputDir != "" {
		cfg.Inputs.Dir = initInputDir
	}

	// Validate configuration
	if err := cfg.ValidateInit(); err != nil {
		return err
	}

	gen := datagen.NewGenerator()
	if cfg.Init.Seed > 0 {
		gen = datagen.NewGeneratorWithSeed(cfg.Init.Seed)
	}

	logging.Info().
		Int("rows", cfg.Init.Rows).
		Str("dir", cfg.Inputs.Dir).
		Msg("Generating sample data")

	return gen.WriteAll(datagen.Config{
		Dir:                 cfg.Inputs.Dir,
		TransactionsFile:    cfg.Inputs.Transactions,
		ProductsFile:        cfg.Inputs.Products,
		StoresFile:          cfg.Inputs.Stores,
		Rows:                cfg.Init.Rows,
		Products:            cfg.Init.Products,
		Stores:              cfg.Init.Stores,
		DuplicateRate:       cfg.Init.DuplicateRate,
		MissingCustomerRate: cfg.Init.MissingCustomerRate,
		BadDateRate:         cfg.Init.BadDateRate,
		OrphanRate:          cfg.Init.OrphanRate,
	})
}
