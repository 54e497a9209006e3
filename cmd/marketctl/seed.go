package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/javajoker/geomarket/internal/database"
)

var (
	seedFile    string
	seedMigrate bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load merchants, stocks and products from a YAML fixture",
	Long: `Load a catalog fixture into the database. Without --file the embedded
demo fixture is used. Rows that already exist are left untouched, so the
command can be re-run.`,
	Example: `  marketctl seed
  marketctl seed --file ./fixtures/moscow.yaml --migrate`,
	Args: cobra.NoArgs,
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().StringVar(&seedFile, "file", "", "Path to a YAML fixture (default: embedded demo data)")
	seedCmd.Flags().BoolVar(&seedMigrate, "migrate", false, "Run migrations before seeding")
}

func runSeed(cmd *cobra.Command, args []string) error {
	if seedMigrate {
		if err := database.RunMigrations(db); err != nil {
			return err
		}
	}

	var src io.Reader = database.DemoSeed()
	if seedFile != "" {
		f, err := os.Open(seedFile)
		if err != nil {
			return fmt.Errorf("failed to open fixture: %w", err)
		}
		defer f.Close()
		src = f
	}

	stats, err := database.Seed(db, src)
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"file":      seedFile,
		"products":  stats.Products,
		"merchants": stats.Merchants,
		"stocks":    stats.Stocks,
		"lines":     stats.Lines,
	}).Info("Seed completed")
	return nil
}
