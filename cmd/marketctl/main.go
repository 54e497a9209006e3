package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/javajoker/geomarket/internal/config"
	"github.com/javajoker/geomarket/internal/database"
	"github.com/javajoker/geomarket/internal/logging"
)

var (
	cfg *config.Config
	db  *gorm.DB
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "marketctl",
	Short: "Operational tooling for the geomarket backend",
	Long: `marketctl runs maintenance tasks against the geomarket database:
schema migrations and loading catalog fixtures.

Connection settings come from the same environment variables (and optional
.env file) as the server.`,
	SilenceUsage:       true,
	PersistentPreRunE:  persistentPreRun,
	PersistentPostRunE: persistentPostRun,
}

// persistentPreRun loads configuration and opens the database for every
// command except help and completion.
func persistentPreRun(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "help" || cmd.Name() == "completion" {
		return nil
	}

	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logging.Setup(cfg.Log)

	db, err = database.Initialize(cfg.Database)
	if err != nil {
		return fmt.Errorf("database initialization failed: %w", err)
	}
	return nil
}

func persistentPostRun(cmd *cobra.Command, args []string) error {
	if db != nil {
		database.Close(db)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logrus.WithError(err).Error("Command failed")
		os.Exit(1)
	}
}
