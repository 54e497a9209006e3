package main

import (
	"github.com/spf13/cobra"

	"github.com/javajoker/geomarket/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Long: `Run the gorm auto-migrations for every model and create the secondary
indexes the feed and order queries rely on. Safe to run repeatedly.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return database.RunMigrations(db)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
