package main

import (
	"fmt"

	"shopmate/internal/infra"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and identifier counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := infra.NewDatabase(cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connect to postgres: %w", err)
		}
		if err := infra.RunMigrations(db); err != nil {
			return err
		}
		log.Info().Msg("migrations applied")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
