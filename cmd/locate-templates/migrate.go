package main

import (
	"fmt"

	"github.com/deppfellow/locate-templates/internal/config"
	"github.com/deppfellow/locate-templates/internal/database"
	"github.com/deppfellow/locate-templates/internal/logger"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the template tables (development and test databases)",
	Long: `migrate applies the embedded schema for archive.line_locates and
archive.point_locates. The server itself never changes the schema.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		log := logger.NewLoggerWithService(cfg.Observability, nil)

		if err := database.Migrate(cmd.Context(), &log, cfg.Database.DSN()); err != nil {
			log.Error().Err(err).Msg("migration failed")
			return err
		}
		return nil
	},
}
